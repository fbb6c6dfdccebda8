// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"flag"
)

// ServerFlags override the api_server section of the config file.
type ServerFlags struct {
	Port int
	IP   string
}

func (sf *ServerFlags) SetFlags(fset *flag.FlagSet) {
	fset.IntVar(&sf.Port, "listen-port", 0, "TCP port number for the api endpoint (overrides the config file)")
	fset.StringVar(&sf.IP, "listen-ip", "", "TCP ip address for the api endpoint (overrides the config file)")
}
