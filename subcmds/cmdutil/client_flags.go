// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/bvk/xtrade/client"
)

// ClientFlags selects how a client command reaches the bot catalog: the
// default is the local server's TCP api endpoint; -ipc-socket dials the
// server's unix socket instead and -state-file works on the state file
// directly without any server.
type ClientFlags struct {
	port        int
	Host        string
	HTTPTimeout time.Duration

	ipcSocket string
	stateFile string
}

func (cf *ClientFlags) SetFlags(fset *flag.FlagSet) {
	fset.IntVar(&cf.port, "connect-port", 0, "TCP port number for the api endpoint (default=7762 or XTRADE_SERVER_PORT value)")
	fset.StringVar(&cf.Host, "connect-host", "127.0.0.1", "Hostname or IP address for the api endpoint")
	fset.DurationVar(&cf.HTTPTimeout, "http-timeout", 30*time.Second, "http client timeout")
	fset.StringVar(&cf.ipcSocket, "ipc-socket", "", "when non-empty, connects over this unix socket instead of TCP")
	fset.StringVar(&cf.stateFile, "state-file", "", "when non-empty, works on this state file directly without a server")
}

func (cf *ClientFlags) Port() int {
	if cf.port != 0 {
		return cf.port
	}
	if v := os.Getenv("XTRADE_SERVER_PORT"); len(v) != 0 {
		if port, err := strconv.ParseInt(v, 10, 16); err == nil {
			return int(port)
		}
	}
	return 7762
}

func (cf *ClientFlags) AddressURL() *url.URL {
	return &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(cf.Host, fmt.Sprintf("%d", cf.Port())),
	}
}

// Transport creates the transport selected by the flags.
func (cf *ClientFlags) Transport() (client.Transport, error) {
	if len(cf.stateFile) != 0 && len(cf.ipcSocket) != 0 {
		return nil, fmt.Errorf("-state-file and -ipc-socket flags are exclusive")
	}
	if len(cf.stateFile) != 0 {
		return client.NewLocal(cf.stateFile)
	}
	if len(cf.ipcSocket) != 0 {
		return client.NewUnixRemote(cf.ipcSocket, cf.HTTPTimeout)
	}
	return client.NewRemote(cf.AddressURL().String(), cf.HTTPTimeout)
}
