// Copyright (c) 2025 BVK Chaitanya

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/statefile"
)

// Remote talks to a running server over its REST api. The same client works
// over TCP and over the server's unix socket.
type Remote struct {
	base       *url.URL
	httpClient *http.Client
}

// NewRemote creates a transport for the api endpoint at the given base URL,
// e.g. http://127.0.0.1:7762.
func NewRemote(apiURL string, timeout time.Duration) (*Remote, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse api url %q: %w", apiURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q must use http or https scheme", apiURL)
	}
	t := &Remote{
		base:       u,
		httpClient: &http.Client{Timeout: timeout},
	}
	return t, nil
}

// NewUnixRemote creates a transport that dials the server's unix socket
// instead of a TCP address.
func NewUnixRemote(socketPath string, timeout time.Duration) (*Remote, error) {
	transport := &http.Transport{
		DialContext: func(_ context.Context, network, address string) (net.Conn, error) {
			return net.DialUnix("unix", nil, &net.UnixAddr{Name: socketPath, Net: "unix"})
		},
	}
	t := &Remote{
		base: &url.URL{Scheme: "http", Host: "localhost"},
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
	return t, nil
}

// errorResponse is the JSON error body returned by the server.
type errorResponse struct {
	Error string `json:"error"`
}

// statusError turns a non-2xx response back into the sentinel error the
// server classified the failure as.
func statusError(code int, message string) error {
	if len(message) == 0 {
		message = http.StatusText(code)
	}
	switch code {
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", message, os.ErrInvalid)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", message, os.ErrNotExist)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", message, os.ErrExist)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w", message, context.DeadlineExceeded)
	default:
		return fmt.Errorf("http status code %d: %s: %w", code, message, statefile.ErrPersistence)
	}
}

func do[RESP, REQ any](ctx context.Context, t *Remote, method, subpath string, query url.Values, req *REQ) (*RESP, error) {
	u := *t.base
	u.Path = path.Join(u.Path, subpath)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if req != nil && (method == http.MethodPost || method == http.MethodPut) {
		data, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	r, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		r.Header.Set("content-type", "application/json")
	}

	resp, err := t.httpClient.Do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		e := new(errorResponse)
		if err := json.Unmarshal(data, e); err != nil || len(e.Error) == 0 {
			e.Error = string(data)
		}
		return nil, statusError(resp.StatusCode, e.Error)
	}
	response := new(RESP)
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return nil, err
	}
	return response, nil
}

func botPath(id uint64) string {
	return fmt.Sprintf("%s/%d", api.BotsPath, id)
}

func listenersPath(botID uint64) string {
	return fmt.Sprintf("%s/%d%s", api.BotsPath, botID, api.ListenersPath)
}

func listenerPath(botID, listenerID uint64) string {
	return fmt.Sprintf("%s/%d%s/%d", api.BotsPath, botID, api.ListenersPath, listenerID)
}

func (t *Remote) AddBot(ctx context.Context, req *api.BotAddRequest) (*api.BotView, error) {
	return do[api.BotView](ctx, t, http.MethodPost, api.BotsPath, nil, req)
}

func (t *Remote) GetBot(ctx context.Context, req *api.BotGetRequest) (*api.BotView, error) {
	return do[api.BotView, struct{}](ctx, t, http.MethodGet, botPath(req.BotID), nil, nil)
}

func (t *Remote) ListBots(ctx context.Context, req *api.BotListRequest) (*api.BotListResponse, error) {
	query := url.Values{}
	if req != nil {
		if len(req.Name) != 0 {
			query.Set("name", req.Name)
		}
		if len(req.Exchange) != 0 {
			query.Set("exchange", req.Exchange)
		}
	}
	return do[api.BotListResponse, struct{}](ctx, t, http.MethodGet, api.BotsPath, query, nil)
}

func (t *Remote) UpdateBot(ctx context.Context, req *api.BotUpdateRequest) (*api.BotView, error) {
	return do[api.BotView](ctx, t, http.MethodPut, botPath(req.BotID), nil, req)
}

func (t *Remote) DeleteBot(ctx context.Context, req *api.BotDeleteRequest) (*api.BotView, error) {
	return do[api.BotView, struct{}](ctx, t, http.MethodDelete, botPath(req.BotID), nil, nil)
}

func (t *Remote) AddListener(ctx context.Context, req *api.ListenerAddRequest) (*api.ListenerView, error) {
	return do[api.ListenerView](ctx, t, http.MethodPost, listenersPath(req.BotID), nil, req)
}

func (t *Remote) GetListener(ctx context.Context, req *api.ListenerGetRequest) (*api.ListenerView, error) {
	return do[api.ListenerView, struct{}](ctx, t, http.MethodGet, listenerPath(req.BotID, req.ListenerID), nil, nil)
}

func (t *Remote) ListListeners(ctx context.Context, req *api.ListenerListRequest) (*api.ListenerListResponse, error) {
	query := url.Values{}
	if len(req.Service) != 0 {
		query.Set("service", req.Service)
	}
	return do[api.ListenerListResponse, struct{}](ctx, t, http.MethodGet, listenersPath(req.BotID), query, nil)
}

func (t *Remote) UpdateListener(ctx context.Context, req *api.ListenerUpdateRequest) (*api.ListenerView, error) {
	return do[api.ListenerView](ctx, t, http.MethodPut, listenerPath(req.BotID, req.ListenerID), nil, req)
}

func (t *Remote) DeleteListener(ctx context.Context, req *api.ListenerDeleteRequest) (*api.ListenerView, error) {
	return do[api.ListenerView, struct{}](ctx, t, http.MethodDelete, listenerPath(req.BotID, req.ListenerID), nil, nil)
}

func (t *Remote) DeleteListeners(ctx context.Context, req *api.ListenerDeleteAllRequest) (*api.ListenerDeleteAllResponse, error) {
	query := url.Values{}
	if len(req.Service) != 0 {
		query.Set("service", req.Service)
	}
	return do[api.ListenerDeleteAllResponse, struct{}](ctx, t, http.MethodDelete, listenersPath(req.BotID), query, nil)
}
