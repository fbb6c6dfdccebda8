// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/statefile"
)

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// statusCode classifies an operation error into a http status.
func statusCode(err error) int {
	switch {
	case errors.Is(err, os.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, os.ErrExist):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, statefile.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		slog.Error("api operation failed", "err", err)
	}
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(&errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("could not write api response (ignored)", "err", err)
	}
}

// handler adapts a typed operation into a http handler. The parse function
// builds the request from the url path, the query and the body.
func handler[REQ, RESP any](parse func(*http.Request) (*REQ, error), do func(context.Context, *REQ) (*RESP, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := parse(r)
		if err != nil {
			writeError(w, fmt.Errorf("%v: %w", err, os.ErrInvalid))
			return
		}
		resp, err := do(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, resp)
	})
}

func pathID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q in the url path", name, r.PathValue(name))
	}
	return id, nil
}

func decodeBody[REQ any](r *http.Request) (*REQ, error) {
	req := new(REQ)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return nil, fmt.Errorf("could not decode request body: %v", err)
	}
	return req, nil
}

func botAddRequest(r *http.Request) (*api.BotAddRequest, error) {
	return decodeBody[api.BotAddRequest](r)
}

func botListRequest(r *http.Request) (*api.BotListRequest, error) {
	q := r.URL.Query()
	return &api.BotListRequest{
		Name:     q.Get("name"),
		Exchange: q.Get("exchange"),
	}, nil
}

func botGetRequest(r *http.Request) (*api.BotGetRequest, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return &api.BotGetRequest{BotID: id}, nil
}

func botUpdateRequest(r *http.Request) (*api.BotUpdateRequest, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	req, err := decodeBody[api.BotUpdateRequest](r)
	if err != nil {
		return nil, err
	}
	req.BotID = id
	return req, nil
}

func botDeleteRequest(r *http.Request) (*api.BotDeleteRequest, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return &api.BotDeleteRequest{BotID: id}, nil
}

func listenerAddRequest(r *http.Request) (*api.ListenerAddRequest, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	req, err := decodeBody[api.ListenerAddRequest](r)
	if err != nil {
		return nil, err
	}
	req.BotID = id
	return req, nil
}

func listenerListRequest(r *http.Request) (*api.ListenerListRequest, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return &api.ListenerListRequest{
		BotID:   id,
		Service: r.URL.Query().Get("service"),
	}, nil
}

func listenerGetRequest(r *http.Request) (*api.ListenerGetRequest, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	lid, err := pathID(r, "lid")
	if err != nil {
		return nil, err
	}
	return &api.ListenerGetRequest{BotID: id, ListenerID: lid}, nil
}

func listenerUpdateRequest(r *http.Request) (*api.ListenerUpdateRequest, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	lid, err := pathID(r, "lid")
	if err != nil {
		return nil, err
	}
	req, err := decodeBody[api.ListenerUpdateRequest](r)
	if err != nil {
		return nil, err
	}
	req.BotID = id
	req.ListenerID = lid
	return req, nil
}

func listenerDeleteRequest(r *http.Request) (*api.ListenerDeleteRequest, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	lid, err := pathID(r, "lid")
	if err != nil {
		return nil, err
	}
	return &api.ListenerDeleteRequest{BotID: id, ListenerID: lid}, nil
}

func listenerDeleteAllRequest(r *http.Request) (*api.ListenerDeleteAllRequest, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}
	return &api.ListenerDeleteAllRequest{
		BotID:   id,
		Service: r.URL.Query().Get("service"),
	}, nil
}
