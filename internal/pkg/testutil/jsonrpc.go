// Package testutil holds fakes shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCHandler answers one JSON-RPC call. Return a non-nil *RPCError to fail it.
type RPCHandler func(method string, params []json.RawMessage) (interface{}, *RPCError)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// JSONRPCServer is an httptest server speaking JSON-RPC 2.0, single or batch.
type JSONRPCServer struct {
	*httptest.Server

	mu    sync.Mutex
	calls map[string]int
}

// NewJSONRPCServer starts a server and closes it when the test ends.
func NewJSONRPCServer(t testing.TB, handler RPCHandler) *JSONRPCServer {
	t.Helper()
	s := &JSONRPCServer{calls: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var reqs []rpcRequest
			if err := json.Unmarshal(trimmed, &reqs); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			resps := make([]rpcResponse, 0, len(reqs))
			for _, req := range reqs {
				resps = append(resps, s.answer(handler, req))
			}
			_ = json.NewEncoder(w).Encode(resps)
			return
		}

		var req rpcRequest
		if err := json.Unmarshal(trimmed, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(s.answer(handler, req))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *JSONRPCServer) answer(handler RPCHandler, req rpcRequest) rpcResponse {
	s.mu.Lock()
	s.calls[req.Method]++
	s.mu.Unlock()

	result, rpcErr := handler(req.Method, req.Params)
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
		return resp
	}
	if result == nil {
		result = json.RawMessage("null")
	}
	resp.Result = result
	return resp
}

// Calls returns how many times method was invoked.
func (s *JSONRPCServer) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}
