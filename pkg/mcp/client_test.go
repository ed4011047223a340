package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMCPServer(t *testing.T) (*httptest.Server, *[]jsonrpcRequest) {
	t.Helper()
	var seen []jsonrpcRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonrpcRequest
		var raw struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      int             `json:"id"`
			Method  string          `json:"method"`
			Params  json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		req.JSONRPC = raw.JSONRPC
		req.ID = raw.ID
		req.Method = raw.Method
		seen = append(seen, req)

		w.Header().Set("Content-Type", "application/json")
		switch raw.Method {
		case "initialize":
			w.Header().Set("Mcp-Session-Id", "sess-abc")
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2025-03-26"}}`))
		case "tools/list":
			if r.Header.Get("Mcp-Session-Id") != "sess-abc" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":2,"result":{"tools":[
				{"name":"tavily-search","description":"Search the web","inputSchema":{"type":"object"}},
				{"name":"tavily-extract","description":"Extract a page","inputSchema":{"type":"object"}}
			]}}`))
		default:
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":0,"error":{"code":-32601,"message":"method not found"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestListTools(t *testing.T) {
	srv, seen := newMCPServer(t)
	client := NewClient(map[string]Endpoint{
		"tavily": {URL: srv.URL, BearerToken: "tvly-token"},
	})

	tools, err := client.ListTools(context.Background(), "tavily")
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "tavily-search", tools[0].Name)
	assert.Equal(t, "tavily", tools[0].Category)
	assert.NotEmpty(t, tools[0].InputSchema)

	// Handshake order: initialize, then tools/list under the issued session.
	require.Len(t, *seen, 2)
	assert.Equal(t, "initialize", (*seen)[0].Method)
	assert.Equal(t, "tools/list", (*seen)[1].Method)
}

func TestListToolsSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"tools":[]}}`))
	}))
	defer srv.Close()

	client := NewClient(map[string]Endpoint{"tavily": {URL: srv.URL, BearerToken: "tvly-token"}})
	_, err := client.ListTools(context.Background(), "tavily")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tvly-token", gotAuth)
}

func TestListToolsUnknownProvider(t *testing.T) {
	client := NewClient(map[string]Endpoint{})
	_, err := client.ListTools(context.Background(), "nope")
	assert.Error(t, err)
}

func TestListToolsUnreachableServer(t *testing.T) {
	client := NewClient(map[string]Endpoint{
		"tavily": {URL: "http://127.0.0.1:1"},
	})

	_, err := client.ListTools(context.Background(), "tavily")
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "tavily", connErr.Provider)
}

func TestListToolsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"unauthorized"}}`))
	}))
	defer srv.Close()

	client := NewClient(map[string]Endpoint{"tavily": {URL: srv.URL}})
	_, err := client.ListTools(context.Background(), "tavily")
	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}
