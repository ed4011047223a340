package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-assistant-be/pkg/chat"
)

const protocolVersion = "2025-03-26"

// Endpoint describes a remote MCP server reachable over streamable HTTP.
type Endpoint struct {
	URL         string
	BearerToken string
}

// ConnectionError marks a tool discovery failure caused by the remote
// server being unreachable or misbehaving.
type ConnectionError struct {
	Provider string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mcp provider %s unreachable: %v", e.Provider, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// JSON-RPC 2.0 types

type jsonrpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      clientInfo     `json:"clientInfo"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type toolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type listToolsResult struct {
	Tools []toolInfo `json:"tools"`
}

// Client discovers tools from configured MCP servers.
type Client struct {
	endpoints  map[string]Endpoint
	httpClient *http.Client
}

// Ensure Client implements ToolDiscoverer
var _ chat.ToolDiscoverer = &Client{}

func NewClient(endpoints map[string]Endpoint) *Client {
	return &Client{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListTools performs the MCP handshake against the named provider and
// returns its advertised tool definitions.
func (c *Client) ListTools(ctx context.Context, provider string) ([]chat.ToolDescriptor, error) {
	endpoint, ok := c.endpoints[provider]
	if !ok {
		return nil, fmt.Errorf("unknown mcp provider: %s", provider)
	}

	sessionID, err := c.initialize(ctx, endpoint)
	if err != nil {
		return nil, &ConnectionError{Provider: provider, Err: err}
	}

	result, err := c.call(ctx, endpoint, sessionID, jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "tools/list",
	})
	if err != nil {
		return nil, &ConnectionError{Provider: provider, Err: err}
	}

	var listed listToolsResult
	if err := json.Unmarshal(result, &listed); err != nil {
		return nil, &ConnectionError{Provider: provider, Err: fmt.Errorf("decode tools/list result: %w", err)}
	}

	tools := make([]chat.ToolDescriptor, 0, len(listed.Tools))
	for _, t := range listed.Tools {
		tools = append(tools, chat.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			Category:    provider,
			InputSchema: t.InputSchema,
		})
	}
	return tools, nil
}

func (c *Client) initialize(ctx context.Context, endpoint Endpoint) (string, error) {
	req := jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params: initializeParams{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{},
			ClientInfo: clientInfo{
				Name:    "ai-assistant-be",
				Version: "1.0.0",
			},
		},
	}

	resp, sessionID, err := c.post(ctx, endpoint, "", req)
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("initialize failed: %s (%d)", resp.Error.Message, resp.Error.Code)
	}
	return sessionID, nil
}

func (c *Client) call(ctx context.Context, endpoint Endpoint, sessionID string, req jsonrpcRequest) (json.RawMessage, error) {
	resp, _, err := c.post(ctx, endpoint, sessionID, req)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s failed: %s (%d)", req.Method, resp.Error.Message, resp.Error.Code)
	}
	return resp.Result, nil
}

func (c *Client) post(ctx context.Context, endpoint Endpoint, sessionID string, payload jsonrpcRequest) (*jsonrpcResponse, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint.URL, bytes.NewBuffer(body))
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if endpoint.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+endpoint.BearerToken)
	}
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp jsonrpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}

	return &rpcResp, resp.Header.Get("Mcp-Session-Id"), nil
}
