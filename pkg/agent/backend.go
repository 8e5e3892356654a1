// Package agent implements the conversational meeting assistant: an
// OpenAI-compatible chat backend plus a tool-calling loop over the
// office manager tools.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/npash/officemgr/pkg/config"
)

// Message is a single chat message in OpenAI wire format.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the tool name and its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition defines a tool for native API-based tool calling
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON Schema
}

// ChatResponse represents one completion from the backend
type ChatResponse struct {
	Message    Message
	TokensUsed int
}

// Backend represents a chat completion backend
type Backend interface {
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*ChatResponse, error)
}

// ServerClient implements Backend for OpenAI-compatible HTTP APIs
// Works with llama-server, ollama, vllm, and hosted providers.
type ServerClient struct {
	baseURL     string
	modelName   string
	apiKey      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	apiPath     string
	maxRetries  int
}

// NewServerClient creates a client from model configuration. The API key
// is read from the environment variable named in the config; an empty
// key means the backend requires no authentication (local servers).
func NewServerClient(cfg config.ModelConfig) *ServerClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	return &ServerClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		modelName:   cfg.Name,
		apiKey:      os.Getenv(cfg.APIKeyEnv),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		apiPath:     "/v1/chat/completions",
		httpClient:  &http.Client{Timeout: timeout},
		maxRetries:  3,
	}
}

// Chat performs one completion round against the chat completions API.
func (c *ServerClient) Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*ChatResponse, error) {
	reqBody := map[string]interface{}{
		"model":       c.modelName,
		"messages":    messages,
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
		"stream":      false,
	}
	if len(tools) > 0 {
		reqBody["tools"] = formatTools(tools)
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Execute request with retry logic
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Must recreate the request on each retry since the body is consumed
		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+c.apiPath, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err = c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries && isRetryableError(err) {
				backoff := time.Duration(1<<uint(attempt)) * time.Second // 1s, 2s, 4s
				time.Sleep(backoff)
				continue
			}
			return nil, fmt.Errorf("request failed: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			break
		}

		errorBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// 5xx errors are retryable, 4xx are not
		if resp.StatusCode >= 500 && attempt < c.maxRetries {
			lastErr = fmt.Errorf("server returned %d: %s", resp.StatusCode, string(errorBody))
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			time.Sleep(backoff)
			continue
		}

		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(errorBody))
	}

	if resp == nil {
		return nil, fmt.Errorf("all retry attempts failed: %w", lastErr)
	}
	defer resp.Body.Close()

	var chatResp struct {
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &ChatResponse{
		Message:    chatResp.Choices[0].Message,
		TokensUsed: chatResp.Usage.TotalTokens,
	}, nil
}

// formatTools converts tool definitions to OpenAI format
func formatTools(tools []ToolDefinition) []map[string]interface{} {
	result := make([]map[string]interface{}, len(tools))
	for i, tool := range tools {
		result[i] = map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        tool.Name,
				"description": tool.Description,
				"parameters":  tool.Parameters,
			},
		}
	}
	return result
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if os.IsTimeout(err) {
		return true
	}

	if netErr, ok := err.(net.Error); ok {
		return netErr.Timeout()
	}

	errStr := strings.ToLower(err.Error())
	retryableMessages := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"deadline exceeded",
		"i/o timeout",
	}
	for _, msg := range retryableMessages {
		if strings.Contains(errStr, msg) {
			return true
		}
	}

	return false
}

// Close closes the HTTP client
func (c *ServerClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
