package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"skywatch.app/config"
	"skywatch.app/errors"
)

// LettaClient is a thin client for a Letta-compatible stateful agent
// server. The agent service treats it as the primary conversational
// backend and falls back to local keyword matching when it is
// unreachable or unconfigured.
type LettaClient struct {
	baseURL string
	client  *http.Client
}

// NewLettaClient creates an agent server client. Returns nil when no
// base URL is configured; the caller then runs fallback-only.
func NewLettaClient(cfg *config.AgentConfig) *LettaClient {
	if cfg.BaseURL == "" {
		return nil
	}
	return &LettaClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type lettaAgentRequest struct {
	Name string `json:"name"`
}

type lettaAgentResponse struct {
	ID string `json:"id"`
}

type lettaMessageRequest struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

type lettaMessage struct {
	AssistantMessage string `json:"assistant_message,omitempty"`
	ToolCall         *struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"tool_call,omitempty"`
}

type lettaMessageResponse struct {
	Messages []lettaMessage `json:"messages"`
}

// CreateAgent creates a named agent for a user and returns its ID
func (c *LettaClient) CreateAgent(ctx context.Context, userID string) (string, error) {
	payload := lettaAgentRequest{Name: "weather_agent_" + userID}
	var response lettaAgentResponse
	if err := c.post(ctx, "/v1/agents", payload, &response); err != nil {
		return "", err
	}
	if response.ID == "" {
		return "", errors.NewAgentError("agent server returned empty agent id", nil)
	}
	return response.ID, nil
}

// SendMessage relays a user message to an agent and collects the reply
// and any tool calls it made
func (c *LettaClient) SendMessage(ctx context.Context, agentID, message string) (string, []ToolCallRecord, error) {
	payload := lettaMessageRequest{Message: message, Role: "user"}
	var response lettaMessageResponse
	if err := c.post(ctx, fmt.Sprintf("/v1/agents/%s/messages", agentID), payload, &response); err != nil {
		return "", nil, err
	}

	reply := ""
	var toolCalls []ToolCallRecord
	for _, msg := range response.Messages {
		if msg.AssistantMessage != "" {
			if reply != "" {
				reply += " "
			}
			reply += msg.AssistantMessage
		}
		if msg.ToolCall != nil {
			toolCalls = append(toolCalls, ToolCallRecord{
				Name:      msg.ToolCall.Name,
				Arguments: msg.ToolCall.Arguments,
			})
		}
	}
	if reply == "" {
		reply = "I processed your request."
	}
	return reply, toolCalls, nil
}

// DeleteAgent removes an agent from the agent server
func (c *LettaClient) DeleteAgent(ctx context.Context, agentID string) error {
	requestURL := fmt.Sprintf("%s/v1/agents/%s", c.baseURL, agentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, requestURL, nil)
	if err != nil {
		return errors.NewAgentError("failed to build agent request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewAgentError("failed to reach agent server", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errors.NewAgentError(fmt.Sprintf("agent server returned status code %d", resp.StatusCode), nil)
	}
	return nil
}

// ToolCallRecord captures a tool invocation reported by the agent server
type ToolCallRecord struct {
	Name      string
	Arguments string
}

func (c *LettaClient) post(ctx context.Context, path string, payload, out interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.NewAgentError("failed to encode agent request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return errors.NewAgentError("failed to build agent request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewAgentError("failed to reach agent server", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.NewAgentError(fmt.Sprintf("agent server returned status code %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewAgentError("failed to decode agent response", err)
	}
	return nil
}
