package agentdock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// ChatTimeout bounds a single proxied chat call. Generation can take
// far longer than a health probe, so this is deliberately generous.
const ChatTimeout = 30 * time.Second

// ChatReply is the agent container's answer to one conversational turn.
type ChatReply struct {
	Response  string  `json:"response"`
	AgentID   string  `json:"agent_id,omitempty"`
	Model     string  `json:"model,omitempty"`
	Backend   string  `json:"ai_backend,omitempty"`
	UserID    string  `json:"user_id,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
}

// ChatClient forwards single conversational turns to running agents.
// A failed call is never retried here; retrying a generation request
// may duplicate cost or side effects.
type ChatClient struct {
	client *http.Client
}

// NewChatClient creates a ChatClient with the standard chat timeout.
func NewChatClient() *ChatClient {
	return &ChatClient{
		client: &http.Client{Timeout: ChatTimeout},
	}
}

// Send posts one message to the agent's /chat endpoint. Failures come
// back as *ChatError with the transport-level cause classified.
func (c *ChatClient) Send(ctx context.Context, endpoint, message, userID string) (*ChatReply, error) {
	payload, err := json.Marshal(map[string]string{
		"message": message,
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ChatError{Kind: classifyTransport(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ChatError{
			Kind: ChatUpstream,
			Err:  fmt.Errorf("agent returned %d: %s", resp.StatusCode, bytes.TrimSpace(body)),
		}
	}

	var reply ChatReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, &ChatError{Kind: ChatUpstream, Err: fmt.Errorf("decode chat reply: %w", err)}
	}

	return &reply, nil
}

// classifyTransport separates deadline expiry from connection-level
// failure. Both leave the record registered; only the latter demotes
// the agent's status.
func classifyTransport(err error) ChatFailure {
	if errors.Is(err, context.DeadlineExceeded) {
		return ChatTimedOut
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ChatTimedOut
	}
	return ChatUnreachable
}
