package telegram

import (
	"bytes"
	"context"
	"encoding/json"

	"telegram_relay/internal/domain/relay"
)

// Sender delivers a single sendMessage call to the Bot API.
// This keeps the relay logic independent of the HTTP client in use.
type Sender interface {
	// SendMessage returns the upstream response for any HTTP status; an error
	// means the call itself failed (network, timeout, cancelled context).
	SendMessage(ctx context.Context, botToken string, payload relay.OutboundPayload) (*Response, error)
}

// Response is the raw answer of the Bot API.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Details decodes the body as JSON. A body that is not JSON is returned as a string.
func (r *Response) Details() any {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return string(trimmed)
	}
	return v
}

// Description returns the "description" field of a Bot API error body, if any.
func (r *Response) Description() string {
	var e struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(r.Body, &e); err != nil {
		return ""
	}
	return e.Description
}
