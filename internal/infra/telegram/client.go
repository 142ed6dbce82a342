// internal/infra/telegram/client.go
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"telegram_relay/internal/domain/relay"
	domainTelegram "telegram_relay/internal/domain/telegram"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://api.telegram.org"
	DefaultTimeout = 10 * time.Second

	redacted = "<redacted>"
)

// ErrRequestFailed wraps transport failures of a Bot API call.
var ErrRequestFailed = errors.New("telegram: sendMessage request failed")

// RestyClient implements the Sender interface on top of go-resty.
type RestyClient struct {
	http    *resty.Client
	baseURL string
}

var _ domainTelegram.Sender = (*RestyClient)(nil)

// NewRestyClient creates a Bot API client. An empty baseURL falls back to the
// public api.telegram.org endpoint, a non-positive timeout to DefaultTimeout.
func NewRestyClient(baseURL string, timeout time.Duration) *RestyClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RestyClient{
		http:    resty.New().SetTimeout(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SendMessage posts the payload to /bot<token>/sendMessage and returns the
// upstream status and body whatever the status is.
func (c *RestyClient) SendMessage(ctx context.Context, botToken string, payload relay.OutboundPayload) (*domainTelegram.Response, error) {
	body, err := encodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("telegram: encode sendMessage payload: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.methodURL(botToken, "sendMessage"))
	if err != nil {
		// The request URL embeds the token, keep it out of the error text.
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, redactToken(err.Error(), botToken))
	}

	return &domainTelegram.Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

func (c *RestyClient) methodURL(botToken, method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, botToken, method)
}

// encodePayload marshals without HTML escaping so that the text reaches
// Telegram exactly as the caller wrote it.
func encodePayload(payload relay.OutboundPayload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func redactToken(s, token string) string {
	if token == "" {
		return s
	}
	s = strings.ReplaceAll(s, token, redacted)
	if escaped := url.PathEscape(token); escaped != token {
		s = strings.ReplaceAll(s, escaped, redacted)
	}
	return s
}
