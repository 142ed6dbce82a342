package app

import (
	"errors"

	"telegram_relay/internal/domain/relay"
	domainTelegram "telegram_relay/internal/domain/telegram"
)

// ErrServerNotConfigured is returned when server-side credentials are missing.
var ErrServerNotConfigured = errors.New("server credentials are not configured")

// MissingFieldsError reports required request fields that were absent or empty.
type MissingFieldsError struct {
	Msg string
}

func (e *MissingFieldsError) Error() string {
	return e.Msg
}

// CredentialResolver decides where the bot token and chat id come from and
// how an upstream failure is reported back to the caller.
type CredentialResolver interface {
	// Name identifies the strategy in logs and metrics.
	Name() string
	// Resolve validates the request and returns the credentials to use.
	// Errors are *MissingFieldsError or ErrServerNotConfigured.
	Resolve(req relay.InboundRequest) (relay.Credentials, error)
	// FailureDetails extracts the part of a failed upstream response that is echoed to the client.
	FailureDetails(resp *domainTelegram.Response) any
}

// RequestCredentials takes the token and chat id from the request body.
type RequestCredentials struct{}

func (RequestCredentials) Name() string { return "request" }

func (RequestCredentials) Resolve(req relay.InboundRequest) (relay.Credentials, error) {
	if req.Message == "" || req.BotToken == "" || req.ChatID == "" {
		return relay.Credentials{}, &MissingFieldsError{Msg: "Missing required fields: message, botToken, chatId"}
	}
	return relay.Credentials{BotToken: req.BotToken, ChatID: string(req.ChatID)}, nil
}

// FailureDetails echoes the whole upstream payload.
func (RequestCredentials) FailureDetails(resp *domainTelegram.Response) any {
	return resp.Details()
}

// ConfiguredCredentials uses credentials injected at startup and ignores
// any botToken/chatId sent by the client.
type ConfiguredCredentials struct {
	creds relay.Credentials
}

func NewConfiguredCredentials(botToken, chatID string) ConfiguredCredentials {
	return ConfiguredCredentials{creds: relay.Credentials{BotToken: botToken, ChatID: chatID}}
}

func (ConfiguredCredentials) Name() string { return "configured" }

func (c ConfiguredCredentials) Resolve(req relay.InboundRequest) (relay.Credentials, error) {
	if req.Message == "" {
		return relay.Credentials{}, &MissingFieldsError{Msg: "Missing required field: message"}
	}
	if !c.creds.Complete() {
		return relay.Credentials{}, ErrServerNotConfigured
	}
	return c.creds, nil
}

// FailureDetails echoes only the upstream description.
func (ConfiguredCredentials) FailureDetails(resp *domainTelegram.Response) any {
	if d := resp.Description(); d != "" {
		return d
	}
	return nil
}
