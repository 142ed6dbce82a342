package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseModeHTML makes Telegram render the text as HTML.
const ParseModeHTML = "HTML"

// ChatID is a Telegram chat identifier. Clients send it either as a JSON
// string or as a JSON number; it is always forwarded as a string.
type ChatID string

// UnmarshalJSON accepts "12345", 12345 and null.
func (c *ChatID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ChatID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("chatId must be a string or a number: %w", err)
	}
	*c = ChatID(n.String())
	return nil
}

// InboundRequest is the body accepted by the relay endpoints.
// StudentName, Score, Total and Percentage are only logged, so they accept
// any JSON value and never reject a request.
type InboundRequest struct {
	Message  string `json:"message"`
	BotToken string `json:"botToken"`
	ChatID   ChatID `json:"chatId"`

	StudentName any `json:"studentName,omitempty"`
	Score       any `json:"score,omitempty"`
	Total       any `json:"total,omitempty"`
	Percentage  any `json:"percentage,omitempty"`
}

// Credentials identify the bot and the chat a message is delivered to.
type Credentials struct {
	BotToken string
	ChatID   string
}

// Complete reports whether both the token and the chat id are set.
func (c Credentials) Complete() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// OutboundPayload is the JSON body of a sendMessage call.
type OutboundPayload struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// NewPayload builds the sendMessage body. Text is the inbound message as is.
func NewPayload(req InboundRequest, creds Credentials) OutboundPayload {
	return OutboundPayload{
		ChatID:    creds.ChatID,
		Text:      req.Message,
		ParseMode: ParseModeHTML,
	}
}
