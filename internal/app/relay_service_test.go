package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"telegram_relay/internal/domain/relay"
	domainTelegram "telegram_relay/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	calls    int
	token    string
	payload  relay.OutboundPayload
	response *domainTelegram.Response
	err      error
}

func (f *fakeSender) SendMessage(_ context.Context, botToken string, payload relay.OutboundPayload) (*domainTelegram.Response, error) {
	f.calls++
	f.token = botToken
	f.payload = payload
	return f.response, f.err
}

type upstreamObservation struct {
	strategy string
	outcome  relay.Outcome
}

type fakeObserver struct {
	seen []upstreamObservation
}

func (f *fakeObserver) ObserveUpstream(strategy string, outcome relay.Outcome, _ time.Duration) {
	f.seen = append(f.seen, upstreamObservation{strategy, outcome})
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func okResponse() *domainTelegram.Response {
	return &domainTelegram.Response{StatusCode: http.StatusOK, Body: []byte(`{"ok":true,"result":{"message_id":1}}`)}
}

func TestRelay_RequestCredentials_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  relay.InboundRequest
	}{
		{"empty", relay.InboundRequest{}},
		{"no message", relay.InboundRequest{BotToken: "t", ChatID: "1"}},
		{"no token", relay.InboundRequest{Message: "hi", ChatID: "1"}},
		{"no chat", relay.InboundRequest{Message: "hi", BotToken: "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{response: okResponse()}
			svc := NewRelayService(RequestCredentials{}, sender, nil, testLogger())

			res := svc.Relay(context.Background(), tt.req)

			assert.Equal(t, http.StatusBadRequest, res.Status)
			assert.Equal(t, relay.OutcomeClientInputError, res.Outcome())
			assert.Equal(t, "Missing required fields: message, botToken, chatId", res.Body.Error)
			assert.Zero(t, sender.calls, "no upstream call on invalid input")
		})
	}
}

func TestRelay_RequestCredentials_Success(t *testing.T) {
	sender := &fakeSender{response: okResponse()}
	observer := &fakeObserver{}
	svc := NewRelayService(RequestCredentials{}, sender, observer, testLogger())

	msg := "<b>Alice</b> scored 9/10 & passed"
	res := svc.Relay(context.Background(), relay.InboundRequest{Message: msg, BotToken: "123:abc", ChatID: "-100"})

	require.True(t, res.OK())
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, relay.ResponseBody{Success: true, Message: "Results sent to Telegram successfully"}, res.Body)

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "123:abc", sender.token)
	assert.Equal(t, relay.OutboundPayload{ChatID: "-100", Text: msg, ParseMode: "HTML"}, sender.payload)
	assert.Equal(t, []upstreamObservation{{"request", relay.OutcomeSuccess}}, observer.seen)
}

func TestRelay_RequestCredentials_UpstreamErrorEchoesPayload(t *testing.T) {
	sender := &fakeSender{response: &domainTelegram.Response{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"ok":false,"error_code":400,"description":"x"}`),
	}}
	svc := NewRelayService(RequestCredentials{}, sender, nil, testLogger())

	res := svc.Relay(context.Background(), relay.InboundRequest{Message: "hi", BotToken: "t", ChatID: "1"})

	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, relay.OutcomeUpstreamError, res.Outcome())
	assert.Equal(t, "Failed to send message to Telegram", res.Body.Error)
	assert.Equal(t, map[string]any{"ok": false, "error_code": float64(400), "description": "x"}, res.Body.Details)
}

func TestRelay_ConfiguredCredentials(t *testing.T) {
	t.Run("missing message", func(t *testing.T) {
		sender := &fakeSender{response: okResponse()}
		svc := NewRelayService(NewConfiguredCredentials("t", "1"), sender, nil, testLogger())

		res := svc.Relay(context.Background(), relay.InboundRequest{StudentName: "Bob"})

		assert.Equal(t, http.StatusBadRequest, res.Status)
		assert.Equal(t, "Missing required field: message", res.Body.Error)
		assert.Zero(t, sender.calls)
	})

	t.Run("server not configured", func(t *testing.T) {
		for _, creds := range []ConfiguredCredentials{
			NewConfiguredCredentials("", ""),
			NewConfiguredCredentials("t", ""),
			NewConfiguredCredentials("", "1"),
		} {
			sender := &fakeSender{response: okResponse()}
			svc := NewRelayService(creds, sender, nil, testLogger())

			res := svc.Relay(context.Background(), relay.InboundRequest{Message: "hi"})

			assert.Equal(t, http.StatusInternalServerError, res.Status)
			assert.Equal(t, relay.OutcomeConfigurationError, res.Outcome())
			assert.Equal(t, relay.MsgConfigurationError, res.Body.Error)
			assert.Zero(t, sender.calls)
		}
	})

	t.Run("uses configured credentials over request ones", func(t *testing.T) {
		sender := &fakeSender{response: okResponse()}
		svc := NewRelayService(NewConfiguredCredentials("server-token", "42"), sender, nil, testLogger())

		res := svc.Relay(context.Background(), relay.InboundRequest{
			Message:     "hi",
			BotToken:    "client-token",
			ChatID:      "7",
			StudentName: "Bob",
			Score:       8.0,
			Total:       "10",
			Percentage:  "80%",
		})

		require.True(t, res.OK())
		assert.Equal(t, "server-token", sender.token)
		assert.Equal(t, "42", sender.payload.ChatID)
		assert.Equal(t, "hi", sender.payload.Text)
	})

	t.Run("upstream error echoes description", func(t *testing.T) {
		sender := &fakeSender{response: &domainTelegram.Response{
			StatusCode: http.StatusForbidden,
			Body:       []byte(`{"description":"x"}`),
		}}
		svc := NewRelayService(NewConfiguredCredentials("t", "1"), sender, nil, testLogger())

		res := svc.Relay(context.Background(), relay.InboundRequest{Message: "hi"})

		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Equal(t, "x", res.Body.Details)
	})
}

func TestRelay_TransportFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("telegram: sendMessage request failed: connection refused")}
	observer := &fakeObserver{}
	svc := NewRelayService(RequestCredentials{}, sender, observer, testLogger())

	res := svc.Relay(context.Background(), relay.InboundRequest{Message: "hi", BotToken: "t", ChatID: "1"})

	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, relay.OutcomeInternalError, res.Outcome())
	assert.Equal(t, "Internal server error", res.Body.Error)
	assert.Equal(t, 1, sender.calls, "no retry")
	assert.Equal(t, []upstreamObservation{{"request", relay.OutcomeInternalError}}, observer.seen)
}

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestReceivedFields(t *testing.T) {
	fields := receivedFields(relay.InboundRequest{
		Message:     "hello",
		BotToken:    "secret",
		ChatID:      "9",
		StudentName: 42,
		Percentage:  "70%",
	})

	assert.Equal(t, logrus.Fields{
		"message_length": 5,
		"chat_id":        "9",
		"student_name":   42,
		"percentage":     "70%",
	}, fields)
}
