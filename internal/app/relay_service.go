// internal/app/relay_service.go
package app

import (
	"context"
	"errors"
	"time"

	"telegram_relay/internal/domain/relay"
	domainTelegram "telegram_relay/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// UpstreamObserver is notified about the duration of every Telegram call.
type UpstreamObserver interface {
	ObserveUpstream(strategy string, outcome relay.Outcome, d time.Duration)
}

// RelayService forwards one inbound request to Telegram.
type RelayService struct {
	resolver CredentialResolver
	sender   domainTelegram.Sender
	observer UpstreamObserver
	logger   *logrus.Entry
}

func NewRelayService(
	resolver CredentialResolver,
	sender domainTelegram.Sender, // Use the interface from the domain package
	observer UpstreamObserver, // May be nil
	logger *logrus.Entry,
) *RelayService {
	return &RelayService{
		resolver: resolver,
		sender:   sender,
		observer: observer,
		logger:   logger.WithField("credentials", resolver.Name()),
	}
}

// Relay validates req, sends exactly one message and maps the upstream answer.
// Every failure is returned as a Result; Relay never returns an error.
func (s *RelayService) Relay(ctx context.Context, req relay.InboundRequest) relay.Result {
	log := requestLogger(ctx, s.logger).WithFields(receivedFields(req))
	log.Info("Relay request received")

	creds, err := s.resolver.Resolve(req)
	if err != nil {
		var missing *MissingFieldsError
		switch {
		case errors.As(err, &missing):
			log.WithError(err).Warn("Rejected request with missing fields")
			return relay.ClientInputError(missing.Msg)
		case errors.Is(err, ErrServerNotConfigured):
			log.WithError(err).Error("Telegram credentials missing from server configuration")
			return relay.ConfigurationError()
		default:
			log.WithError(err).Error("Unexpected credential resolution failure")
			return relay.InternalError(err.Error())
		}
	}

	payload := relay.NewPayload(req, creds)

	start := time.Now()
	resp, err := s.sender.SendMessage(ctx, creds.BotToken, payload)
	elapsed := time.Since(start)
	log = log.WithField("upstream_ms", elapsed.Milliseconds())

	if err != nil {
		log.WithError(err).Error("Telegram API call failed")
		s.observe(relay.OutcomeInternalError, elapsed)
		return relay.InternalError(err.Error())
	}

	if !resp.OK() {
		log.WithFields(logrus.Fields{
			"upstream_status": resp.StatusCode,
			"upstream_error":  resp.Description(),
		}).Error("Telegram API error")
		s.observe(relay.OutcomeUpstreamError, elapsed)
		return relay.UpstreamError(s.resolver.FailureDetails(resp))
	}

	log.Info("Message sent to Telegram")
	s.observe(relay.OutcomeSuccess, elapsed)
	return relay.Success()
}

func (s *RelayService) observe(outcome relay.Outcome, d time.Duration) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveUpstream(s.resolver.Name(), outcome, d)
}

// receivedFields lists what is safe to log about a request; the bot token never is.
func receivedFields(req relay.InboundRequest) logrus.Fields {
	fields := logrus.Fields{
		"message_length": len(req.Message),
	}
	if req.ChatID != "" {
		fields["chat_id"] = string(req.ChatID)
	}
	for key, v := range map[string]any{
		"student_name": req.StudentName,
		"score":        req.Score,
		"total":        req.Total,
		"percentage":   req.Percentage,
	} {
		if v != nil {
			fields[key] = v
		}
	}
	return fields
}
