package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"telegram_relay/internal/domain/relay"

	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Relayer is implemented by app.RelayService.
type Relayer interface {
	Relay(ctx context.Context, req relay.InboundRequest) relay.Result
}

// RequestObserver counts finished requests per route.
type RequestObserver interface {
	ObserveRequest(route string, outcome relay.Outcome)
}

// Handler is the relay endpoint. The credential strategy lives in the Relayer,
// so the same handler serves both /api/submit and /api/notify.
type Handler struct {
	route    string
	relayer  Relayer
	observer RequestObserver
	logger   *logrus.Entry
}

func NewHandler(route string, relayer Relayer, observer RequestObserver, logger *logrus.Entry) *Handler {
	return &Handler{
		route:    route,
		relayer:  relayer,
		observer: observer,
		logger:   logger.WithField("route", route),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Preflight: CORS headers are set by the middleware, nothing else to send.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	result := h.handle(w, r)
	if h.observer != nil {
		h.observer.ObserveRequest(h.route, result.Outcome())
	}
	h.write(w, r, result)
}

// handle turns a panic anywhere below it into an internal error result.
func (h *Handler) handle(w http.ResponseWriter, r *http.Request) (result relay.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.WithFields(logrus.Fields{
				"request_id": requestIDFrom(r),
				"panic":      fmt.Sprint(rec),
			}).Error("Recovered from panic while relaying")
			result = relay.InternalError("")
		}
	}()

	if r.Method != http.MethodPost {
		return relay.MethodNotAllowed()
	}

	req, err := decodeRequest(w, r)
	if err != nil {
		h.logger.WithField("request_id", requestIDFrom(r)).WithError(err).Warn("Could not decode request body")
		return relay.ClientInputError(clientDecodeMessage(err))
	}

	return h.relayer.Relay(r.Context(), req)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (relay.InboundRequest, error) {
	var req relay.InboundRequest
	if r.Body == nil {
		return req, nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) { // Empty body: validation reports the missing fields
			return relay.InboundRequest{}, nil
		}
		return relay.InboundRequest{}, err
	}
	return req, nil
}

func clientDecodeMessage(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "Request body too large"
	}
	return relay.MsgInvalidJSON
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, result relay.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.Status)
	if err := json.NewEncoder(w).Encode(result.Body); err != nil {
		h.logger.WithField("request_id", requestIDFrom(r)).WithError(err).Warn("Failed to write response")
	}
}
