package relay

import "net/http"

// Outcome classifies how a relay request ended.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeClientInputError   Outcome = "client_input_error"
	OutcomeMethodNotAllowed   Outcome = "method_not_allowed"
	OutcomeConfigurationError Outcome = "server_configuration_error"
	OutcomeUpstreamError      Outcome = "upstream_error"
	OutcomeInternalError      Outcome = "internal_error"
)

// Client-facing messages.
const (
	MsgSent               = "Results sent to Telegram successfully"
	MsgMethodNotAllowed   = "Method not allowed"
	MsgConfigurationError = "Server configuration error: TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set"
	MsgUpstreamFailed     = "Failed to send message to Telegram"
	MsgInternalError      = "Internal server error"
	MsgInvalidJSON        = "Invalid JSON body"
)

// ResponseBody is what the client receives. Success responses carry
// Success and Message, failures carry Error and optionally Details.
type ResponseBody struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Result is the outcome of one relay request: an HTTP status plus body.
type Result struct {
	Status  int
	Body    ResponseBody
	outcome Outcome
}

// Outcome returns the classification of the result.
func (r Result) Outcome() Outcome {
	return r.outcome
}

// OK reports whether the message was delivered.
func (r Result) OK() bool {
	return r.outcome == OutcomeSuccess
}

func Success() Result {
	return Result{
		Status:  http.StatusOK,
		Body:    ResponseBody{Success: true, Message: MsgSent},
		outcome: OutcomeSuccess,
	}
}

func ClientInputError(msg string) Result {
	return Result{
		Status:  http.StatusBadRequest,
		Body:    ResponseBody{Error: msg},
		outcome: OutcomeClientInputError,
	}
}

func MethodNotAllowed() Result {
	return Result{
		Status:  http.StatusMethodNotAllowed,
		Body:    ResponseBody{Error: MsgMethodNotAllowed},
		outcome: OutcomeMethodNotAllowed,
	}
}

func ConfigurationError() Result {
	return Result{
		Status:  http.StatusInternalServerError,
		Body:    ResponseBody{Error: MsgConfigurationError},
		outcome: OutcomeConfigurationError,
	}
}

// UpstreamError is returned when Telegram answered with a non-2xx status.
func UpstreamError(details any) Result {
	return Result{
		Status:  http.StatusInternalServerError,
		Body:    ResponseBody{Error: MsgUpstreamFailed, Details: details},
		outcome: OutcomeUpstreamError,
	}
}

// InternalError covers transport failures and anything unexpected.
func InternalError(details string) Result {
	body := ResponseBody{Error: MsgInternalError}
	if details != "" {
		body.Details = details
	}
	return Result{
		Status:  http.StatusInternalServerError,
		Body:    body,
		outcome: OutcomeInternalError,
	}
}
