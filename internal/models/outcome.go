package models

import "errors"

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

const (
	MessageSuccess = "Thank you! Your information has been recorded."
	MessageInvalid = "Please fill in your name and email."
	MessageFailed  = "Sorry, we could not record your information right now. Please try again later."
)

// OutcomeFor maps the error returned by a submission to what the visitor sees.
func OutcomeFor(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return OutcomeInvalid
	}
	return OutcomeFailed
}

func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return MessageSuccess
	case OutcomeInvalid:
		return MessageInvalid
	default:
		return MessageFailed
	}
}

// FailureReason names the remote failure class for logs and metrics.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrRemoteService):
		return "remote_service"
	default:
		return "unknown"
	}
}
