package shared

import (
	"errors"
	"fmt"
)

// RequestError is used when we want a specific error message and StatusCode.
// Sane defaults are listed below. For routes that need custom error messages,
// a request error can be generated and the router returns the exact message
// inside the request error msg.
//
// Error detail returned to clients stays generic; validation errors are the
// exception and may state what was missing.
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

var (
	ErrMissingAuth     = &RequestError{Err: errors.New("missing authorization header"), StatusCode: 401}
	ErrInvalidFormat   = &RequestError{Err: errors.New("invalid authentication format"), StatusCode: 401}
	ErrInvalidTokenLen = &RequestError{Err: errors.New("invalid session token length"), StatusCode: 401}
	ErrUnauthorized    = &RequestError{Err: errors.New("unauthorized"), StatusCode: 401}

	ErrPromptRequired = &RequestError{Err: errors.New("prompt is required"), StatusCode: 400}
	ErrAudioRequired  = &RequestError{Err: errors.New("audio file is required"), StatusCode: 400}
	ErrInvalidRequest = &RequestError{Err: errors.New("invalid request body"), StatusCode: 400}

	ErrInsufficientCredits = &RequestError{Err: errors.New("insufficient credits"), StatusCode: 402}

	ErrCreditCheckFailed   = &RequestError{Err: errors.New("failed to check credits"), StatusCode: 500}
	ErrCreditChargeFailed  = &RequestError{Err: errors.New("failed to process request"), StatusCode: 500}
	ErrTranscriptionFailed = &RequestError{Err: errors.New("failed to transcribe audio"), StatusCode: 500}
	ErrInternalServerError = &RequestError{Err: errors.New("internal server error"), StatusCode: 500}
)
