package a11y

import (
	"errors"
	"fmt"
)

// Common accessibility errors.
var (
	// ErrCapabilityUnavailable indicates speech synthesis or recognition is absent.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrMalformedState indicates a persisted preference blob could not be parsed.
	ErrMalformedState = errors.New("malformed persisted state")

	// ErrRecognition indicates the recognition engine reported an error.
	ErrRecognition = errors.New("speech recognition error")

	// ErrUnclassifiedCommand indicates voice input matched no command keyword.
	ErrUnclassifiedCommand = errors.New("command not recognized")

	// ErrSpeech indicates an utterance could not be spoken.
	ErrSpeech = errors.New("speech synthesis failed")
)

// ErrorCode identifies specific error types.
type ErrorCode string

const (
	ErrorCodeCapabilityUnavailable ErrorCode = "CAPABILITY_UNAVAILABLE"
	ErrorCodeMalformedState        ErrorCode = "MALFORMED_STATE"
	ErrorCodeRecognitionTransient  ErrorCode = "RECOGNITION_TRANSIENT"
	ErrorCodeUnclassifiedCommand   ErrorCode = "UNCLASSIFIED_COMMAND"
	ErrorCodeSpeechFailure         ErrorCode = "SPEECH_FAILURE"
)

// Error is an accessibility error with a code and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// NewError creates a new Error.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error belonging to the code.
func (e *Error) Is(target error) bool {
	return sentinel(e.Code) == target
}

// Recoverable reports whether the runtime can keep going after the error.
// Every core error degrades locally; only unknown codes are fatal.
func (e *Error) Recoverable() bool {
	return sentinel(e.Code) != nil
}

func sentinel(code ErrorCode) error {
	switch code {
	case ErrorCodeCapabilityUnavailable:
		return ErrCapabilityUnavailable
	case ErrorCodeMalformedState:
		return ErrMalformedState
	case ErrorCodeRecognitionTransient:
		return ErrRecognition
	case ErrorCodeUnclassifiedCommand:
		return ErrUnclassifiedCommand
	case ErrorCodeSpeechFailure:
		return ErrSpeech
	default:
		return nil
	}
}
