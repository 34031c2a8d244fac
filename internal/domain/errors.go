package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")

	// Sentinels wrapped by collaborators so failures classify into the
	// taxonomy below. Transport-level errors are deliberately left
	// unwrapped so they classify as network errors.
	ErrScript         = errors.New("script generation failed")
	ErrSynthesis      = errors.New("image synthesis failed")
	ErrStorage        = errors.New("storage operation failed")
	ErrDatabase       = errors.New("database operation failed")
	ErrContentBlocked = errors.New("content rejected")
	ErrNoFace         = errors.New("no face detected")
)

// ErrorType is the stable failure classification surfaced to polling
// clients. The set is closed; anything unrecognized maps to unknown_error.
type ErrorType string

const (
	ErrorTypeLLM             ErrorType = "llm_error"
	ErrorTypeImageGeneration ErrorType = "image_generation_error"
	ErrorTypeStorage         ErrorType = "storage_error"
	ErrorTypeDatabase        ErrorType = "database_error"
	ErrorTypeNetwork         ErrorType = "network_error"
	ErrorTypeContent         ErrorType = "content_error"
	ErrorTypeFaceDetection   ErrorType = "face_detection"
	ErrorTypeUnknown         ErrorType = "unknown_error"
)

// Failure is a classified error carried as a value across task boundaries
// instead of relying on panic/recover style propagation.
type Failure struct {
	Type    ErrorType
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Type, f.Message)
}

// NewFailure builds a Failure with a formatted message.
func NewFailure(t ErrorType, format string, args ...any) *Failure {
	return &Failure{Type: t, Message: fmt.Sprintf(format, args...)}
}

// FailureFrom converts any error into a Failure, classifying it unless it
// already is one.
func FailureFrom(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Type: Classify(err), Message: err.Error()}
}

// classifier pairs a taxonomy entry with its match predicate. Order matters:
// the first matching entry wins.
type classifier struct {
	errType ErrorType
	match   func(error) bool
}

var classifiers = []classifier{
	{ErrorTypeLLM, func(err error) bool { return errors.Is(err, ErrScript) }},
	{ErrorTypeImageGeneration, func(err error) bool { return errors.Is(err, ErrSynthesis) }},
	{ErrorTypeStorage, func(err error) bool { return errors.Is(err, ErrStorage) }},
	{ErrorTypeDatabase, func(err error) bool { return errors.Is(err, ErrDatabase) }},
	{ErrorTypeNetwork, isNetworkError},
	{ErrorTypeContent, func(err error) bool { return errors.Is(err, ErrContentBlocked) }},
	{ErrorTypeFaceDetection, func(err error) bool { return errors.Is(err, ErrNoFace) }},
}

// Classify maps an error onto the fixed taxonomy, first match wins.
func Classify(err error) ErrorType {
	if err == nil {
		return ""
	}
	for _, c := range classifiers {
		if c.match(err) {
			return c.errType
		}
	}
	return ErrorTypeUnknown
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
