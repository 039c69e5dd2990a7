package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies why a single resource fetch failed.
type Kind int

const (
	// KindUnknown covers statuses outside the handled ranges and responses
	// that carried no body. It should never happen against a sane server.
	KindUnknown Kind = iota
	// KindBadRequest covers transport failures, invalid URLs and unreadable bodies.
	KindBadRequest
	// KindUnauthorized covers every 4xx status.
	KindUnauthorized
	// KindNotFound is part of the taxonomy but is never produced: 404 falls
	// into the 4xx range and is reported as KindUnauthorized.
	KindNotFound
	// KindServerError covers every 5xx status.
	KindServerError
	// KindDecodeError means the body did not match the expected structure.
	KindDecodeError
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindBadRequest:   "bad_request",
	KindUnauthorized: "unauthorized",
	KindNotFound:     "not_found",
	KindServerError:  "server_error",
	KindDecodeError:  "decode_error",
}

// String returns the snake_case name used in logs and metric labels.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// UserMessage returns the alert text shown to the user for a failure kind.
func UserMessage(k Kind) string {
	switch k {
	case KindBadRequest:
		return "Bad request. Please check your input."
	case KindUnauthorized:
		return "Request rejected by the server (4xx). Please try again later."
	case KindNotFound:
		return "Resource not found. Please try again later."
	case KindServerError:
		return "Server error. Please try again later."
	case KindDecodeError:
		return "Unexpected response format. Please try again later."
	default:
		return "Unknown error. Please try again later."
	}
}

// Sentinels for matching a FetchError by kind with errors.Is.
var (
	ErrBadRequest   = &FetchError{Kind: KindBadRequest}
	ErrUnauthorized = &FetchError{Kind: KindUnauthorized}
	ErrNotFound     = &FetchError{Kind: KindNotFound}
	ErrServerError  = &FetchError{Kind: KindServerError}
	ErrDecode       = &FetchError{Kind: KindDecodeError}
	ErrUnknown      = &FetchError{Kind: KindUnknown}
)

// Causes attached to FetchError values by the fetcher.
var (
	ErrEmptyBody        = errors.New("response carried no body")
	ErrBodyTooLarge     = errors.New("response body exceeds size limit")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)

// FetchError is the failure side of a resource outcome.
type FetchError struct {
	// Resource is the name of the resource being fetched ("joke", "comments", "image").
	Resource string
	// Kind is the failure classification.
	Kind Kind
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	// Cause is the underlying error, if any.
	Cause error
}

// NewFetchError creates a FetchError for resource with the given kind and cause.
func NewFetchError(resource string, kind Kind, cause error) *FetchError {
	return &FetchError{Resource: resource, Kind: kind, Cause: cause}
}

// WithStatus returns a copy of e carrying the HTTP status code.
func (e *FetchError) WithStatus(status int) *FetchError {
	cp := *e
	cp.Status = status
	return &cp
}

// Error returns "resource: kind (HTTP status): cause", omitting the empty parts.
func (e *FetchError) Error() string {
	msg := e.Kind.String()
	if e.Resource != "" {
		msg = e.Resource + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Cause }

// Is reports whether target is a FetchError of the same kind. A target with an
// empty Resource, such as the Err* sentinels, matches any resource.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Resource == "" || t.Resource == e.Resource)
}

// UserMessage returns the alert text for this failure, naming the resource.
func (e *FetchError) UserMessage() string {
	if e.Resource == "" {
		return UserMessage(e.Kind)
	}
	return e.Resource + ": " + UserMessage(e.Kind)
}

// KindOf extracts the failure kind from err. It returns KindUnknown and false
// when err does not wrap a FetchError.
func KindOf(err error) (Kind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return KindUnknown, false
}
