// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// fetch failures by kind, timeouts) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types that carry a cause implement Unwrap() to support errors.Is()
// and errors.As(). FetchError additionally implements Is() so that a failure
// can be matched by kind through the Err* sentinels.
package apperrors
