package content

import (
	"reflect"

	apperrors "github.com/agbru/fetchboard/internal/errors"
)

// Outcome is the settled result of fetching one resource: either a value
// or a FetchError, never both. The zero Outcome is unsettled.
type Outcome[T any] struct {
	value   T
	err     *apperrors.FetchError
	settled bool
}

// Succeeded returns a settled successful Outcome holding v.
func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, settled: true}
}

// Failed returns a settled failed Outcome. A nil err is replaced by an
// unknown-kind failure so that a failed Outcome always carries an error.
func Failed[T any](err *apperrors.FetchError) Outcome[T] {
	if err == nil {
		err = &apperrors.FetchError{Kind: apperrors.KindUnknown}
	}
	return Outcome[T]{err: err, settled: true}
}

// Value returns the payload and whether the Outcome succeeded.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.OK()
}

// Err returns the failure, or nil when the Outcome succeeded or is unsettled.
func (o Outcome[T]) Err() error {
	if o.err == nil {
		return nil
	}
	return o.err
}

// FetchErr returns the typed failure, or nil.
func (o Outcome[T]) FetchErr() *apperrors.FetchError { return o.err }

// OK reports whether the Outcome settled successfully.
func (o Outcome[T]) OK() bool { return o.settled && o.err == nil }

// Settled reports whether the Outcome holds either a value or a failure.
func (o Outcome[T]) Settled() bool { return o.settled }

// Equal compares two outcomes. Failures are equal when resource, kind and
// status match; causes are not compared.
func (o Outcome[T]) Equal(other Outcome[T]) bool {
	if o.settled != other.settled || (o.err == nil) != (other.err == nil) {
		return false
	}
	if o.err != nil {
		return o.err.Resource == other.err.Resource &&
			o.err.Kind == other.err.Kind &&
			o.err.Status == other.err.Status
	}
	return reflect.DeepEqual(o.value, other.value)
}
