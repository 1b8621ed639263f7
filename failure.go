package syncbox

import (
	"context"
	"errors"
	"net/http"
)

// FailureAction defines how a failed delivery attempt should be handled.
type FailureAction int

const (
	// FailureRetry leaves the operation eligible for the next drain.
	FailureRetry FailureAction = iota
	// FailurePermanent exhausts the operation's retry budget immediately.
	FailurePermanent
)

// FailureClassifier decides whether a delivery failure is retryable.
type FailureClassifier func(ctx context.Context, op Operation, err error) FailureAction

// Every failure is retryable by default; transient network errors and
// application rejections share the same bounded retry budget.
func defaultFailureClassifier(context.Context, Operation, error) FailureAction {
	return FailureRetry
}

// HTTPStatusClassifier treats 4xx rejections as permanent, except statuses
// that indicate a legitimate retry or idempotent replay conflict
// (408, 409, 425, 429). Transport errors and 5xx remain retryable.
func HTTPStatusClassifier(_ context.Context, _ Operation, err error) FailureAction {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return FailureRetry
	}
	if statusErr.StatusCode < http.StatusBadRequest || statusErr.StatusCode >= http.StatusInternalServerError {
		return FailureRetry
	}

	switch statusErr.StatusCode {
	case http.StatusRequestTimeout, http.StatusConflict, http.StatusTooEarly, http.StatusTooManyRequests:
		return FailureRetry
	}

	return FailurePermanent
}
