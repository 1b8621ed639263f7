package syncbox

import (
	"context"
	"errors"
	"testing"
)

func TestHTTPStatusClassifier(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureAction
	}{
		{name: "transport error", err: errors.New("dial tcp: timeout"), want: FailureRetry},
		{name: "server error", err: NewStatusError(503, nil), want: FailureRetry},
		{name: "validation rejection", err: NewStatusError(422, []byte(`{"error":"bad phone"}`)), want: FailurePermanent},
		{name: "not found", err: NewStatusError(404, nil), want: FailurePermanent},
		{name: "request timeout", err: NewStatusError(408, nil), want: FailureRetry},
		{name: "conflict", err: NewStatusError(409, nil), want: FailureRetry},
		{name: "too early", err: NewStatusError(425, nil), want: FailureRetry},
		{name: "rate limited", err: NewStatusError(429, nil), want: FailureRetry},
		{name: "wrapped status error", err: errors.Join(errors.New("deliver"), NewStatusError(400, nil)), want: FailurePermanent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HTTPStatusClassifier(context.Background(), Operation{}, tc.err)
			if got != tc.want {
				t.Fatalf("expected action %d, got %d", tc.want, got)
			}
		})
	}
}

func TestDefaultClassifierRetriesEverything(t *testing.T) {
	for _, err := range []error{
		errors.New("connection refused"),
		NewStatusError(400, nil),
		NewStatusError(500, nil),
	} {
		if got := defaultFailureClassifier(context.Background(), Operation{}, err); got != FailureRetry {
			t.Fatalf("expected retry for %v, got %d", err, got)
		}
	}
}
