package syncbox

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxRetries bounds delivery attempts when Mutation.MaxRetries is zero.
const DefaultMaxRetries = 3

// Mutation describes a new write operation to be queued.
type Mutation struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH or DELETE).
	Method string
	// Endpoint is the target resource path (e.g., "/api/v1/messages").
	Endpoint string
	// Payload is the request body, stored as JSON. Optional for GET and DELETE.
	Payload json.RawMessage
	// MaxRetries overrides DefaultMaxRetries when positive.
	MaxRetries int
	// Domain optionally names the sync service this mutation belongs to.
	Domain string
	// EntityID optionally correlates the mutation with a cached entity.
	EntityID string
}

// Validate checks required fields and JSON validity of the payload.
func (m Mutation) Validate() error {
	switch m.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	case "":
		return ErrMethodRequired
	default:
		return ErrInvalidMethod
	}
	if m.Endpoint == "" {
		return ErrEndpointRequired
	}
	if len(m.Payload) > 0 && !json.Valid(m.Payload) {
		return ErrInvalidPayload
	}
	if m.Method == http.MethodPost || m.Method == http.MethodPut || m.Method == http.MethodPatch {
		if len(m.Payload) == 0 {
			return ErrPayloadRequired
		}
	}

	return nil
}

// Operation is a queued write awaiting delivery to the remote service.
//
// IdempotencyKey is generated once at creation and never changes across
// retries, so the server can deduplicate repeated delivery attempts.
// RetryCount only grows; an operation leaves the store either on a 2xx
// delivery or through an explicit clear.
type Operation struct {
	ID             uuid.UUID
	Method         string
	Endpoint       string
	Payload        json.RawMessage
	IdempotencyKey string
	RetryCount     int
	MaxRetries     int
	CreatedAt      time.Time
	// LastAttemptAt is zero until the first delivery attempt.
	LastAttemptAt time.Time
	// Error holds the most recent delivery failure, empty if none.
	Error string
	// Domain and EntityID carry optional correlation metadata so cache
	// observers can pair delivery outcomes with their entity.
	Domain   string
	EntityID string
}

// Exhausted reports whether the operation has used up its retry budget.
func (op Operation) Exhausted() bool {
	return op.RetryCount >= op.MaxRetries
}

// NewOperation builds an Operation from a validated mutation.
func NewOperation(m Mutation, clock Clock) (Operation, error) {
	if err := m.Validate(); err != nil {
		return Operation{}, err
	}
	if clock == nil {
		clock = SystemClock{}
	}

	maxRetries := m.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	return Operation{
		ID:             uuid.New(),
		Method:         m.Method,
		Endpoint:       m.Endpoint,
		Payload:        m.Payload,
		IdempotencyKey: uuid.NewString(),
		MaxRetries:     maxRetries,
		CreatedAt:      clock.Now(),
		Domain:         m.Domain,
		EntityID:       m.EntityID,
	}, nil
}
