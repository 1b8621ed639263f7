package syncbox

import "errors"

var (
	// ErrMethodRequired is returned when Mutation.Method is empty.
	ErrMethodRequired = errors.New("syncbox: method is required")
	// ErrInvalidMethod is returned when Mutation.Method is not a supported HTTP method.
	ErrInvalidMethod = errors.New("syncbox: method must be GET, POST, PUT, PATCH or DELETE")
	// ErrEndpointRequired is returned when Mutation.Endpoint is empty.
	ErrEndpointRequired = errors.New("syncbox: endpoint is required")
	// ErrPayloadRequired is returned when a body-carrying mutation has no payload.
	ErrPayloadRequired = errors.New("syncbox: payload is required")
	// ErrInvalidPayload is returned when Mutation.Payload is not valid JSON.
	ErrInvalidPayload = errors.New("syncbox: payload must be valid JSON")
	// ErrOperationNotFound is returned when an operation id is not in the store.
	ErrOperationNotFound = errors.New("syncbox: operation not found")
	// ErrEntityNotFound is returned when an entity id is not in the cache.
	ErrEntityNotFound = errors.New("syncbox: entity not found")
	// ErrDrainInProgress signals that a drain was requested while one is running.
	ErrDrainInProgress = errors.New("syncbox: drain already in progress")
	// ErrOffline signals that a drain was requested while the monitor reports offline.
	ErrOffline = errors.New("syncbox: connectivity monitor reports offline")
)
