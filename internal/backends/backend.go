package backends

import (
	"context"

	"paperflow/internal/classification"
)

// Backend delivers one document to one external system. Implementations make
// network calls only; they never touch the filesystem beyond reading the
// document, and they must honor context cancellation so the per-delivery
// timeout can cut off an unresponsive endpoint.
type Backend interface {
	// Action names the delivery action this backend serves.
	Action() classification.Action
	// Deliver sends the document. A nil return means the external system
	// accepted it.
	Deliver(ctx context.Context, doc Document) error
}

// Registry resolves actions to their configured backends.
type Registry map[classification.Action]Backend

// Resolve returns the backend for an action.
func (r Registry) Resolve(action classification.Action) (Backend, bool) {
	backend, ok := r[action]
	return backend, ok
}
