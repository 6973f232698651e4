package processor

import (
	"context"

	"collab-server/internal/store"
)

// Notifier receives every business-visible status change of a collaboration
// request. Implementations record notification rows and may drop a status
// message into the request's conversation; they must never block the
// workflow, so errors are logged by the processor and swallowed.
type Notifier interface {
	RequestCreated(ctx context.Context, request store.CollaborationRequest) error
	RequestStatusChanged(ctx context.Context, request store.CollaborationRequest, notificationType string) error
}

// NoopNotifier satisfies Notifier without side effects.
type NoopNotifier struct{}

func (NoopNotifier) RequestCreated(context.Context, store.CollaborationRequest) error {
	return nil
}

func (NoopNotifier) RequestStatusChanged(context.Context, store.CollaborationRequest, string) error {
	return nil
}
