// Package notifications records workflow events as notification rows and,
// when a conversation is bound to the request, as system chat messages.
// Nothing is delivered anywhere; rows are the whole product.
package notifications

import (
	"context"
	"errors"
	"fmt"

	"collab-server/internal/observability"
	"collab-server/internal/storage"
	"collab-server/internal/store"
)

// Service implements the workflow engine's Notifier contract.
type Service struct {
	store  store.Store
	logger *observability.Logger
}

func New(st store.Store, logger *observability.Logger) *Service {
	return &Service{store: st, logger: logger}
}

var titles = map[string]string{
	store.NotificationTypeRequestCreated:      "Collaboration request received",
	store.NotificationTypeRequestApproved:     "Collaboration request approved",
	store.NotificationTypeRequestRejected:     "Collaboration request rejected",
	store.NotificationTypeRequestCompleted:    "Collaboration completed",
	store.NotificationTypeRequestCancelled:    "Collaboration cancelled",
	store.NotificationTypeCompletionConfirmed: "Completion confirmed",
}

// RequestCreated records the creation event for the influencer.
func (s *Service) RequestCreated(ctx context.Context, request store.CollaborationRequest) error {
	return s.record(ctx, request, store.NotificationTypeRequestCreated)
}

// RequestStatusChanged records a status-change event for the influencer and
// drops a system message into the request's conversation if one exists.
func (s *Service) RequestStatusChanged(ctx context.Context, request store.CollaborationRequest, notificationType string) error {
	return s.record(ctx, request, notificationType)
}

func (s *Service) record(ctx context.Context, request store.CollaborationRequest, notificationType string) error {
	influencer, err := s.store.GetInfluencerByID(ctx, request.InfluencerID)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipient: %w", err)
	}

	title, ok := titles[notificationType]
	if !ok {
		title = "Collaboration update"
	}
	body := fmt.Sprintf("%s (request %s)", title, request.ID)

	_, err = s.store.CreateNotification(ctx, store.CreateNotificationParams{
		UserID:    influencer.UserID,
		Type:      notificationType,
		Title:     title,
		Body:      body,
		RequestID: &request.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	conv, err := s.store.GetConversationByRequestID(ctx, request.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up conversation: %w", err)
	}
	if _, err := s.store.AddChatMessage(ctx, conv.ID, nil, body); err != nil {
		return fmt.Errorf("failed to post status message: %w", err)
	}
	return nil
}
