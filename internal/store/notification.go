package store

import (
	"context"
	"fmt"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CreateNotificationParams represents parameters for recording a
// notification
type CreateNotificationParams struct {
	UserID    string
	Type      string
	Title     string
	Body      string
	RequestID *string
}

// CreateNotification records a notification for a user. Nothing is sent
// anywhere; rows are the whole product.
func (s *Store) CreateNotification(ctx context.Context, params CreateNotificationParams) (Notification, error) {
	id, err := s.backend.Create(ctx, schema.TableNotifications, storage.Row{
		schema.ColUserID:    params.UserID,
		schema.ColType:      params.Type,
		schema.ColTitle:     params.Title,
		schema.ColBody:      params.Body,
		schema.ColRequestID: strPtrValue(params.RequestID),
		schema.ColRead:      boolValue(false),
	})
	if err != nil {
		return Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	row, err := s.backend.FindByID(ctx, schema.TableNotifications, id)
	if err != nil {
		return Notification{}, err
	}
	return notificationFromRow(row), nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableNotifications, storage.Query{
		Conditions: storage.Conditions{schema.ColUserID: userID},
		OrderBy:    []storage.Order{{Column: schema.ColCreatedAt, Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]Notification, len(rows))
	for i, r := range rows {
		out[i] = notificationFromRow(r)
	}
	return out, nil
}

// CountUnreadNotifications returns the number of unread notifications a
// user has.
func (s *Store) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	return s.backend.Count(ctx, schema.TableNotifications, storage.Conditions{
		schema.ColUserID: userID,
		schema.ColRead:   boolValue(false),
	})
}

// MarkNotificationRead flags one notification as read.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	ok, err := s.backend.Update(ctx, schema.TableNotifications, id, storage.Row{schema.ColRead: boolValue(true)})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

func notificationFromRow(r storage.Row) Notification {
	return Notification{
		ID:        rowString(r, schema.ColID),
		UserID:    rowString(r, schema.ColUserID),
		Type:      rowString(r, schema.ColType),
		Title:     rowString(r, schema.ColTitle),
		Body:      rowString(r, schema.ColBody),
		RequestID: rowStringPtr(r, schema.ColRequestID),
		Read:      rowBool(r, schema.ColRead),
		CreatedAt: rowTime(r, schema.ColCreatedAt),
		UpdatedAt: rowTime(r, schema.ColUpdatedAt),
	}
}
