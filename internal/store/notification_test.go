package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"collab-server/internal/storage"
)

func TestStore_Notifications(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()
	f := NewFixtures(t, testDB)

	user := createTestUser(t, testDB, UserRoleInfluencer)
	request := f.CreateRequest()

	first, err := testDB.Store.CreateNotification(ctx, CreateNotificationParams{
		UserID:    user.ID,
		Type:      NotificationTypeRequestApproved,
		Title:     "Request approved",
		Body:      "Your collaboration request was approved.",
		RequestID: &request.ID,
	})
	require.NoError(t, err)
	require.False(t, first.Read)

	_, err = testDB.Store.CreateNotification(ctx, CreateNotificationParams{
		UserID: user.ID,
		Type:   NotificationTypeRequestCompleted,
		Title:  "Collaboration completed",
		Body:   "All required content was delivered.",
	})
	require.NoError(t, err)

	unread, err := testDB.Store.CountUnreadNotifications(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, unread)

	require.NoError(t, testDB.Store.MarkNotificationRead(ctx, first.ID))

	unread, err = testDB.Store.CountUnreadNotifications(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, unread)

	all, err := testDB.Store.ListNotifications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestStore_MarkNotificationRead_Missing(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")

	err := testDB.Store.MarkNotificationRead(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("MarkNotificationRead(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_CreateNotification_RejectsUnknownType(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")

	user := createTestUser(t, testDB, UserRoleInfluencer)

	_, err := testDB.Store.CreateNotification(context.Background(), CreateNotificationParams{
		UserID: user.ID,
		Type:   "carrier_pigeon",
		Title:  "x",
		Body:   "y",
	})
	require.ErrorIs(t, err, storage.ErrValidation)
}
