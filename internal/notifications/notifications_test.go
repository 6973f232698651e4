package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"collab-server/internal/observability"
	"collab-server/internal/store"
)

func TestRequestStatusChanged_RecordsNotification(t *testing.T) {
	t.Parallel()
	testDB := store.SetupTestDB(t, "")
	f := store.NewFixtures(t, testDB)
	ctx := context.Background()

	svc := New(testDB.Store, observability.NewLogger())
	request := f.CreateRequest()
	influencer, err := testDB.Store.GetInfluencerByID(ctx, request.InfluencerID)
	require.NoError(t, err)

	require.NoError(t, svc.RequestStatusChanged(ctx, request, store.NotificationTypeRequestApproved))

	notifs, err := testDB.Store.ListNotifications(ctx, influencer.UserID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, store.NotificationTypeRequestApproved, notifs[0].Type)
	require.NotNil(t, notifs[0].RequestID)
	require.Equal(t, request.ID, *notifs[0].RequestID)
}

func TestRequestStatusChanged_PostsSystemMessage(t *testing.T) {
	t.Parallel()
	testDB := store.SetupTestDB(t, "")
	f := store.NewFixtures(t, testDB)
	ctx := context.Background()

	svc := New(testDB.Store, observability.NewLogger())
	request := f.CreateRequest()
	influencer, err := testDB.Store.GetInfluencerByID(ctx, request.InfluencerID)
	require.NoError(t, err)

	conv, err := testDB.Store.CreateConversation(ctx, store.CreateConversationParams{
		RequestID:      &request.ID,
		Title:          "Collaboration chat",
		ParticipantIDs: []string{influencer.UserID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.RequestStatusChanged(ctx, request, store.NotificationTypeRequestCompleted))

	messages, err := testDB.Store.ListChatMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Nil(t, messages[0].SenderID, "status messages come from the system")
}

func TestRequestCreated_NoConversationIsFine(t *testing.T) {
	t.Parallel()
	testDB := store.SetupTestDB(t, "")
	f := store.NewFixtures(t, testDB)
	ctx := context.Background()

	svc := New(testDB.Store, observability.NewLogger())
	request := f.CreateRequest()

	require.NoError(t, svc.RequestCreated(ctx, request))
}
