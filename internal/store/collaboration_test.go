package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"collab-server/internal/storage"
)

func TestStore_CreateCollaborationRequest(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()
	f := NewFixtures(t, testDB)

	campaign := f.CreateCampaign()
	influencer := f.CreateInfluencer()

	content := "three stories from the venue"
	reservation := &ReservationDetails{
		Date:       time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Time:       "20:30",
		Companions: 1,
	}
	request, err := testDB.Store.CreateCollaborationRequest(ctx, CreateCollaborationRequestParams{
		CampaignID:      campaign.ID,
		InfluencerID:    influencer.ID,
		ProposedContent: &content,
		Reservation:     reservation,
	})
	require.NoError(t, err)

	require.Equal(t, RequestStatusPending, request.Status)
	require.NotNil(t, request.Reservation)
	require.Equal(t, "20:30", request.Reservation.Time)
	require.Equal(t, 1, request.Reservation.Companions)
	require.Nil(t, request.Delivery)
	require.Nil(t, request.ApprovedAt)
	require.Nil(t, request.CompletedAt)
}

func TestStore_CreateCollaborationRequest_DuplicatePair(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()
	f := NewFixtures(t, testDB)

	request := f.CreateRequest()

	_, err := testDB.Store.CreateCollaborationRequest(ctx, CreateCollaborationRequestParams{
		CampaignID:   request.CampaignID,
		InfluencerID: request.InfluencerID,
	})
	require.ErrorIs(t, err, storage.ErrConflict, "one request per campaign and influencer pair")

	// the same influencer can still apply to a different campaign
	other := f.CreateCampaign()
	_, err = testDB.Store.CreateCollaborationRequest(ctx, CreateCollaborationRequestParams{
		CampaignID:   other.ID,
		InfluencerID: request.InfluencerID,
	})
	require.NoError(t, err)
}

func TestStore_UpdateCollaborationRequestStatus(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()
	f := NewFixtures(t, testDB)

	request := f.CreateRequest()

	approvedAt := time.Now().UTC()
	notes := "looks like a good fit"
	updated, err := testDB.Store.UpdateCollaborationRequestStatus(ctx, request.ID, UpdateRequestStatusParams{
		Status:     RequestStatusApproved,
		AdminNotes: &notes,
		ApprovedAt: &approvedAt,
	})
	require.NoError(t, err)
	require.Equal(t, RequestStatusApproved, updated.Status)
	require.NotNil(t, updated.ApprovedAt)
	require.NotNil(t, updated.AdminNotes)
	require.Equal(t, notes, *updated.AdminNotes)
	require.Nil(t, updated.CompletedAt)

	_, err = testDB.Store.UpdateCollaborationRequestStatus(ctx, "missing", UpdateRequestStatusParams{
		Status: RequestStatusApproved,
	})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_AppendAdminNotes(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()
	f := NewFixtures(t, testDB)

	request := f.CreateRequest()

	require.NoError(t, testDB.Store.AppendAdminNotes(ctx, request.ID, "first note"))
	require.NoError(t, testDB.Store.AppendAdminNotes(ctx, request.ID, "second note"))

	got, err := testDB.Store.GetCollaborationRequestByID(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AdminNotes)
	require.Equal(t, "first note\nsecond note", *got.AdminNotes)
}

func TestStore_ListRequestsByStatus_ArrivalOrder(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()
	f := NewFixtures(t, testDB)

	campaign := f.CreateCampaign()
	first := f.CreateRequest(func(o *RequestOpts) { o.CampaignID = &campaign.ID })
	time.Sleep(5 * time.Millisecond) // created_at has millisecond precision
	second := f.CreateRequest(func(o *RequestOpts) { o.CampaignID = &campaign.ID })

	pending, err := testDB.Store.ListRequestsByStatus(ctx, RequestStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, first.ID, pending[0].ID, "review queue drains oldest first")
	require.Equal(t, second.ID, pending[1].ID)
}

func TestStore_CountContentDelivered(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()
	f := NewFixtures(t, testDB)

	request := f.CreateRequest()

	items := []struct {
		platform string
		url      string
	}{
		{PlatformTypeInstagramStory, "https://instagram.com/stories/1"},
		{PlatformTypeTikTokVideo, "https://tiktok.com/@x/video/1"},
		{PlatformTypeInstagramStory, "https://instagram.com/stories/2"},
	}
	for _, item := range items {
		_, err := testDB.Store.AddContentDelivered(ctx, AddContentDeliveredParams{
			RequestID:    request.ID,
			PlatformType: item.platform,
			URL:          item.url,
		})
		require.NoError(t, err)
	}

	stories, err := testDB.Store.CountContentDelivered(ctx, request.ID, PlatformTypeInstagramStory)
	require.NoError(t, err)
	require.Equal(t, 2, stories)

	videos, err := testDB.Store.CountContentDelivered(ctx, request.ID, PlatformTypeTikTokVideo)
	require.NoError(t, err)
	require.Equal(t, 1, videos)

	all, err := testDB.Store.ListContentDelivered(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestStore_AddContentDelivered_RejectsUnknownPlatform(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()
	f := NewFixtures(t, testDB)

	request := f.CreateRequest()

	_, err := testDB.Store.AddContentDelivered(ctx, AddContentDeliveredParams{
		RequestID:    request.ID,
		PlatformType: "youtube_short",
		URL:          "https://youtube.com/shorts/1",
	})
	require.ErrorIs(t, err, storage.ErrValidation)
}
