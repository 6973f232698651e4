package processor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"collab-server/internal/observability"
	"collab-server/internal/storage"
	"collab-server/internal/store"
)

// recordingNotifier captures every event the processor emits. Fail makes
// every call return an error, to prove notifier failures never fail the
// mutation.
type recordingNotifier struct {
	mu      sync.Mutex
	created []string
	changed []string
	Fail    bool
}

func (n *recordingNotifier) RequestCreated(_ context.Context, request store.CollaborationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail {
		return errors.New("notifier down")
	}
	n.created = append(n.created, request.ID)
	return nil
}

func (n *recordingNotifier) RequestStatusChanged(_ context.Context, request store.CollaborationRequest, notificationType string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail {
		return errors.New("notifier down")
	}
	n.changed = append(n.changed, notificationType)
	return nil
}

func (n *recordingNotifier) changedEvents() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.changed...)
}

func setupProcessor(t *testing.T) (*store.TestDB, *store.Fixtures, *recordingNotifier, CollaborationProcessor) {
	t.Helper()
	testDB := store.SetupTestDB(t, "")
	fixtures := store.NewFixtures(t, testDB)
	notifier := &recordingNotifier{}
	p := New(testDB.Store, notifier, observability.NewLogger())
	return testDB, fixtures, notifier, p
}

func TestCreateRequest(t *testing.T) {
	t.Parallel()
	_, f, notifier, p := setupProcessor(t)
	ctx := context.Background()

	campaign := f.CreateCampaign()
	influencer := f.CreateInfluencer()

	content := "two stories and one video"
	request, err := p.CreateRequest(ctx, CreateRequestParams{
		CampaignID:      campaign.ID,
		InfluencerID:    influencer.ID,
		ProposedContent: &content,
	})
	require.NoError(t, err)
	require.Equal(t, store.RequestStatusPending, request.Status)
	require.Equal(t, []string{request.ID}, notifier.created)
}

func TestCreateRequest_DuplicatePair(t *testing.T) {
	t.Parallel()
	_, f, _, p := setupProcessor(t)
	ctx := context.Background()

	campaign := f.CreateCampaign()
	influencer := f.CreateInfluencer()

	_, err := p.CreateRequest(ctx, CreateRequestParams{CampaignID: campaign.ID, InfluencerID: influencer.ID})
	require.NoError(t, err)

	_, err = p.CreateRequest(ctx, CreateRequestParams{CampaignID: campaign.ID, InfluencerID: influencer.ID})
	require.ErrorIs(t, err, storage.ErrConflict)
}

func TestCreateRequest_Preconditions(t *testing.T) {
	t.Parallel()
	testDB, f, _, p := setupProcessor(t)
	ctx := context.Background()

	t.Run("campaign not active", func(t *testing.T) {
		draft := f.CreateCampaign(func(o *store.CampaignOpts) { o.Status = store.CampaignStatusDraft })
		influencer := f.CreateInfluencer()
		_, err := p.CreateRequest(ctx, CreateRequestParams{CampaignID: draft.ID, InfluencerID: influencer.ID})
		require.ErrorIs(t, err, ErrCampaignNotActive)
	})

	t.Run("influencer not approved", func(t *testing.T) {
		campaign := f.CreateCampaign()
		influencer := f.CreateInfluencer()
		require.NoError(t, testDB.Store.UpdateUserStatus(ctx, influencer.UserID, store.UserStatusSuspended))
		_, err := p.CreateRequest(ctx, CreateRequestParams{CampaignID: campaign.ID, InfluencerID: influencer.ID})
		require.ErrorIs(t, err, ErrInfluencerNotApproved)
	})

	t.Run("campaign missing", func(t *testing.T) {
		influencer := f.CreateInfluencer()
		_, err := p.CreateRequest(ctx, CreateRequestParams{CampaignID: "missing", InfluencerID: influencer.ID})
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestUpdateRequestStatus_LegalEdges(t *testing.T) {
	t.Parallel()
	_, f, notifier, p := setupProcessor(t)
	ctx := context.Background()

	request := f.CreateRequest()

	notes := "solid proposal"
	approved, err := p.UpdateRequestStatus(ctx, request.ID, store.RequestStatusApproved, &notes)
	require.NoError(t, err)
	require.Equal(t, store.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.Nil(t, approved.CompletedAt)

	completed, err := p.UpdateRequestStatus(ctx, request.ID, store.RequestStatusCompleted, nil)
	require.NoError(t, err)
	require.Equal(t, store.RequestStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	require.Equal(t, []string{
		store.NotificationTypeRequestApproved,
		store.NotificationTypeRequestCompleted,
	}, notifier.changedEvents())
}

func TestUpdateRequestStatus_IllegalEdges(t *testing.T) {
	t.Parallel()
	_, f, _, p := setupProcessor(t)
	ctx := context.Background()

	tests := []struct {
		name string
		from string
		to   string
	}{
		{"pending to completed skips approval", store.RequestStatusPending, store.RequestStatusCompleted},
		{"approved back to pending", store.RequestStatusApproved, store.RequestStatusPending},
		{"rejected to approved", store.RequestStatusRejected, store.RequestStatusApproved},
		{"rejected to completed", store.RequestStatusRejected, store.RequestStatusCompleted},
		{"rejected to cancelled", store.RequestStatusRejected, store.RequestStatusCancelled},
		{"cancelled to approved", store.RequestStatusCancelled, store.RequestStatusApproved},
		{"completed to cancelled", store.RequestStatusCompleted, store.RequestStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := f.CreateRequest()
			driveTo(t, p, request.ID, tt.from)

			_, err := p.UpdateRequestStatus(ctx, request.ID, tt.to, nil)
			require.ErrorIs(t, err, storage.ErrInvalidState)

			var stateErr *storage.InvalidStateError
			require.ErrorAs(t, err, &stateErr)
			require.Equal(t, tt.from, stateErr.From)
			require.Equal(t, tt.to, stateErr.To)
		})
	}
}

// driveTo walks a fresh pending request to the wanted status along legal
// edges.
func driveTo(t *testing.T, p CollaborationProcessor, requestID, status string) {
	t.Helper()
	ctx := context.Background()
	switch status {
	case store.RequestStatusPending:
	case store.RequestStatusApproved, store.RequestStatusRejected, store.RequestStatusCancelled:
		_, err := p.UpdateRequestStatus(ctx, requestID, status, nil)
		require.NoError(t, err)
	case store.RequestStatusCompleted:
		_, err := p.UpdateRequestStatus(ctx, requestID, store.RequestStatusApproved, nil)
		require.NoError(t, err)
		_, err = p.UpdateRequestStatus(ctx, requestID, store.RequestStatusCompleted, nil)
		require.NoError(t, err)
	default:
		t.Fatalf("unknown status %q", status)
	}
}

func TestAddContentDelivery_AutoCompletion(t *testing.T) {
	t.Parallel()
	testDB, f, notifier, p := setupProcessor(t)
	ctx := context.Background()

	// campaign requiring 2 instagram stories and 1 tiktok video
	request := f.CreateRequest()
	_, err := p.UpdateRequestStatus(ctx, request.ID, store.RequestStatusApproved, nil)
	require.NoError(t, err)

	deliveries := []struct {
		platform string
		url      string
		complete bool
	}{
		{store.PlatformTypeTikTokVideo, "https://tiktok.com/@x/video/1", false},
		{store.PlatformTypeInstagramStory, "https://instagram.com/stories/1", false},
		{store.PlatformTypeInstagramStory, "https://instagram.com/stories/2", true},
	}
	for _, d := range deliveries {
		_, err := p.AddContentDelivery(ctx, AddContentDeliveryParams{
			RequestID:    request.ID,
			PlatformType: d.platform,
			URL:          d.url,
		})
		require.NoError(t, err)

		got, err := p.GetRequest(ctx, request.ID)
		require.NoError(t, err)
		if d.complete {
			require.Equal(t, store.RequestStatusCompleted, got.Status)
			require.NotNil(t, got.CompletedAt)
		} else {
			require.Equal(t, store.RequestStatusApproved, got.Status)
		}
	}

	items, err := testDB.Store.ListContentDelivered(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// a delivery after completion adds a row but completes nothing again
	_, err = p.AddContentDelivery(ctx, AddContentDeliveryParams{
		RequestID:    request.ID,
		PlatformType: store.PlatformTypeInstagramStory,
		URL:          "https://instagram.com/stories/3",
	})
	require.NoError(t, err)
	items, err = testDB.Store.ListContentDelivered(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, items, 4)

	completions := 0
	for _, event := range notifier.changedEvents() {
		if event == store.NotificationTypeRequestCompleted {
			completions++
		}
	}
	require.Equal(t, 1, completions, "completion must fire exactly once")
}

func TestAddContentDelivery_RequiresApproval(t *testing.T) {
	t.Parallel()
	_, f, _, p := setupProcessor(t)
	ctx := context.Background()

	request := f.CreateRequest()

	_, err := p.AddContentDelivery(ctx, AddContentDeliveryParams{
		RequestID:    request.ID,
		PlatformType: store.PlatformTypeInstagramStory,
		URL:          "https://instagram.com/stories/1",
	})
	require.ErrorIs(t, err, storage.ErrInvalidState)
}

func TestConfirmCompletion(t *testing.T) {
	t.Parallel()
	_, f, notifier, p := setupProcessor(t)
	ctx := context.Background()

	request := f.CreateRequest()

	// only completed requests can be confirmed
	_, err := p.ConfirmCompletion(ctx, request.ID, "great work")
	require.ErrorIs(t, err, storage.ErrInvalidState)

	driveTo(t, p, request.ID, store.RequestStatusCompleted)

	confirmed, err := p.ConfirmCompletion(ctx, request.ID, "great work")
	require.NoError(t, err)
	require.Equal(t, store.RequestStatusCompleted, confirmed.Status, "confirmation changes no status")
	require.NotNil(t, confirmed.AdminNotes)
	require.Contains(t, *confirmed.AdminNotes, "great work")
	require.Contains(t, notifier.changedEvents(), store.NotificationTypeCompletionConfirmed)
}

func TestCancelRequest(t *testing.T) {
	t.Parallel()
	_, f, _, p := setupProcessor(t)
	ctx := context.Background()

	pending := f.CreateRequest()
	cancelled, err := p.CancelRequest(ctx, pending.ID, "campaign put on hold")
	require.NoError(t, err)
	require.Equal(t, store.RequestStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.AdminNotes)
	require.Equal(t, "campaign put on hold", *cancelled.AdminNotes)

	// cancelling a terminal request is illegal
	_, err = p.CancelRequest(ctx, pending.ID, "again")
	require.ErrorIs(t, err, storage.ErrInvalidState)
}

func TestNotifierFailureDoesNotFailMutation(t *testing.T) {
	t.Parallel()
	_, f, notifier, p := setupProcessor(t)
	ctx := context.Background()
	notifier.Fail = true

	campaign := f.CreateCampaign()
	influencer := f.CreateInfluencer()

	request, err := p.CreateRequest(ctx, CreateRequestParams{CampaignID: campaign.ID, InfluencerID: influencer.ID})
	require.NoError(t, err, "notifier failure must not fail the create")

	updated, err := p.UpdateRequestStatus(ctx, request.ID, store.RequestStatusApproved, nil)
	require.NoError(t, err, "notifier failure must not fail the transition")
	require.Equal(t, store.RequestStatusApproved, updated.Status)
}
