package processor

import (
	"context"
	"errors"
	"time"

	"collab-server/internal/observability"
	"collab-server/internal/storage"
	"collab-server/internal/store"
)

var (
	ErrCampaignNotActive     = errors.New("campaign is not active")
	ErrInfluencerNotApproved = errors.New("influencer account is not approved")
)

// transitions lists the legal outgoing edges per request status. Rejected,
// cancelled and completed are terminal; confirming a completed request only
// appends notes.
var transitions = map[string][]string{
	store.RequestStatusPending:   {store.RequestStatusApproved, store.RequestStatusRejected, store.RequestStatusCancelled},
	store.RequestStatusApproved:  {store.RequestStatusCompleted, store.RequestStatusCancelled},
	store.RequestStatusRejected:  {},
	store.RequestStatusCompleted: {},
	store.RequestStatusCancelled: {},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// notificationTypeFor maps a new status to the notification event recorded
// for it.
var notificationTypeFor = map[string]string{
	store.RequestStatusApproved:  store.NotificationTypeRequestApproved,
	store.RequestStatusRejected:  store.NotificationTypeRequestRejected,
	store.RequestStatusCompleted: store.NotificationTypeRequestCompleted,
	store.RequestStatusCancelled: store.NotificationTypeRequestCancelled,
}

// CollaborationProcessor drives the request state machine. All multi-step
// mutations run inside a store transaction so concurrent actors never
// observe a half-applied transition.
type CollaborationProcessor struct {
	store    store.Store
	notifier Notifier
	logger   *observability.Logger
}

func New(st store.Store, notifier Notifier, logger *observability.Logger) CollaborationProcessor {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return CollaborationProcessor{
		store:    st,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateRequestParams represents parameters for creating a collaboration
// request
type CreateRequestParams struct {
	CampaignID      string
	InfluencerID    string
	ProposedContent *string
	Reservation     *store.ReservationDetails
	Delivery        *store.DeliveryDetails
}

// CreateRequest opens a pending request. The campaign must be active and
// the influencer's account approved; a duplicate campaign+influencer pair
// surfaces as a Conflict.
func (p *CollaborationProcessor) CreateRequest(ctx context.Context, params CreateRequestParams) (store.CollaborationRequest, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: params.CampaignID},
		observability.Field{Key: "influencer_id", Value: params.InfluencerID},
	)

	campaign, err := p.store.GetCampaignByID(ctx, params.CampaignID)
	if err != nil {
		return store.CollaborationRequest{}, err
	}
	if campaign.Status != store.CampaignStatusActive {
		return store.CollaborationRequest{}, ErrCampaignNotActive
	}

	influencer, err := p.store.GetInfluencerByID(ctx, params.InfluencerID)
	if err != nil {
		return store.CollaborationRequest{}, err
	}
	owner, err := p.store.GetUserByID(ctx, influencer.UserID)
	if err != nil {
		return store.CollaborationRequest{}, err
	}
	if owner.Status != store.UserStatusApproved {
		return store.CollaborationRequest{}, ErrInfluencerNotApproved
	}

	request, err := p.store.CreateCollaborationRequest(ctx, store.CreateCollaborationRequestParams{
		CampaignID:      params.CampaignID,
		InfluencerID:    params.InfluencerID,
		ProposedContent: params.ProposedContent,
		Reservation:     params.Reservation,
		Delivery:        params.Delivery,
	})
	if err != nil {
		return store.CollaborationRequest{}, err
	}

	if err := p.notifier.RequestCreated(ctx, request); err != nil {
		p.logger.Warn(observability.WithFields(ctx,
			observability.Field{Key: "request_id", Value: request.ID},
		), "failed to notify request creation")
	}
	return request, nil
}

// GetRequest fetches one request.
func (p *CollaborationProcessor) GetRequest(ctx context.Context, requestID string) (store.CollaborationRequest, error) {
	return p.store.GetCollaborationRequestByID(ctx, requestID)
}

// ListRequestsByStatus lists requests in one status, oldest first.
func (p *CollaborationProcessor) ListRequestsByStatus(ctx context.Context, status string) ([]store.CollaborationRequest, error) {
	return p.store.ListRequestsByStatus(ctx, status)
}

// ListRequestsByCampaign lists every request against a campaign.
func (p *CollaborationProcessor) ListRequestsByCampaign(ctx context.Context, campaignID string) ([]store.CollaborationRequest, error) {
	return p.store.ListRequestsByCampaign(ctx, campaignID)
}

// ListRequestsByInfluencer lists every request an influencer has made.
func (p *CollaborationProcessor) ListRequestsByInfluencer(ctx context.Context, influencerID string) ([]store.CollaborationRequest, error) {
	return p.store.ListRequestsByInfluencer(ctx, influencerID)
}

// UpdateRequestStatus applies one state-machine edge. The current status is
// read and the new one written inside a single transaction, so two
// concurrent updates cannot both pass the legality check.
func (p *CollaborationProcessor) UpdateRequestStatus(ctx context.Context, requestID, status string, adminNotes *string) (store.CollaborationRequest, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "request_id", Value: requestID},
		observability.Field{Key: "new_status", Value: status},
	)

	var updated store.CollaborationRequest
	err := p.store.Transaction(ctx, func(ctx context.Context, ts store.Store) error {
		current, err := ts.GetCollaborationRequestByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !canTransition(current.Status, status) {
			return &storage.InvalidStateError{From: current.Status, To: status}
		}
		params := store.UpdateRequestStatusParams{Status: status, AdminNotes: adminNotes}
		now := time.Now().UTC()
		switch status {
		case store.RequestStatusApproved:
			params.ApprovedAt = &now
		case store.RequestStatusCompleted:
			params.CompletedAt = &now
		}
		updated, err = ts.UpdateCollaborationRequestStatus(ctx, requestID, params)
		return err
	})
	if err != nil {
		return store.CollaborationRequest{}, err
	}

	p.notifyStatusChange(ctx, updated)
	return updated, nil
}

// AddContentDeliveryParams represents parameters for recording delivered
// content
type AddContentDeliveryParams struct {
	RequestID    string
	PlatformType string
	URL          string
}

// AddContentDelivery records one published content item and, when the
// campaign's per-platform requirements are all met, moves the request to
// completed. The insert, the counting and the transition happen in one
// transaction, so completion fires exactly once no matter the delivery
// order. Deliveries after completion still add rows but trigger nothing.
func (p *CollaborationProcessor) AddContentDelivery(ctx context.Context, params AddContentDeliveryParams) (store.ContentDelivered, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "request_id", Value: params.RequestID},
		observability.Field{Key: "platform_type", Value: params.PlatformType},
	)

	var content store.ContentDelivered
	var completed store.CollaborationRequest
	err := p.store.Transaction(ctx, func(ctx context.Context, ts store.Store) error {
		request, err := ts.GetCollaborationRequestByID(ctx, params.RequestID)
		if err != nil {
			return err
		}
		if request.Status != store.RequestStatusApproved && request.Status != store.RequestStatusCompleted {
			return &storage.InvalidStateError{From: request.Status, To: store.RequestStatusCompleted}
		}

		content, err = ts.AddContentDelivered(ctx, store.AddContentDeliveredParams{
			RequestID:    params.RequestID,
			PlatformType: params.PlatformType,
			URL:          params.URL,
		})
		if err != nil {
			return err
		}
		if request.Status == store.RequestStatusCompleted {
			return nil
		}

		campaign, err := ts.GetCampaignByID(ctx, request.CampaignID)
		if err != nil {
			return err
		}
		stories, err := ts.CountContentDelivered(ctx, params.RequestID, store.PlatformTypeInstagramStory)
		if err != nil {
			return err
		}
		videos, err := ts.CountContentDelivered(ctx, params.RequestID, store.PlatformTypeTikTokVideo)
		if err != nil {
			return err
		}
		if int64(stories) < campaign.RequiredStories || int64(videos) < campaign.RequiredVideos {
			return nil
		}

		now := time.Now().UTC()
		completed, err = ts.UpdateCollaborationRequestStatus(ctx, params.RequestID, store.UpdateRequestStatusParams{
			Status:      store.RequestStatusCompleted,
			CompletedAt: &now,
		})
		return err
	})
	if err != nil {
		return store.ContentDelivered{}, err
	}

	if completed.ID != "" {
		p.notifyStatusChange(ctx, completed)
	}
	return content, nil
}

// ConfirmCompletion records an admin's sign-off on a completed request. The
// status does not change; the note is appended to the admin notes.
func (p *CollaborationProcessor) ConfirmCompletion(ctx context.Context, requestID, note string) (store.CollaborationRequest, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "request_id", Value: requestID},
	)

	var confirmed store.CollaborationRequest
	err := p.store.Transaction(ctx, func(ctx context.Context, ts store.Store) error {
		current, err := ts.GetCollaborationRequestByID(ctx, requestID)
		if err != nil {
			return err
		}
		if current.Status != store.RequestStatusCompleted {
			return &storage.InvalidStateError{From: current.Status, To: store.RequestStatusCompleted}
		}
		if err := ts.AppendAdminNotes(ctx, requestID, note); err != nil {
			return err
		}
		confirmed, err = ts.GetCollaborationRequestByID(ctx, requestID)
		return err
	})
	if err != nil {
		return store.CollaborationRequest{}, err
	}

	if err := p.notifier.RequestStatusChanged(ctx, confirmed, store.NotificationTypeCompletionConfirmed); err != nil {
		p.logger.Warn(ctx, "failed to notify completion confirmation")
	}
	return confirmed, nil
}

// CancelRequest cancels a non-terminal request, recording the reason in the
// admin notes.
func (p *CollaborationProcessor) CancelRequest(ctx context.Context, requestID, reason string) (store.CollaborationRequest, error) {
	var notes *string
	if reason != "" {
		notes = &reason
	}
	return p.UpdateRequestStatus(ctx, requestID, store.RequestStatusCancelled, notes)
}

func (p *CollaborationProcessor) notifyStatusChange(ctx context.Context, request store.CollaborationRequest) {
	notificationType, ok := notificationTypeFor[request.Status]
	if !ok {
		return
	}
	if err := p.notifier.RequestStatusChanged(ctx, request, notificationType); err != nil {
		p.logger.Warn(observability.WithFields(ctx,
			observability.Field{Key: "request_id", Value: request.ID},
			observability.Field{Key: "notification_type", Value: notificationType},
		), "failed to notify status change")
	}
}
