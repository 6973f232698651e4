package store

import (
	"context"
	"fmt"
	"time"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CreateCollaborationRequestParams represents parameters for creating a
// collaboration request
type CreateCollaborationRequestParams struct {
	CampaignID      string
	InfluencerID    string
	ProposedContent *string
	Reservation     *ReservationDetails
	Delivery        *DeliveryDetails
}

// UpdateRequestStatusParams carries a status change and the fields stamped
// alongside it.
type UpdateRequestStatusParams struct {
	Status      string
	AdminNotes  *string
	ApprovedAt  *time.Time
	CompletedAt *time.Time
}

// AddContentDeliveredParams represents parameters for recording one
// published content item
type AddContentDeliveredParams struct {
	RequestID    string
	PlatformType string
	URL          string
	DeliveredAt  time.Time
}

// CreateCollaborationRequest inserts a request in pending status. A second
// request by the same influencer for the same campaign surfaces as a
// Conflict.
func (s *Store) CreateCollaborationRequest(ctx context.Context, params CreateCollaborationRequestParams) (CollaborationRequest, error) {
	reservation, err := encodeJSONText(ptrOrNil(params.Reservation))
	if err != nil {
		return CollaborationRequest{}, err
	}
	delivery, err := encodeJSONText(ptrOrNil(params.Delivery))
	if err != nil {
		return CollaborationRequest{}, err
	}
	id, err := s.backend.Create(ctx, schema.TableCollaborationRequests, storage.Row{
		schema.ColCampaignID:         params.CampaignID,
		schema.ColInfluencerID:       params.InfluencerID,
		schema.ColStatus:             RequestStatusPending,
		schema.ColProposedContent:    strPtrValue(params.ProposedContent),
		schema.ColReservationDetails: reservation,
		schema.ColDeliveryDetails:    delivery,
	})
	if err != nil {
		return CollaborationRequest{}, fmt.Errorf("failed to create collaboration request: %w", err)
	}
	return s.GetCollaborationRequestByID(ctx, id)
}

// GetCollaborationRequestByID fetches one request.
func (s *Store) GetCollaborationRequestByID(ctx context.Context, id string) (CollaborationRequest, error) {
	row, err := s.backend.FindByID(ctx, schema.TableCollaborationRequests, id)
	if err != nil {
		return CollaborationRequest{}, err
	}
	return collaborationRequestFromRow(row)
}

// ListRequestsByStatus returns requests in one status, oldest first, so the
// review queue drains in arrival order.
func (s *Store) ListRequestsByStatus(ctx context.Context, status string) ([]CollaborationRequest, error) {
	return s.listRequests(ctx, storage.Conditions{schema.ColStatus: status})
}

// ListRequestsByCampaign returns every request against a campaign.
func (s *Store) ListRequestsByCampaign(ctx context.Context, campaignID string) ([]CollaborationRequest, error) {
	return s.listRequests(ctx, storage.Conditions{schema.ColCampaignID: campaignID})
}

// ListRequestsByInfluencer returns every request an influencer has made.
func (s *Store) ListRequestsByInfluencer(ctx context.Context, influencerID string) ([]CollaborationRequest, error) {
	return s.listRequests(ctx, storage.Conditions{schema.ColInfluencerID: influencerID})
}

func (s *Store) listRequests(ctx context.Context, conds storage.Conditions) ([]CollaborationRequest, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableCollaborationRequests, storage.Query{
		Conditions: conds,
		OrderBy:    []storage.Order{{Column: schema.ColCreatedAt}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]CollaborationRequest, 0, len(rows))
	for _, r := range rows {
		req, err := collaborationRequestFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// UpdateCollaborationRequestStatus writes a status change. Transition
// legality is the workflow processor's job; the repository only persists.
func (s *Store) UpdateCollaborationRequestStatus(ctx context.Context, id string, params UpdateRequestStatusParams) (CollaborationRequest, error) {
	data := storage.Row{schema.ColStatus: params.Status}
	if params.AdminNotes != nil {
		data[schema.ColAdminNotes] = *params.AdminNotes
	}
	if params.ApprovedAt != nil {
		data[schema.ColApprovedAt] = storage.FormatTime(*params.ApprovedAt)
	}
	if params.CompletedAt != nil {
		data[schema.ColCompletedAt] = storage.FormatTime(*params.CompletedAt)
	}
	ok, err := s.backend.Update(ctx, schema.TableCollaborationRequests, id, data)
	if err != nil {
		return CollaborationRequest{}, fmt.Errorf("failed to update request status: %w", err)
	}
	if !ok {
		return CollaborationRequest{}, storage.ErrNotFound
	}
	return s.GetCollaborationRequestByID(ctx, id)
}

// AppendAdminNotes adds a line to the request's admin notes, keeping what is
// already there.
func (s *Store) AppendAdminNotes(ctx context.Context, id, note string) error {
	req, err := s.GetCollaborationRequestByID(ctx, id)
	if err != nil {
		return err
	}
	notes := note
	if req.AdminNotes != nil && *req.AdminNotes != "" {
		notes = *req.AdminNotes + "\n" + note
	}
	_, err = s.backend.Update(ctx, schema.TableCollaborationRequests, id, storage.Row{
		schema.ColAdminNotes: notes,
	})
	if err != nil {
		return fmt.Errorf("failed to append admin notes: %w", err)
	}
	return nil
}

// AddContentDelivered records one published content item against a request.
func (s *Store) AddContentDelivered(ctx context.Context, params AddContentDeliveredParams) (ContentDelivered, error) {
	deliveredAt := params.DeliveredAt
	if deliveredAt.IsZero() {
		deliveredAt = time.Now().UTC()
	}
	id, err := s.backend.Create(ctx, schema.TableContentDelivered, storage.Row{
		schema.ColRequestID:    params.RequestID,
		schema.ColPlatformType: params.PlatformType,
		schema.ColURL:          params.URL,
		schema.ColDeliveredAt:  storage.FormatTime(deliveredAt),
	})
	if err != nil {
		return ContentDelivered{}, fmt.Errorf("failed to record delivered content: %w", err)
	}
	row, err := s.backend.FindByID(ctx, schema.TableContentDelivered, id)
	if err != nil {
		return ContentDelivered{}, err
	}
	return contentDeliveredFromRow(row), nil
}

// ListContentDelivered returns the content items of a request in delivery
// order.
func (s *Store) ListContentDelivered(ctx context.Context, requestID string) ([]ContentDelivered, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableContentDelivered, storage.Query{
		Conditions: storage.Conditions{schema.ColRequestID: requestID},
		OrderBy:    []storage.Order{{Column: schema.ColDeliveredAt}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]ContentDelivered, len(rows))
	for i, r := range rows {
		out[i] = contentDeliveredFromRow(r)
	}
	return out, nil
}

// CountContentDelivered returns how many items a request has delivered on
// one platform type.
func (s *Store) CountContentDelivered(ctx context.Context, requestID, platformType string) (int, error) {
	return s.backend.Count(ctx, schema.TableContentDelivered, storage.Conditions{
		schema.ColRequestID:    requestID,
		schema.ColPlatformType: platformType,
	})
}

func collaborationRequestFromRow(r storage.Row) (CollaborationRequest, error) {
	req := CollaborationRequest{
		ID:              rowString(r, schema.ColID),
		CampaignID:      rowString(r, schema.ColCampaignID),
		InfluencerID:    rowString(r, schema.ColInfluencerID),
		Status:          rowString(r, schema.ColStatus),
		ProposedContent: rowStringPtr(r, schema.ColProposedContent),
		AdminNotes:      rowStringPtr(r, schema.ColAdminNotes),
		ApprovedAt:      rowTimePtr(r, schema.ColApprovedAt),
		CompletedAt:     rowTimePtr(r, schema.ColCompletedAt),
		CreatedAt:       rowTime(r, schema.ColCreatedAt),
		UpdatedAt:       rowTime(r, schema.ColUpdatedAt),
	}
	var reservation ReservationDetails
	ok, err := decodeJSONText(r, schema.ColReservationDetails, &reservation)
	if err != nil {
		return CollaborationRequest{}, err
	}
	if ok {
		req.Reservation = &reservation
	}
	var delivery DeliveryDetails
	ok, err = decodeJSONText(r, schema.ColDeliveryDetails, &delivery)
	if err != nil {
		return CollaborationRequest{}, err
	}
	if ok {
		req.Delivery = &delivery
	}
	return req, nil
}

func contentDeliveredFromRow(r storage.Row) ContentDelivered {
	return ContentDelivered{
		ID:           rowString(r, schema.ColID),
		RequestID:    rowString(r, schema.ColRequestID),
		PlatformType: rowString(r, schema.ColPlatformType),
		URL:          rowString(r, schema.ColURL),
		DeliveredAt:  rowTime(r, schema.ColDeliveredAt),
		CreatedAt:    rowTime(r, schema.ColCreatedAt),
		UpdatedAt:    rowTime(r, schema.ColUpdatedAt),
	}
}

// ptrOrNil flattens a typed nil pointer into an untyped nil so the JSON
// encoder sees NULL rather than "null".
func ptrOrNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}
