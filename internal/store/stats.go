package store

import (
	"context"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CampaignStats summarizes one campaign's request pipeline.
type CampaignStats struct {
	CampaignID        string `json:"campaign_id"`
	TotalRequests     int    `json:"total_requests"`
	PendingRequests   int    `json:"pending_requests"`
	ApprovedRequests  int    `json:"approved_requests"`
	CompletedRequests int    `json:"completed_requests"`
	RejectedRequests  int    `json:"rejected_requests"`
	CancelledRequests int    `json:"cancelled_requests"`
	ContentDelivered  int    `json:"content_delivered"`
}

// CollaborationStats summarizes the request pipeline across all campaigns.
type CollaborationStats struct {
	TotalRequests     int `json:"total_requests"`
	PendingRequests   int `json:"pending_requests"`
	ApprovedRequests  int `json:"approved_requests"`
	CompletedRequests int `json:"completed_requests"`
}

// CompanyStats summarizes one company's footprint.
type CompanyStats struct {
	CompanyID          string `json:"company_id"`
	TotalCampaigns     int    `json:"total_campaigns"`
	ActiveCampaigns    int    `json:"active_campaigns"`
	CompletedCampaigns int    `json:"completed_campaigns"`
	TotalRequests      int    `json:"total_requests"`
}

// InfluencerStats summarizes one influencer's collaboration history.
type InfluencerStats struct {
	InfluencerID          string `json:"influencer_id"`
	TotalRequests         int    `json:"total_requests"`
	ApprovedRequests      int    `json:"approved_requests"`
	CompletedRequests     int    `json:"completed_requests"`
	ContentItemsDelivered int    `json:"content_items_delivered"`
}

// All reports are computed through the structured contract only, so both
// backends answer them identically.

// GetCampaignStats computes the per-status request counts of a campaign.
func (s *Store) GetCampaignStats(ctx context.Context, campaignID string) (CampaignStats, error) {
	stats := CampaignStats{CampaignID: campaignID}
	var err error
	if stats.TotalRequests, err = s.countRequests(ctx, storage.Conditions{schema.ColCampaignID: campaignID}); err != nil {
		return CampaignStats{}, err
	}
	byStatus := map[string]*int{
		RequestStatusPending:   &stats.PendingRequests,
		RequestStatusApproved:  &stats.ApprovedRequests,
		RequestStatusCompleted: &stats.CompletedRequests,
		RequestStatusRejected:  &stats.RejectedRequests,
		RequestStatusCancelled: &stats.CancelledRequests,
	}
	for status, dest := range byStatus {
		n, err := s.countRequests(ctx, storage.Conditions{
			schema.ColCampaignID: campaignID,
			schema.ColStatus:     status,
		})
		if err != nil {
			return CampaignStats{}, err
		}
		*dest = n
	}
	requests, err := s.ListRequestsByCampaign(ctx, campaignID)
	if err != nil {
		return CampaignStats{}, err
	}
	for _, req := range requests {
		n, err := s.backend.Count(ctx, schema.TableContentDelivered, storage.Conditions{schema.ColRequestID: req.ID})
		if err != nil {
			return CampaignStats{}, err
		}
		stats.ContentDelivered += n
	}
	return stats, nil
}

// GetCollaborationStats computes the global request pipeline counts.
func (s *Store) GetCollaborationStats(ctx context.Context) (CollaborationStats, error) {
	stats := CollaborationStats{}
	var err error
	if stats.TotalRequests, err = s.countRequests(ctx, nil); err != nil {
		return CollaborationStats{}, err
	}
	byStatus := map[string]*int{
		RequestStatusPending:   &stats.PendingRequests,
		RequestStatusApproved:  &stats.ApprovedRequests,
		RequestStatusCompleted: &stats.CompletedRequests,
	}
	for status, dest := range byStatus {
		n, err := s.countRequests(ctx, storage.Conditions{schema.ColStatus: status})
		if err != nil {
			return CollaborationStats{}, err
		}
		*dest = n
	}
	return stats, nil
}

// GetCompanyStats computes a company's campaign and request totals.
func (s *Store) GetCompanyStats(ctx context.Context, companyID string) (CompanyStats, error) {
	stats := CompanyStats{CompanyID: companyID}
	var err error
	if stats.TotalCampaigns, err = s.backend.Count(ctx, schema.TableCampaigns, storage.Conditions{
		schema.ColCompanyID: companyID,
	}); err != nil {
		return CompanyStats{}, err
	}
	if stats.ActiveCampaigns, err = s.backend.Count(ctx, schema.TableCampaigns, storage.Conditions{
		schema.ColCompanyID: companyID,
		schema.ColStatus:    CampaignStatusActive,
	}); err != nil {
		return CompanyStats{}, err
	}
	if stats.CompletedCampaigns, err = s.backend.Count(ctx, schema.TableCampaigns, storage.Conditions{
		schema.ColCompanyID: companyID,
		schema.ColStatus:    CampaignStatusCompleted,
	}); err != nil {
		return CompanyStats{}, err
	}
	campaigns, err := s.backend.FindAll(ctx, schema.TableCampaigns, storage.Query{
		Conditions: storage.Conditions{schema.ColCompanyID: companyID},
	})
	if err != nil {
		return CompanyStats{}, err
	}
	for _, c := range campaigns {
		n, err := s.countRequests(ctx, storage.Conditions{schema.ColCampaignID: rowString(c, schema.ColID)})
		if err != nil {
			return CompanyStats{}, err
		}
		stats.TotalRequests += n
	}
	return stats, nil
}

// GetInfluencerStats computes an influencer's collaboration totals.
func (s *Store) GetInfluencerStats(ctx context.Context, influencerID string) (InfluencerStats, error) {
	stats := InfluencerStats{InfluencerID: influencerID}
	var err error
	if stats.TotalRequests, err = s.countRequests(ctx, storage.Conditions{
		schema.ColInfluencerID: influencerID,
	}); err != nil {
		return InfluencerStats{}, err
	}
	if stats.ApprovedRequests, err = s.countRequests(ctx, storage.Conditions{
		schema.ColInfluencerID: influencerID,
		schema.ColStatus:       RequestStatusApproved,
	}); err != nil {
		return InfluencerStats{}, err
	}
	if stats.CompletedRequests, err = s.countRequests(ctx, storage.Conditions{
		schema.ColInfluencerID: influencerID,
		schema.ColStatus:       RequestStatusCompleted,
	}); err != nil {
		return InfluencerStats{}, err
	}
	requests, err := s.ListRequestsByInfluencer(ctx, influencerID)
	if err != nil {
		return InfluencerStats{}, err
	}
	for _, req := range requests {
		n, err := s.backend.Count(ctx, schema.TableContentDelivered, storage.Conditions{schema.ColRequestID: req.ID})
		if err != nil {
			return InfluencerStats{}, err
		}
		stats.ContentItemsDelivered += n
	}
	return stats, nil
}

func (s *Store) countRequests(ctx context.Context, conds storage.Conditions) (int, error) {
	return s.backend.Count(ctx, schema.TableCollaborationRequests, conds)
}
