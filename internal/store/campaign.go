package store

import (
	"context"
	"fmt"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CreateCampaignParams represents parameters for creating a campaign
type CreateCampaignParams struct {
	CompanyID             string
	AdminID               *string
	Title                 string
	Description           *string
	Category              string
	City                  string
	Latitude              *float64
	Longitude             *float64
	MinInstagramFollowers int64
	MinTikTokFollowers    int64
	RequiredStories       *int64
	RequiredVideos        *int64
	DeadlineHours         *int64
	Includes              []string
}

// CampaignFilter narrows a campaign listing. Zero-valued fields do not
// filter.
type CampaignFilter struct {
	City     string
	Category string
	Status   string
}

// CreateCampaign creates a campaign. Content requirements and deadline fall
// back to the schema defaults when the caller leaves them nil.
func (s *Store) CreateCampaign(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	includes, err := encodeStringList(params.Includes)
	if err != nil {
		return Campaign{}, err
	}
	row := storage.Row{
		schema.ColCompanyID:             params.CompanyID,
		schema.ColAdminID:               strPtrValue(params.AdminID),
		schema.ColTitle:                 params.Title,
		schema.ColDescription:           strPtrValue(params.Description),
		schema.ColCategory:              params.Category,
		schema.ColCity:                  params.City,
		schema.ColLatitude:              floatPtrValue(params.Latitude),
		schema.ColLongitude:             floatPtrValue(params.Longitude),
		schema.ColMinInstagramFollowers: params.MinInstagramFollowers,
		schema.ColMinTikTokFollowers:    params.MinTikTokFollowers,
		schema.ColIncludes:              includes,
		schema.ColStatus:                CampaignStatusDraft,
	}
	if params.RequiredStories != nil {
		row[schema.ColRequiredStories] = *params.RequiredStories
	}
	if params.RequiredVideos != nil {
		row[schema.ColRequiredVideos] = *params.RequiredVideos
	}
	if params.DeadlineHours != nil {
		row[schema.ColDeadlineHours] = *params.DeadlineHours
	}
	id, err := s.backend.Create(ctx, schema.TableCampaigns, row)
	if err != nil {
		return Campaign{}, fmt.Errorf("failed to create campaign: %w", err)
	}
	return s.GetCampaignByID(ctx, id)
}

// GetCampaignByID fetches one campaign.
func (s *Store) GetCampaignByID(ctx context.Context, id string) (Campaign, error) {
	row, err := s.backend.FindByID(ctx, schema.TableCampaigns, id)
	if err != nil {
		return Campaign{}, err
	}
	return campaignFromRow(row)
}

// ListCampaigns returns campaigns matching the filter, newest first.
func (s *Store) ListCampaigns(ctx context.Context, filter CampaignFilter) ([]Campaign, error) {
	conditions := storage.Conditions{}
	if filter.City != "" {
		conditions[schema.ColCity] = filter.City
	}
	if filter.Category != "" {
		conditions[schema.ColCategory] = filter.Category
	}
	if filter.Status != "" {
		conditions[schema.ColStatus] = filter.Status
	}
	rows, err := s.backend.FindAll(ctx, schema.TableCampaigns, storage.Query{
		Conditions: conditions,
		OrderBy:    []storage.Order{{Column: schema.ColCreatedAt, Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]Campaign, 0, len(rows))
	for _, r := range rows {
		c, err := campaignFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ListEligibleCampaigns returns the active campaigns in a city whose
// follower thresholds the given counts satisfy.
func (s *Store) ListEligibleCampaigns(ctx context.Context, city string, instagramFollowers, tiktokFollowers int64) ([]Campaign, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableCampaigns, storage.Query{
		Conditions: storage.Conditions{
			schema.ColCity:   city,
			schema.ColStatus: CampaignStatusActive,
			schema.ColMinInstagramFollowers: storage.LessEq(instagramFollowers),
			schema.ColMinTikTokFollowers:    storage.LessEq(tiktokFollowers),
		},
		OrderBy: []storage.Order{{Column: schema.ColCreatedAt, Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]Campaign, 0, len(rows))
	for _, r := range rows {
		c, err := campaignFromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// UpdateCampaignStatus moves a campaign between lifecycle states.
func (s *Store) UpdateCampaignStatus(ctx context.Context, id, status string) error {
	ok, err := s.backend.Update(ctx, schema.TableCampaigns, id, storage.Row{schema.ColStatus: status})
	if err != nil {
		return fmt.Errorf("failed to update campaign status: %w", err)
	}
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCampaign removes a campaign together with its collaboration
// requests and their delivered content (cascade).
func (s *Store) DeleteCampaign(ctx context.Context, id string) error {
	ok, err := s.backend.Delete(ctx, schema.TableCampaigns, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if !ok {
		return storage.ErrNotFound
	}
	return nil
}

func campaignFromRow(r storage.Row) (Campaign, error) {
	includes, err := decodeStringList(r, schema.ColIncludes)
	if err != nil {
		return Campaign{}, err
	}
	return Campaign{
		ID:                    rowString(r, schema.ColID),
		CompanyID:             rowString(r, schema.ColCompanyID),
		AdminID:               rowStringPtr(r, schema.ColAdminID),
		Title:                 rowString(r, schema.ColTitle),
		Description:           rowStringPtr(r, schema.ColDescription),
		Category:              rowString(r, schema.ColCategory),
		City:                  rowString(r, schema.ColCity),
		Latitude:              rowFloatPtr(r, schema.ColLatitude),
		Longitude:             rowFloatPtr(r, schema.ColLongitude),
		MinInstagramFollowers: rowInt(r, schema.ColMinInstagramFollowers),
		MinTikTokFollowers:    rowInt(r, schema.ColMinTikTokFollowers),
		RequiredStories:       rowInt(r, schema.ColRequiredStories),
		RequiredVideos:        rowInt(r, schema.ColRequiredVideos),
		DeadlineHours:         rowInt(r, schema.ColDeadlineHours),
		Includes:              includes,
		Status:                rowString(r, schema.ColStatus),
		CreatedAt:             rowTime(r, schema.ColCreatedAt),
		UpdatedAt:             rowTime(r, schema.ColUpdatedAt),
	}, nil
}
