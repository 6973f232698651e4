package store

import (
	"context"
	"errors"
	"fmt"

	"collab-server/internal/schema"
	"collab-server/internal/storage"
)

// CreateInfluencerParams represents parameters for creating an influencer
// profile
type CreateInfluencerParams struct {
	UserID             string
	FullName           string
	City               string
	Phone              *string
	InstagramHandle    *string
	InstagramFollowers int64
	TikTokHandle       *string
	TikTokFollowers    int64
}

// UpdateInfluencerParams represents parameters for updating an influencer
// profile. Nil fields are left untouched.
type UpdateInfluencerParams struct {
	FullName           *string
	City               *string
	Phone              *string
	InstagramHandle    *string
	InstagramFollowers *int64
	TikTokHandle       *string
	TikTokFollowers    *int64
}

// AudienceStatParams is one segment of an audience breakdown.
type AudienceStatParams struct {
	Kind       string
	Segment    string
	Percentage float64
}

// MonthlyStatParams holds the performance numbers for one calendar month.
type MonthlyStatParams struct {
	Month      int
	Year       int
	Views      int64
	Engagement float64
	Reach      int64
}

// CreateInfluencer creates an influencer profile for an existing user.
func (s *Store) CreateInfluencer(ctx context.Context, params CreateInfluencerParams) (Influencer, error) {
	id, err := s.backend.Create(ctx, schema.TableInfluencers, storage.Row{
		schema.ColUserID:             params.UserID,
		schema.ColFullName:           params.FullName,
		schema.ColCity:               params.City,
		schema.ColPhone:              strPtrValue(params.Phone),
		schema.ColInstagramHandle:    strPtrValue(params.InstagramHandle),
		schema.ColInstagramFollowers: params.InstagramFollowers,
		schema.ColTikTokHandle:       strPtrValue(params.TikTokHandle),
		schema.ColTikTokFollowers:    params.TikTokFollowers,
	})
	if err != nil {
		return Influencer{}, fmt.Errorf("failed to create influencer: %w", err)
	}
	return s.GetInfluencerByID(ctx, id)
}

// GetInfluencerByID fetches one influencer profile.
func (s *Store) GetInfluencerByID(ctx context.Context, id string) (Influencer, error) {
	row, err := s.backend.FindByID(ctx, schema.TableInfluencers, id)
	if err != nil {
		return Influencer{}, err
	}
	return influencerFromRow(row), nil
}

// GetInfluencerByUserID fetches the profile owned by a user.
func (s *Store) GetInfluencerByUserID(ctx context.Context, userID string) (Influencer, error) {
	row, err := s.backend.FindFirst(ctx, schema.TableInfluencers, storage.Conditions{schema.ColUserID: userID})
	if err != nil {
		return Influencer{}, err
	}
	return influencerFromRow(row), nil
}

// ListInfluencersByCity returns all influencer profiles in a city, newest
// first.
func (s *Store) ListInfluencersByCity(ctx context.Context, city string) ([]Influencer, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableInfluencers, storage.Query{
		Conditions: storage.Conditions{schema.ColCity: city},
		OrderBy:    []storage.Order{{Column: schema.ColCreatedAt, Desc: true}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]Influencer, len(rows))
	for i, r := range rows {
		out[i] = influencerFromRow(r)
	}
	return out, nil
}

// UpdateInfluencer applies a partial update to an influencer profile.
func (s *Store) UpdateInfluencer(ctx context.Context, id string, params UpdateInfluencerParams) (Influencer, error) {
	data := storage.Row{}
	if params.FullName != nil {
		data[schema.ColFullName] = *params.FullName
	}
	if params.City != nil {
		data[schema.ColCity] = *params.City
	}
	if params.Phone != nil {
		data[schema.ColPhone] = *params.Phone
	}
	if params.InstagramHandle != nil {
		data[schema.ColInstagramHandle] = *params.InstagramHandle
	}
	if params.InstagramFollowers != nil {
		data[schema.ColInstagramFollowers] = *params.InstagramFollowers
	}
	if params.TikTokHandle != nil {
		data[schema.ColTikTokHandle] = *params.TikTokHandle
	}
	if params.TikTokFollowers != nil {
		data[schema.ColTikTokFollowers] = *params.TikTokFollowers
	}
	ok, err := s.backend.Update(ctx, schema.TableInfluencers, id, data)
	if err != nil {
		return Influencer{}, fmt.Errorf("failed to update influencer: %w", err)
	}
	if !ok {
		return Influencer{}, storage.ErrNotFound
	}
	return s.GetInfluencerByID(ctx, id)
}

// ReplaceAudienceStats swaps the full audience breakdown of an influencer in
// one transaction: the previous segments are removed and the given set is
// inserted.
func (s *Store) ReplaceAudienceStats(ctx context.Context, influencerID string, stats []AudienceStatParams) error {
	return s.Transaction(ctx, func(ctx context.Context, ts Store) error {
		if _, err := ts.backend.DeleteWhere(ctx, schema.TableAudienceStats, storage.Conditions{schema.ColInfluencerID: influencerID}); err != nil {
			return fmt.Errorf("failed to clear audience stats: %w", err)
		}
		for _, stat := range stats {
			_, err := ts.backend.Create(ctx, schema.TableAudienceStats, storage.Row{
				schema.ColInfluencerID: influencerID,
				schema.ColKind:         stat.Kind,
				schema.ColSegment:      stat.Segment,
				schema.ColPercentage:   stat.Percentage,
			})
			if err != nil {
				return fmt.Errorf("failed to insert audience stat: %w", err)
			}
		}
		return nil
	})
}

// ListAudienceStats returns the audience breakdown of an influencer grouped
// by kind then segment.
func (s *Store) ListAudienceStats(ctx context.Context, influencerID string) ([]AudienceStat, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableAudienceStats, storage.Query{
		Conditions: storage.Conditions{schema.ColInfluencerID: influencerID},
		OrderBy:    []storage.Order{{Column: schema.ColKind}, {Column: schema.ColSegment}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]AudienceStat, len(rows))
	for i, r := range rows {
		out[i] = audienceStatFromRow(r)
	}
	return out, nil
}

// UpsertMonthlyStat records performance numbers for one month. A second
// write for the same influencer+month+year overwrites the first.
func (s *Store) UpsertMonthlyStat(ctx context.Context, influencerID string, params MonthlyStatParams) (MonthlyStat, error) {
	var result MonthlyStat
	err := s.Transaction(ctx, func(ctx context.Context, ts Store) error {
		existing, err := ts.backend.FindFirst(ctx, schema.TableMonthlyStats, storage.Conditions{
			schema.ColInfluencerID: influencerID,
			schema.ColMonth:        int64(params.Month),
			schema.ColYear:         int64(params.Year),
		})
		data := storage.Row{
			schema.ColViews:      params.Views,
			schema.ColEngagement: params.Engagement,
			schema.ColReach:      params.Reach,
		}
		var id string
		switch {
		case err == nil:
			id = rowString(existing, schema.ColID)
			if _, err := ts.backend.Update(ctx, schema.TableMonthlyStats, id, data); err != nil {
				return fmt.Errorf("failed to update monthly stat: %w", err)
			}
		case errors.Is(err, storage.ErrNotFound):
			data[schema.ColInfluencerID] = influencerID
			data[schema.ColMonth] = int64(params.Month)
			data[schema.ColYear] = int64(params.Year)
			id, err = ts.backend.Create(ctx, schema.TableMonthlyStats, data)
			if err != nil {
				return fmt.Errorf("failed to insert monthly stat: %w", err)
			}
		default:
			return err
		}
		row, err := ts.backend.FindByID(ctx, schema.TableMonthlyStats, id)
		if err != nil {
			return err
		}
		result = monthlyStatFromRow(row)
		return nil
	})
	return result, err
}

// GetLatestMonthlyStat returns the most recent monthly stat of an
// influencer, by year then month.
func (s *Store) GetLatestMonthlyStat(ctx context.Context, influencerID string) (MonthlyStat, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableMonthlyStats, storage.Query{
		Conditions: storage.Conditions{schema.ColInfluencerID: influencerID},
		OrderBy: []storage.Order{
			{Column: schema.ColYear, Desc: true},
			{Column: schema.ColMonth, Desc: true},
		},
		Limit: 1,
	})
	if err != nil {
		return MonthlyStat{}, err
	}
	if len(rows) == 0 {
		return MonthlyStat{}, storage.ErrNotFound
	}
	return monthlyStatFromRow(rows[0]), nil
}

// ListMonthlyStats returns all monthly stats of an influencer, newest first.
func (s *Store) ListMonthlyStats(ctx context.Context, influencerID string) ([]MonthlyStat, error) {
	rows, err := s.backend.FindAll(ctx, schema.TableMonthlyStats, storage.Query{
		Conditions: storage.Conditions{schema.ColInfluencerID: influencerID},
		OrderBy: []storage.Order{
			{Column: schema.ColYear, Desc: true},
			{Column: schema.ColMonth, Desc: true},
		},
	})
	if err != nil {
		return nil, err
	}
	out := make([]MonthlyStat, len(rows))
	for i, r := range rows {
		out[i] = monthlyStatFromRow(r)
	}
	return out, nil
}

func influencerFromRow(r storage.Row) Influencer {
	return Influencer{
		ID:                 rowString(r, schema.ColID),
		UserID:             rowString(r, schema.ColUserID),
		FullName:           rowString(r, schema.ColFullName),
		City:               rowString(r, schema.ColCity),
		Phone:              rowStringPtr(r, schema.ColPhone),
		InstagramHandle:    rowStringPtr(r, schema.ColInstagramHandle),
		InstagramFollowers: rowInt(r, schema.ColInstagramFollowers),
		TikTokHandle:       rowStringPtr(r, schema.ColTikTokHandle),
		TikTokFollowers:    rowInt(r, schema.ColTikTokFollowers),
		CreatedAt:          rowTime(r, schema.ColCreatedAt),
		UpdatedAt:          rowTime(r, schema.ColUpdatedAt),
	}
}

func audienceStatFromRow(r storage.Row) AudienceStat {
	return AudienceStat{
		ID:           rowString(r, schema.ColID),
		InfluencerID: rowString(r, schema.ColInfluencerID),
		Kind:         rowString(r, schema.ColKind),
		Segment:      rowString(r, schema.ColSegment),
		Percentage:   rowFloat(r, schema.ColPercentage),
		CreatedAt:    rowTime(r, schema.ColCreatedAt),
		UpdatedAt:    rowTime(r, schema.ColUpdatedAt),
	}
}

func monthlyStatFromRow(r storage.Row) MonthlyStat {
	return MonthlyStat{
		ID:           rowString(r, schema.ColID),
		InfluencerID: rowString(r, schema.ColInfluencerID),
		Month:        int(rowInt(r, schema.ColMonth)),
		Year:         int(rowInt(r, schema.ColYear)),
		Views:        rowInt(r, schema.ColViews),
		Engagement:   rowFloat(r, schema.ColEngagement),
		Reach:        rowInt(r, schema.ColReach),
		CreatedAt:    rowTime(r, schema.ColCreatedAt),
		UpdatedAt:    rowTime(r, schema.ColUpdatedAt),
	}
}
