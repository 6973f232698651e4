package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"collab-server/internal/storage"
)

func TestStore_ReplaceAudienceStats(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()

	influencer := createTestInfluencer(t, testDB)

	first := []AudienceStatParams{
		{Kind: AudienceStatKindCountry, Segment: "ES", Percentage: 70},
		{Kind: AudienceStatKindCountry, Segment: "FR", Percentage: 30},
		{Kind: AudienceStatKindAgeRange, Segment: "18-24", Percentage: 55},
	}
	require.NoError(t, testDB.Store.ReplaceAudienceStats(ctx, influencer.ID, first))

	second := []AudienceStatParams{
		{Kind: AudienceStatKindCountry, Segment: "ES", Percentage: 80},
		{Kind: AudienceStatKindCity, Segment: "Barcelona", Percentage: 45},
	}
	require.NoError(t, testDB.Store.ReplaceAudienceStats(ctx, influencer.ID, second))

	got, err := testDB.Store.ListAudienceStats(ctx, influencer.ID)
	require.NoError(t, err)
	require.Len(t, got, 2, "replace must drop the previous segment set")

	// kind then segment ordering: city before country
	require.Equal(t, AudienceStatKindCity, got[0].Kind)
	require.Equal(t, "Barcelona", got[0].Segment)
	require.Equal(t, 80.0, got[1].Percentage)
}

func TestStore_ReplaceAudienceStats_DuplicateSegmentRollsBack(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()

	influencer := createTestInfluencer(t, testDB)
	require.NoError(t, testDB.Store.ReplaceAudienceStats(ctx, influencer.ID, []AudienceStatParams{
		{Kind: AudienceStatKindCountry, Segment: "ES", Percentage: 100},
	}))

	err := testDB.Store.ReplaceAudienceStats(ctx, influencer.ID, []AudienceStatParams{
		{Kind: AudienceStatKindCountry, Segment: "DE", Percentage: 50},
		{Kind: AudienceStatKindCountry, Segment: "DE", Percentage: 50},
	})
	require.ErrorIs(t, err, storage.ErrConflict)

	// the failed replacement must leave the original set intact
	got, err := testDB.Store.ListAudienceStats(ctx, influencer.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "ES", got[0].Segment)
}

func TestStore_UpsertMonthlyStat(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()

	influencer := createTestInfluencer(t, testDB)

	created, err := testDB.Store.UpsertMonthlyStat(ctx, influencer.ID, MonthlyStatParams{
		Month: 3, Year: 2026, Views: 1000, Engagement: 4.2, Reach: 900,
	})
	require.NoError(t, err)

	updated, err := testDB.Store.UpsertMonthlyStat(ctx, influencer.ID, MonthlyStatParams{
		Month: 3, Year: 2026, Views: 2500, Engagement: 5.1, Reach: 2100,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID, "second write for the same month must overwrite, not insert")
	require.Equal(t, int64(2500), updated.Views)

	all, err := testDB.Store.ListMonthlyStats(ctx, influencer.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestStore_GetLatestMonthlyStat(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()

	influencer := createTestInfluencer(t, testDB)

	_, err := testDB.Store.GetLatestMonthlyStat(ctx, influencer.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	months := []MonthlyStatParams{
		{Month: 12, Year: 2025, Views: 100},
		{Month: 2, Year: 2026, Views: 300},
		{Month: 1, Year: 2026, Views: 200},
	}
	for _, m := range months {
		_, err := testDB.Store.UpsertMonthlyStat(ctx, influencer.ID, m)
		require.NoError(t, err)
	}

	latest, err := testDB.Store.GetLatestMonthlyStat(ctx, influencer.ID)
	require.NoError(t, err)
	require.Equal(t, 2026, latest.Year)
	require.Equal(t, 2, latest.Month, "year takes precedence over month")
	require.Equal(t, int64(300), latest.Views)
}

func TestStore_UpdateInfluencer_Partial(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()

	influencer := createTestInfluencer(t, testDB)

	followers := int64(50000)
	updated, err := testDB.Store.UpdateInfluencer(ctx, influencer.ID, UpdateInfluencerParams{
		InstagramFollowers: &followers,
	})
	if err != nil {
		t.Fatalf("UpdateInfluencer() error = %v", err)
	}
	if updated.InstagramFollowers != followers {
		t.Errorf("InstagramFollowers = %v, want %v", updated.InstagramFollowers, followers)
	}
	if updated.FullName != influencer.FullName {
		t.Errorf("FullName = %v, want untouched %v", updated.FullName, influencer.FullName)
	}
	if updated.City != influencer.City {
		t.Errorf("City = %v, want untouched %v", updated.City, influencer.City)
	}
}

func TestStore_GetInfluencerByUserID(t *testing.T) {
	t.Parallel()
	testDB := SetupTestDB(t, "")
	ctx := context.Background()

	influencer := createTestInfluencer(t, testDB)

	got, err := testDB.Store.GetInfluencerByUserID(ctx, influencer.UserID)
	if err != nil {
		t.Fatalf("GetInfluencerByUserID() error = %v", err)
	}
	if got.ID != influencer.ID {
		t.Errorf("ID = %v, want %v", got.ID, influencer.ID)
	}

	_, err = testDB.Store.GetInfluencerByUserID(ctx, "no-such-user")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetInfluencerByUserID(missing) error = %v, want ErrNotFound", err)
	}
}
