package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Fixtures provides factory functions for creating test data.
// All factory methods use testify/require to fail fast on errors.
type Fixtures struct {
	t      *testing.T
	testDB *TestDB
	ctx    context.Context
}

// NewFixtures creates a new Fixtures instance for test data generation.
func NewFixtures(t *testing.T, testDB *TestDB) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:      t,
		testDB: testDB,
		ctx:    context.Background(),
	}
}

// --- User Fixtures ---

// UserOpts customizes user creation.
type UserOpts struct {
	Email  string
	Role   string
	Status string
}

// DefaultUserOpts returns sensible defaults for user creation.
func DefaultUserOpts() UserOpts {
	return UserOpts{
		Email:  "user-" + uuid.New().String()[:8] + "@example.com",
		Role:   UserRoleInfluencer,
		Status: UserStatusApproved,
	}
}

// CreateUser creates a test user with optional customization.
func (f *Fixtures) CreateUser(opts ...func(*UserOpts)) User {
	f.t.Helper()
	o := DefaultUserOpts()
	for _, fn := range opts {
		fn(&o)
	}

	user, err := f.testDB.Store.CreateUser(f.ctx, CreateUserParams{
		Email:        o.Email,
		PasswordHash: "$2a$10$fixturehashfixturehashfixturehashfixtureha",
		Role:         o.Role,
		Status:       o.Status,
	})
	require.NoError(f.t, err, "failed to create test user")
	return user
}

// --- Influencer Fixtures ---

// InfluencerOpts customizes influencer profile creation.
type InfluencerOpts struct {
	UserID             *string
	FullName           string
	City               string
	InstagramFollowers int64
	TikTokFollowers    int64
}

// DefaultInfluencerOpts returns sensible defaults for influencer creation.
func DefaultInfluencerOpts() InfluencerOpts {
	return InfluencerOpts{
		FullName:           "Test Influencer",
		City:               "Barcelona",
		InstagramFollowers: 12000,
		TikTokFollowers:    8000,
	}
}

// CreateInfluencer creates a test influencer profile, owning user included
// unless one is supplied.
func (f *Fixtures) CreateInfluencer(opts ...func(*InfluencerOpts)) Influencer {
	f.t.Helper()
	o := DefaultInfluencerOpts()
	for _, fn := range opts {
		fn(&o)
	}

	userID := ""
	if o.UserID != nil {
		userID = *o.UserID
	} else {
		userID = f.CreateUser(func(u *UserOpts) { u.Role = UserRoleInfluencer }).ID
	}

	handle := "handle_" + uuid.New().String()[:8]
	influencer, err := f.testDB.Store.CreateInfluencer(f.ctx, CreateInfluencerParams{
		UserID:             userID,
		FullName:           o.FullName,
		City:               o.City,
		InstagramHandle:    &handle,
		InstagramFollowers: o.InstagramFollowers,
		TikTokFollowers:    o.TikTokFollowers,
	})
	require.NoError(f.t, err, "failed to create test influencer")
	return influencer
}

// --- Company Fixtures ---

// CompanyOpts customizes company profile creation.
type CompanyOpts struct {
	UserID *string
	Name   string
	City   string
}

// DefaultCompanyOpts returns sensible defaults for company creation.
func DefaultCompanyOpts() CompanyOpts {
	return CompanyOpts{
		Name: "Test Company",
		City: "Barcelona",
	}
}

// CreateCompany creates a test company profile, owning user included unless
// one is supplied.
func (f *Fixtures) CreateCompany(opts ...func(*CompanyOpts)) Company {
	f.t.Helper()
	o := DefaultCompanyOpts()
	for _, fn := range opts {
		fn(&o)
	}

	userID := ""
	if o.UserID != nil {
		userID = *o.UserID
	} else {
		userID = f.CreateUser(func(u *UserOpts) { u.Role = UserRoleCompany }).ID
	}

	company, err := f.testDB.Store.CreateCompany(f.ctx, CreateCompanyParams{
		UserID:  userID,
		Name:    o.Name,
		LegalID: "B" + uuid.New().String()[:8],
		City:    o.City,
	})
	require.NoError(f.t, err, "failed to create test company")
	return company
}

// --- Campaign Fixtures ---

// CampaignOpts customizes campaign creation.
type CampaignOpts struct {
	CompanyID       *string
	Title           string
	Category        string
	City            string
	Status          string
	RequiredStories *int64
	RequiredVideos  *int64
}

// DefaultCampaignOpts returns sensible defaults for campaign creation.
func DefaultCampaignOpts() CampaignOpts {
	return CampaignOpts{
		Title:    "Test Campaign " + uuid.New().String()[:8],
		Category: CampaignCategoryRestaurant,
		City:     "Barcelona",
		Status:   CampaignStatusActive,
	}
}

// CreateCampaign creates a test campaign, owning company included unless one
// is supplied. Campaigns start as drafts; the fixture moves them to the
// requested status afterwards.
func (f *Fixtures) CreateCampaign(opts ...func(*CampaignOpts)) Campaign {
	f.t.Helper()
	o := DefaultCampaignOpts()
	for _, fn := range opts {
		fn(&o)
	}

	companyID := ""
	if o.CompanyID != nil {
		companyID = *o.CompanyID
	} else {
		companyID = f.CreateCompany().ID
	}

	campaign, err := f.testDB.Store.CreateCampaign(f.ctx, CreateCampaignParams{
		CompanyID:       companyID,
		Title:           o.Title,
		Category:        o.Category,
		City:            o.City,
		RequiredStories: o.RequiredStories,
		RequiredVideos:  o.RequiredVideos,
		Includes:        []string{"free meal for two"},
	})
	require.NoError(f.t, err, "failed to create test campaign")

	if o.Status != "" && o.Status != campaign.Status {
		require.NoError(f.t, f.testDB.Store.UpdateCampaignStatus(f.ctx, campaign.ID, o.Status))
		campaign, err = f.testDB.Store.GetCampaignByID(f.ctx, campaign.ID)
		require.NoError(f.t, err)
	}
	return campaign
}

// --- Collaboration Request Fixtures ---

// RequestOpts customizes collaboration request creation.
type RequestOpts struct {
	CampaignID   *string
	InfluencerID *string
}

// CreateRequest creates a test collaboration request, creating the campaign
// and influencer unless supplied.
func (f *Fixtures) CreateRequest(opts ...func(*RequestOpts)) CollaborationRequest {
	f.t.Helper()
	o := RequestOpts{}
	for _, fn := range opts {
		fn(&o)
	}

	campaignID := ""
	if o.CampaignID != nil {
		campaignID = *o.CampaignID
	} else {
		campaignID = f.CreateCampaign().ID
	}
	influencerID := ""
	if o.InfluencerID != nil {
		influencerID = *o.InfluencerID
	} else {
		influencerID = f.CreateInfluencer().ID
	}

	content := "two stories and one video"
	request, err := f.testDB.Store.CreateCollaborationRequest(f.ctx, CreateCollaborationRequestParams{
		CampaignID:      campaignID,
		InfluencerID:    influencerID,
		ProposedContent: &content,
	})
	require.NoError(f.t, err, "failed to create test collaboration request")
	return request
}

// --- Backward Compatible Helpers ---

// createTestUser creates a test user (backward compatible helper).
func createTestUser(t *testing.T, testDB *TestDB, role string) User {
	t.Helper()
	f := NewFixtures(t, testDB)
	return f.CreateUser(func(o *UserOpts) { o.Role = role })
}

// createTestInfluencer creates a test influencer (backward compatible helper).
func createTestInfluencer(t *testing.T, testDB *TestDB) Influencer {
	t.Helper()
	f := NewFixtures(t, testDB)
	return f.CreateInfluencer()
}

// createTestCompany creates a test company (backward compatible helper).
func createTestCompany(t *testing.T, testDB *TestDB) Company {
	t.Helper()
	f := NewFixtures(t, testDB)
	return f.CreateCompany()
}

// createTestCampaign creates a test campaign (backward compatible helper).
func createTestCampaign(t *testing.T, testDB *TestDB, companyID string) Campaign {
	t.Helper()
	f := NewFixtures(t, testDB)
	return f.CreateCampaign(func(o *CampaignOpts) { o.CompanyID = &companyID })
}
