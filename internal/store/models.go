package store

import "time"

// User is the root of every account type. One User owns exactly one
// role-specific profile; profile rows go away with the user (cascade).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Admin is the profile of a user with role=admin.
type Admin struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Influencer is the profile of a user with role=influencer.
type Influencer struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	FullName           string    `json:"full_name"`
	City               string    `json:"city"`
	Phone              *string   `json:"phone,omitempty"`
	InstagramHandle    *string   `json:"instagram_handle,omitempty"`
	InstagramFollowers int64     `json:"instagram_followers"`
	TikTokHandle       *string   `json:"tiktok_handle,omitempty"`
	TikTokFollowers    int64     `json:"tiktok_followers"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AudienceStat is one segment of an influencer's audience breakdown: the
// percentage of the audience in a country, city or age range.
type AudienceStat struct {
	ID           string    `json:"id"`
	InfluencerID string    `json:"influencer_id"`
	Kind         string    `json:"kind"`
	Segment      string    `json:"segment"`
	Percentage   float64   `json:"percentage"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MonthlyStat holds an influencer's performance numbers for one calendar
// month, unique per influencer+month+year.
type MonthlyStat struct {
	ID           string    `json:"id"`
	InfluencerID string    `json:"influencer_id"`
	Month        int       `json:"month"`
	Year         int       `json:"year"`
	Views        int64     `json:"views"`
	Engagement   float64   `json:"engagement"`
	Reach        int64     `json:"reach"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Company is the profile of a user with role=company.
type Company struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	LegalID      string    `json:"legal_id"`
	City         string    `json:"city"`
	Phone        *string   `json:"phone,omitempty"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Subscription is one paid access plan of a company. A company may have many
// historical subscriptions but at most one active at a time.
type Subscription struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Plan      string    `json:"plan"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Campaign is a company-funded promotional offer created by an admin on the
// company's behalf.
type Campaign struct {
	ID                    string    `json:"id"`
	CompanyID             string    `json:"company_id"`
	AdminID               *string   `json:"admin_id,omitempty"`
	Title                 string    `json:"title"`
	Description           *string   `json:"description,omitempty"`
	Category              string    `json:"category"`
	City                  string    `json:"city"`
	Latitude              *float64  `json:"latitude,omitempty"`
	Longitude             *float64  `json:"longitude,omitempty"`
	MinInstagramFollowers int64     `json:"min_instagram_followers"`
	MinTikTokFollowers    int64     `json:"min_tiktok_followers"`
	RequiredStories       int64     `json:"required_stories"`
	RequiredVideos        int64     `json:"required_videos"`
	DeadlineHours         int64     `json:"deadline_hours"`
	Includes              []string  `json:"includes"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ReservationDetails is the on-site option of a collaboration request.
type ReservationDetails struct {
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Companions int       `json:"companions"`
}

// DeliveryDetails is the ship-to-influencer option of a collaboration request.
type DeliveryDetails struct {
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	PreferredTime string `json:"preferred_time"`
}

// CollaborationRequest records one influencer's claim on one campaign,
// unique per (campaign, influencer) pair.
type CollaborationRequest struct {
	ID              string              `json:"id"`
	CampaignID      string              `json:"campaign_id"`
	InfluencerID    string              `json:"influencer_id"`
	Status          string              `json:"status"`
	ProposedContent *string             `json:"proposed_content,omitempty"`
	Reservation     *ReservationDetails `json:"reservation,omitempty"`
	Delivery        *DeliveryDetails    `json:"delivery,omitempty"`
	AdminNotes      *string             `json:"admin_notes,omitempty"`
	ApprovedAt      *time.Time          `json:"approved_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ContentDelivered is one proof-of-publication artifact attached to a
// collaboration request.
type ContentDelivered struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"`
	PlatformType string    `json:"platform_type"`
	URL          string    `json:"url"`
	DeliveredAt  time.Time `json:"delivered_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Notification is one recorded notification for a user. Delivery is someone
// else's job; the engine only records them.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	RequestID *string   `json:"request_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaymentTransaction records a single payment attempt against a company's
// subscription.
type PaymentTransaction struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscription_id"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Method         string    `json:"method"`
	ExternalRef    *string   `json:"external_ref,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Conversation is a messaging thread, optionally bound to a collaboration
// request.
type Conversation struct {
	ID        string    `json:"id"`
	RequestID *string   `json:"request_id,omitempty"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationParticipant is one user's membership in a conversation.
type ConversationParticipant struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	JoinedAt       time.Time `json:"joined_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ChatMessage is one message in a conversation. A nil SenderID marks a
// system message emitted by the workflow engine.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       *string   `json:"sender_id,omitempty"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MessageReadStatus is one participant's read receipt for one message.
type MessageReadStatus struct {
	ID        string    `json:"id"`
	MessageID string    `json:"message_id"`
	UserID    string    `json:"user_id"`
	ReadAt    time.Time `json:"read_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AgreementTemplate is a versioned boilerplate collaboration agreement.
type AgreementTemplate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Version   int       `json:"version"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
