// Package schema is the single source of truth for table and column names,
// column types, CHECK enumerations, foreign keys, and indexes. Every other
// component references these definitions instead of hardcoding strings.
package schema

import "fmt"

// ColumnType is the storage type of a column.
type ColumnType string

const (
	TypeText      ColumnType = "TEXT"
	TypeInteger   ColumnType = "INTEGER"
	TypeReal      ColumnType = "REAL"
	TypeBoolean   ColumnType = "BOOLEAN"
	TypeTimestamp ColumnType = "TIMESTAMP"
	// TypeJSON columns hold a nested structure serialized as JSON text.
	TypeJSON ColumnType = "JSON"
)

// FKAction is the referential action taken when the referenced row is deleted.
type FKAction string

const (
	NoAction FKAction = "NO ACTION"
	Cascade  FKAction = "CASCADE"
	SetNull  FKAction = "SET NULL"
)

// ForeignKey declares a reference to another table's column.
type ForeignKey struct {
	Table    string
	Column   string
	OnDelete FKAction
}

// Column declares one column of a table.
type Column struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
	NotNull    bool
	Unique     bool
	Default    string
	Enum       []string // CHECK (name IN (...))
	References *ForeignKey
}

// Index declares a supporting index.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table declares one table: its columns, composite unique constraints and
// supporting indexes.
type Table struct {
	Name    string
	Columns []Column
	Uniques [][]string
	Indexes []Index
}

// Column returns the named column definition.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Table names.
const (
	TableUsers                    = "users"
	TableAdmins                   = "admins"
	TableInfluencers              = "influencers"
	TableAudienceStats            = "audience_stats"
	TableMonthlyStats             = "monthly_stats"
	TableCompanies                = "companies"
	TableSubscriptions            = "subscriptions"
	TableCampaigns                = "campaigns"
	TableCollaborationRequests    = "collaboration_requests"
	TableContentDelivered         = "content_delivered"
	TableNotifications            = "notifications"
	TablePaymentTransactions      = "payment_transactions"
	TableConversations            = "conversations"
	TableConversationParticipants = "conversation_participants"
	TableChatMessages             = "chat_messages"
	TableMessageReadStatus        = "message_read_status"
	TableAgreementTemplates       = "agreement_templates"
)

// Column names. The namespace is flat: a name used by several tables (id,
// status, city, user_id) means the same thing in each of them.
const (
	ColID        = "id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
	ColStatus    = "status"
	ColCity      = "city"

	ColUserID         = "user_id"
	ColInfluencerID   = "influencer_id"
	ColCompanyID      = "company_id"
	ColCampaignID     = "campaign_id"
	ColAdminID        = "admin_id"
	ColSubscriptionID = "subscription_id"
	ColRequestID      = "request_id"
	ColConversationID = "conversation_id"
	ColMessageID      = "message_id"
	ColSenderID       = "sender_id"

	ColEmail        = "email"
	ColPasswordHash = "password_hash"
	ColRole         = "role"

	ColFullName           = "full_name"
	ColPhone              = "phone"
	ColInstagramHandle    = "instagram_handle"
	ColInstagramFollowers = "instagram_followers"
	ColTikTokHandle       = "tiktok_handle"
	ColTikTokFollowers    = "tiktok_followers"

	ColKind       = "kind"
	ColSegment    = "segment"
	ColPercentage = "percentage"

	ColMonth      = "month"
	ColYear       = "year"
	ColViews      = "views"
	ColEngagement = "engagement"
	ColReach      = "reach"

	ColName         = "name"
	ColLegalID      = "legal_id"
	ColContactEmail = "contact_email"

	ColPlan      = "plan"
	ColPrice     = "price"
	ColStartDate = "start_date"
	ColEndDate   = "end_date"

	ColTitle                 = "title"
	ColDescription           = "description"
	ColCategory              = "category"
	ColLatitude              = "latitude"
	ColLongitude             = "longitude"
	ColMinInstagramFollowers = "min_instagram_followers"
	ColMinTikTokFollowers    = "min_tiktok_followers"
	ColRequiredStories       = "required_stories"
	ColRequiredVideos        = "required_videos"
	ColDeadlineHours         = "deadline_hours"
	ColIncludes              = "includes"

	ColProposedContent    = "proposed_content"
	ColReservationDetails = "reservation_details"
	ColDeliveryDetails    = "delivery_details"
	ColAdminNotes         = "admin_notes"
	ColApprovedAt         = "approved_at"
	ColCompletedAt        = "completed_at"

	ColPlatformType = "platform_type"
	ColURL          = "url"
	ColDeliveredAt  = "delivered_at"

	ColType = "type"
	ColBody = "body"
	ColRead = "read"

	ColAmount      = "amount"
	ColCurrency    = "currency"
	ColMethod      = "method"
	ColExternalRef = "external_ref"

	ColJoinedAt = "joined_at"
	ColReadAt   = "read_at"

	ColVersion = "version"
	ColActive  = "active"
)

// Enumeration value sets backing the CHECK constraints. Callers use the
// typed constants in the store package; a store test keeps both in sync.
var (
	UserRoles             = []string{"admin", "influencer", "company"}
	UserStatuses          = []string{"pending", "approved", "rejected", "suspended"}
	AudienceStatKinds     = []string{"country", "city", "age_range"}
	SubscriptionPlans     = []string{"3_months", "6_months", "12_months"}
	SubscriptionStatuses  = []string{"active", "expired", "cancelled"}
	CampaignCategories    = []string{"restaurant", "beauty", "fitness", "retail", "entertainment", "travel", "other"}
	CampaignStatuses      = []string{"draft", "active", "paused", "completed"}
	RequestStatuses       = []string{"pending", "approved", "rejected", "completed", "cancelled"}
	PlatformTypes         = []string{"instagram_story", "tiktok_video"}
	NotificationTypes     = []string{"request_created", "request_approved", "request_rejected", "request_completed", "request_cancelled", "completion_confirmed"}
	PaymentMethods        = []string{"card", "bank_transfer", "cash"}
	PaymentStatuses       = []string{"pending", "completed", "failed", "refunded"}
)

func pk() Column {
	return Column{Name: ColID, Type: TypeText, PrimaryKey: true, NotNull: true}
}

func timestamps() []Column {
	return []Column{
		{Name: ColCreatedAt, Type: TypeTimestamp, NotNull: true},
		{Name: ColUpdatedAt, Type: TypeTimestamp, NotNull: true},
	}
}

func cascade(table string) *ForeignKey {
	return &ForeignKey{Table: table, Column: ColID, OnDelete: Cascade}
}

func tables() []Table {
	return []Table{
		{
			Name: TableUsers,
			Columns: append([]Column{
				pk(),
				{Name: ColEmail, Type: TypeText, NotNull: true, Unique: true},
				{Name: ColPasswordHash, Type: TypeText, NotNull: true},
				{Name: ColRole, Type: TypeText, NotNull: true, Enum: UserRoles},
				{Name: ColStatus, Type: TypeText, NotNull: true, Default: "'pending'", Enum: UserStatuses},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_users_email", Columns: []string{ColEmail}},
				{Name: "idx_users_status", Columns: []string{ColStatus}},
			},
		},
		{
			Name: TableAdmins,
			Columns: append([]Column{
				pk(),
				{Name: ColUserID, Type: TypeText, NotNull: true, Unique: true, References: cascade(TableUsers)},
				{Name: ColFullName, Type: TypeText, NotNull: true},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_admins_user_id", Columns: []string{ColUserID}},
			},
		},
		{
			Name: TableInfluencers,
			Columns: append([]Column{
				pk(),
				{Name: ColUserID, Type: TypeText, NotNull: true, Unique: true, References: cascade(TableUsers)},
				{Name: ColFullName, Type: TypeText, NotNull: true},
				{Name: ColCity, Type: TypeText, NotNull: true},
				{Name: ColPhone, Type: TypeText},
				{Name: ColInstagramHandle, Type: TypeText},
				{Name: ColInstagramFollowers, Type: TypeInteger, NotNull: true, Default: "0"},
				{Name: ColTikTokHandle, Type: TypeText},
				{Name: ColTikTokFollowers, Type: TypeInteger, NotNull: true, Default: "0"},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_influencers_user_id", Columns: []string{ColUserID}},
				{Name: "idx_influencers_city", Columns: []string{ColCity}},
			},
		},
		{
			Name: TableAudienceStats,
			Columns: append([]Column{
				pk(),
				{Name: ColInfluencerID, Type: TypeText, NotNull: true, References: cascade(TableInfluencers)},
				{Name: ColKind, Type: TypeText, NotNull: true, Enum: AudienceStatKinds},
				{Name: ColSegment, Type: TypeText, NotNull: true},
				{Name: ColPercentage, Type: TypeReal, NotNull: true},
			}, timestamps()...),
			Uniques: [][]string{{ColInfluencerID, ColKind, ColSegment}},
			Indexes: []Index{
				{Name: "idx_audience_stats_influencer_id", Columns: []string{ColInfluencerID}},
			},
		},
		{
			Name: TableMonthlyStats,
			Columns: append([]Column{
				pk(),
				{Name: ColInfluencerID, Type: TypeText, NotNull: true, References: cascade(TableInfluencers)},
				{Name: ColMonth, Type: TypeInteger, NotNull: true},
				{Name: ColYear, Type: TypeInteger, NotNull: true},
				{Name: ColViews, Type: TypeInteger, NotNull: true, Default: "0"},
				{Name: ColEngagement, Type: TypeReal, NotNull: true, Default: "0"},
				{Name: ColReach, Type: TypeInteger, NotNull: true, Default: "0"},
			}, timestamps()...),
			Uniques: [][]string{{ColInfluencerID, ColMonth, ColYear}},
			Indexes: []Index{
				{Name: "idx_monthly_stats_influencer_id", Columns: []string{ColInfluencerID}},
			},
		},
		{
			Name: TableCompanies,
			Columns: append([]Column{
				pk(),
				{Name: ColUserID, Type: TypeText, NotNull: true, Unique: true, References: cascade(TableUsers)},
				{Name: ColName, Type: TypeText, NotNull: true},
				{Name: ColLegalID, Type: TypeText, NotNull: true, Unique: true},
				{Name: ColCity, Type: TypeText, NotNull: true},
				{Name: ColPhone, Type: TypeText},
				{Name: ColContactEmail, Type: TypeText},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_companies_user_id", Columns: []string{ColUserID}},
				{Name: "idx_companies_city", Columns: []string{ColCity}},
			},
		},
		{
			Name: TableSubscriptions,
			Columns: append([]Column{
				pk(),
				{Name: ColCompanyID, Type: TypeText, NotNull: true, References: cascade(TableCompanies)},
				{Name: ColPlan, Type: TypeText, NotNull: true, Enum: SubscriptionPlans},
				{Name: ColPrice, Type: TypeReal, NotNull: true},
				{Name: ColStatus, Type: TypeText, NotNull: true, Default: "'active'", Enum: SubscriptionStatuses},
				{Name: ColStartDate, Type: TypeTimestamp, NotNull: true},
				{Name: ColEndDate, Type: TypeTimestamp, NotNull: true},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_subscriptions_company_id", Columns: []string{ColCompanyID}},
				{Name: "idx_subscriptions_status", Columns: []string{ColStatus}},
			},
		},
		{
			Name: TableCampaigns,
			Columns: append([]Column{
				pk(),
				{Name: ColCompanyID, Type: TypeText, NotNull: true, References: cascade(TableCompanies)},
				{Name: ColAdminID, Type: TypeText, References: &ForeignKey{Table: TableAdmins, Column: ColID, OnDelete: SetNull}},
				{Name: ColTitle, Type: TypeText, NotNull: true},
				{Name: ColDescription, Type: TypeText},
				{Name: ColCategory, Type: TypeText, NotNull: true, Enum: CampaignCategories},
				{Name: ColCity, Type: TypeText, NotNull: true},
				{Name: ColLatitude, Type: TypeReal},
				{Name: ColLongitude, Type: TypeReal},
				{Name: ColMinInstagramFollowers, Type: TypeInteger, NotNull: true, Default: "0"},
				{Name: ColMinTikTokFollowers, Type: TypeInteger, NotNull: true, Default: "0"},
				{Name: ColRequiredStories, Type: TypeInteger, NotNull: true, Default: "2"},
				{Name: ColRequiredVideos, Type: TypeInteger, NotNull: true, Default: "1"},
				{Name: ColDeadlineHours, Type: TypeInteger, NotNull: true, Default: "72"},
				{Name: ColIncludes, Type: TypeJSON},
				{Name: ColStatus, Type: TypeText, NotNull: true, Default: "'draft'", Enum: CampaignStatuses},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_campaigns_company_id", Columns: []string{ColCompanyID}},
				{Name: "idx_campaigns_admin_id", Columns: []string{ColAdminID}},
				{Name: "idx_campaigns_status", Columns: []string{ColStatus}},
				{Name: "idx_campaigns_city", Columns: []string{ColCity}},
				{Name: "idx_campaigns_category", Columns: []string{ColCategory}},
			},
		},
		{
			Name: TableCollaborationRequests,
			Columns: append([]Column{
				pk(),
				{Name: ColCampaignID, Type: TypeText, NotNull: true, References: cascade(TableCampaigns)},
				{Name: ColInfluencerID, Type: TypeText, NotNull: true, References: cascade(TableInfluencers)},
				{Name: ColStatus, Type: TypeText, NotNull: true, Default: "'pending'", Enum: RequestStatuses},
				{Name: ColProposedContent, Type: TypeText},
				{Name: ColReservationDetails, Type: TypeJSON},
				{Name: ColDeliveryDetails, Type: TypeJSON},
				{Name: ColAdminNotes, Type: TypeText},
				{Name: ColApprovedAt, Type: TypeTimestamp},
				{Name: ColCompletedAt, Type: TypeTimestamp},
			}, timestamps()...),
			Uniques: [][]string{{ColCampaignID, ColInfluencerID}},
			Indexes: []Index{
				{Name: "idx_collaboration_requests_campaign_id", Columns: []string{ColCampaignID}},
				{Name: "idx_collaboration_requests_influencer_id", Columns: []string{ColInfluencerID}},
				{Name: "idx_collaboration_requests_status", Columns: []string{ColStatus}},
			},
		},
		{
			Name: TableContentDelivered,
			Columns: append([]Column{
				pk(),
				{Name: ColRequestID, Type: TypeText, NotNull: true, References: cascade(TableCollaborationRequests)},
				{Name: ColPlatformType, Type: TypeText, NotNull: true, Enum: PlatformTypes},
				{Name: ColURL, Type: TypeText, NotNull: true},
				{Name: ColDeliveredAt, Type: TypeTimestamp, NotNull: true},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_content_delivered_request_id", Columns: []string{ColRequestID}},
			},
		},
		{
			Name: TableNotifications,
			Columns: append([]Column{
				pk(),
				{Name: ColUserID, Type: TypeText, NotNull: true, References: cascade(TableUsers)},
				{Name: ColType, Type: TypeText, NotNull: true, Enum: NotificationTypes},
				{Name: ColTitle, Type: TypeText, NotNull: true},
				{Name: ColBody, Type: TypeText, NotNull: true},
				{Name: ColRequestID, Type: TypeText, References: cascade(TableCollaborationRequests)},
				{Name: ColRead, Type: TypeBoolean, NotNull: true, Default: "0"},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_notifications_user_id", Columns: []string{ColUserID}},
				{Name: "idx_notifications_request_id", Columns: []string{ColRequestID}},
			},
		},
		{
			Name: TablePaymentTransactions,
			Columns: append([]Column{
				pk(),
				{Name: ColSubscriptionID, Type: TypeText, NotNull: true, References: cascade(TableSubscriptions)},
				{Name: ColAmount, Type: TypeReal, NotNull: true},
				{Name: ColCurrency, Type: TypeText, NotNull: true, Default: "'EUR'"},
				{Name: ColMethod, Type: TypeText, NotNull: true, Enum: PaymentMethods},
				{Name: ColExternalRef, Type: TypeText},
				{Name: ColStatus, Type: TypeText, NotNull: true, Default: "'pending'", Enum: PaymentStatuses},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_payment_transactions_subscription_id", Columns: []string{ColSubscriptionID}},
				{Name: "idx_payment_transactions_status", Columns: []string{ColStatus}},
			},
		},
		{
			Name: TableConversations,
			Columns: append([]Column{
				pk(),
				{Name: ColRequestID, Type: TypeText, References: cascade(TableCollaborationRequests)},
				{Name: ColTitle, Type: TypeText, NotNull: true},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_conversations_request_id", Columns: []string{ColRequestID}},
			},
		},
		{
			Name: TableConversationParticipants,
			Columns: append([]Column{
				pk(),
				{Name: ColConversationID, Type: TypeText, NotNull: true, References: cascade(TableConversations)},
				{Name: ColUserID, Type: TypeText, NotNull: true, References: cascade(TableUsers)},
				{Name: ColJoinedAt, Type: TypeTimestamp, NotNull: true},
			}, timestamps()...),
			Uniques: [][]string{{ColConversationID, ColUserID}},
			Indexes: []Index{
				{Name: "idx_conversation_participants_conversation_id", Columns: []string{ColConversationID}},
				{Name: "idx_conversation_participants_user_id", Columns: []string{ColUserID}},
			},
		},
		{
			Name: TableChatMessages,
			Columns: append([]Column{
				pk(),
				{Name: ColConversationID, Type: TypeText, NotNull: true, References: cascade(TableConversations)},
				// NULL sender marks a system message emitted by the workflow engine.
				{Name: ColSenderID, Type: TypeText, References: cascade(TableUsers)},
				{Name: ColBody, Type: TypeText, NotNull: true},
			}, timestamps()...),
			Indexes: []Index{
				{Name: "idx_chat_messages_conversation_id", Columns: []string{ColConversationID}},
				{Name: "idx_chat_messages_sender_id", Columns: []string{ColSenderID}},
			},
		},
		{
			Name: TableMessageReadStatus,
			Columns: append([]Column{
				pk(),
				{Name: ColMessageID, Type: TypeText, NotNull: true, References: cascade(TableChatMessages)},
				{Name: ColUserID, Type: TypeText, NotNull: true, References: cascade(TableUsers)},
				{Name: ColReadAt, Type: TypeTimestamp, NotNull: true},
			}, timestamps()...),
			Uniques: [][]string{{ColMessageID, ColUserID}},
			Indexes: []Index{
				{Name: "idx_message_read_status_message_id", Columns: []string{ColMessageID}},
				{Name: "idx_message_read_status_user_id", Columns: []string{ColUserID}},
			},
		},
		{
			Name: TableAgreementTemplates,
			Columns: append([]Column{
				pk(),
				{Name: ColTitle, Type: TypeText, NotNull: true},
				{Name: ColBody, Type: TypeText, NotNull: true},
				{Name: ColVersion, Type: TypeInteger, NotNull: true, Default: "1"},
				{Name: ColActive, Type: TypeBoolean, NotNull: true, Default: "1"},
			}, timestamps()...),
		},
	}
}

var registry = buildRegistry()

func buildRegistry() map[string]Table {
	m := make(map[string]Table)
	for _, t := range tables() {
		m[t.Name] = t
	}
	return m
}

// Tables returns every table definition in creation order (referenced tables
// before referencing ones).
func Tables() []Table {
	return tables()
}

// Lookup returns the definition of the named table.
func Lookup(name string) (Table, error) {
	t, ok := registry[name]
	if !ok {
		return Table{}, fmt.Errorf("unknown table %q", name)
	}
	return t, nil
}
