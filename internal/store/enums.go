package store

// User ENUMs
const (
	UserRoleAdmin      = "admin"
	UserRoleInfluencer = "influencer"
	UserRoleCompany    = "company"
)

const (
	UserStatusPending   = "pending"
	UserStatusApproved  = "approved"
	UserStatusRejected  = "rejected"
	UserStatusSuspended = "suspended"
)

// Audience Stat ENUMs
const (
	AudienceStatKindCountry  = "country"
	AudienceStatKindCity     = "city"
	AudienceStatKindAgeRange = "age_range"
)

// Subscription ENUMs
const (
	SubscriptionPlan3Months  = "3_months"
	SubscriptionPlan6Months  = "6_months"
	SubscriptionPlan12Months = "12_months"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Campaign ENUMs
const (
	CampaignCategoryRestaurant    = "restaurant"
	CampaignCategoryBeauty        = "beauty"
	CampaignCategoryFitness       = "fitness"
	CampaignCategoryRetail        = "retail"
	CampaignCategoryEntertainment = "entertainment"
	CampaignCategoryTravel        = "travel"
	CampaignCategoryOther         = "other"
)

const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// Collaboration Request ENUMs
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusCompleted = "completed"
	RequestStatusCancelled = "cancelled"
)

// Content Delivered ENUMs
const (
	PlatformTypeInstagramStory = "instagram_story"
	PlatformTypeTikTokVideo    = "tiktok_video"
)

// Notification ENUMs
const (
	NotificationTypeRequestCreated      = "request_created"
	NotificationTypeRequestApproved     = "request_approved"
	NotificationTypeRequestRejected     = "request_rejected"
	NotificationTypeRequestCompleted    = "request_completed"
	NotificationTypeRequestCancelled    = "request_cancelled"
	NotificationTypeCompletionConfirmed = "completion_confirmed"
)

// Payment Transaction ENUMs
const (
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCash         = "cash"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// SubscriptionPlanPrices gives the price charged for each plan.
var SubscriptionPlanPrices = map[string]float64{
	SubscriptionPlan3Months:  299.0,
	SubscriptionPlan6Months:  549.0,
	SubscriptionPlan12Months: 999.0,
}

// SubscriptionPlanMonths gives the validity window of each plan.
var SubscriptionPlanMonths = map[string]int{
	SubscriptionPlan3Months:  3,
	SubscriptionPlan6Months:  6,
	SubscriptionPlan12Months: 12,
}
