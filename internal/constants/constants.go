package constants

// Special discount kinds
const (
	DiscountKindPercentage  = "percentage"
	DiscountKindFixedAmount = "fixed_amount"
	DiscountKindOther       = "other"
)

// Special claim status
const (
	ClaimStatusClaimed   = "claimed"
	ClaimStatusRedeemed  = "redeemed"
	ClaimStatusExpired   = "expired"
	ClaimStatusCancelled = "cancelled"
)

// Specials time window kinds
const (
	TimeWindowNow   = "now"
	TimeWindowToday = "today"
	TimeWindowRange = "range"
)

// Special analytics event types
const (
	SpecialEventView  = "view"
	SpecialEventShare = "share"
	SpecialEventClick = "click"
)

// Restaurant status
const (
	RestaurantStatusPendingApproval = "pending_approval"
	RestaurantStatusApproved        = "approved"
	RestaurantStatusRejected        = "rejected"
	RestaurantStatusClosed          = "closed"
)

// Kosher supervision categories
const (
	KosherCategoryMeat    = "meat"
	KosherCategoryDairy   = "dairy"
	KosherCategoryPareve  = "pareve"
	KosherCategoryUnknown = "unknown"
)

// Marketplace listing status
const (
	ListingStatusPending = "pending"
	ListingStatusActive  = "active"
	ListingStatusSold    = "sold"
	ListingStatusRemoved = "removed"
)

// User status
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// OAuth providers
const (
	OAuthProviderGoogle = "google"
)

// Magic link purposes
const (
	MagicLinkPurposeLogin    = "login"
	MagicLinkPurposeRegister = "register"
)

// Authz roles and actions
const (
	RoleSuperAdmin      = "super_admin"
	RoleModerator       = "moderator"
	RoleRestaurantStaff = "restaurant_staff"

	AuthzActionRedeem   = "redeem"
	AuthzActionModerate = "moderate"
	AuthzActionManage   = "manage"
)

// Queue and task names
const (
	QueueDefault             = "default"
	QueueCritical            = "critical"
	TaskMagicLinkEmail       = "auth:magic_link_email"
	TaskSpecialEventIngest   = "special:event_ingest"
	TaskActiveSpecialRefresh = "special:refresh_active"
	TaskClaimExpireSweep     = "special:claim_expire_sweep"
)
