package service

import "errors"

// Specials and claims
var (
	ErrSpecialNotFound     = errors.New("special not found")
	ErrSpecialInvalid      = errors.New("invalid special")
	ErrSpecialDisabled     = errors.New("special is disabled")
	ErrSpecialNotStarted   = errors.New("special has not started")
	ErrSpecialExpired      = errors.New("special has expired")
	ErrSpecialFetchFailed  = errors.New("failed to fetch special")
	ErrSpecialCreateFailed = errors.New("failed to create special")
	ErrSpecialUpdateFailed = errors.New("failed to update special")
	ErrSpecialDeleteFailed = errors.New("failed to delete special")

	ErrClaimantMissing     = errors.New("claimant identity required")
	ErrClaimAlreadyToday   = errors.New("already claimed today")
	ErrClaimPerUserLimit   = errors.New("per-user claim limit reached")
	ErrClaimTotalLimit     = errors.New("special claim limit reached")
	ErrClaimNotFound       = errors.New("claim not found")
	ErrClaimNotRedeemable  = errors.New("claim is not redeemable")
	ErrClaimCreateFailed   = errors.New("failed to create claim")
	ErrClaimFetchFailed    = errors.New("failed to fetch claim")
	ErrRedeemCodeRequired  = errors.New("redeem code required")
	ErrRedeemCodeMismatch  = errors.New("redeem code mismatch")
	ErrRedeemNotAuthorized = errors.New("not authorized to redeem")
	ErrEventTypeInvalid    = errors.New("invalid event type")
	ErrTimeWindowInvalid   = errors.New("invalid time window")
)

// Restaurants
var (
	ErrRestaurantNotFound     = errors.New("restaurant not found")
	ErrRestaurantInvalid      = errors.New("invalid restaurant")
	ErrRestaurantFetchFailed  = errors.New("failed to fetch restaurant")
	ErrRestaurantCreateFailed = errors.New("failed to create restaurant")
	ErrRestaurantUpdateFailed = errors.New("failed to update restaurant")
	ErrRestaurantDeleteFailed = errors.New("failed to delete restaurant")
)

// Marketplace listings
var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrListingInvalid      = errors.New("invalid listing")
	ErrListingNotOwner     = errors.New("listing belongs to another seller")
	ErrListingFetchFailed  = errors.New("failed to fetch listing")
	ErrListingCreateFailed = errors.New("failed to create listing")
	ErrListingUpdateFailed = errors.New("failed to update listing")
	ErrListingStateInvalid = errors.New("invalid listing state transition")
)

// Users and auth
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserDisabled         = errors.New("user is disabled")
	ErrEmailTaken           = errors.New("email already registered")
	ErrEmailInvalid         = errors.New("invalid email")
	ErrPasswordPolicy       = errors.New("password does not meet policy")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserCreateFailed     = errors.New("failed to create user")
	ErrUserFetchFailed      = errors.New("failed to fetch user")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrMagicLinkNotFound    = errors.New("magic link not found or expired")
	ErrMagicLinkConsumed    = errors.New("magic link already used")
	ErrMagicLinkThrottled   = errors.New("magic link requested too recently")
	ErrMagicLinkSendFailed  = errors.New("failed to send magic link")
	ErrOAuthStateInvalid    = errors.New("invalid oauth state")
	ErrOAuthFailed          = errors.New("oauth sign-in failed")
	ErrGuestSessionNotFound = errors.New("guest session not found")
)
