package public

import (
	"errors"

	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a business error onto a response code.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var claimErrorRules = []mappedHandlerError{
	{target: service.ErrSpecialNotFound, code: response.CodeNotFound, msg: "special not found"},
	{target: service.ErrSpecialDisabled, code: response.CodeConflict, msg: "special is not active"},
	{target: service.ErrSpecialNotStarted, code: response.CodeConflict, msg: "special has not started"},
	{target: service.ErrSpecialExpired, code: response.CodeConflict, msg: "special has ended"},
	{target: service.ErrClaimantMissing, code: response.CodeBadRequest, msg: "claimant identity required"},
	{target: service.ErrClaimAlreadyToday, code: response.CodeConflict, msg: "already claimed today"},
	{target: service.ErrClaimPerUserLimit, code: response.CodeConflict, msg: "claim limit reached"},
	{target: service.ErrClaimTotalLimit, code: response.CodeConflict, msg: "special fully claimed"},
	{target: service.ErrGuestSessionNotFound, code: response.CodeUnauthorized, msg: "guest session invalid"},
}

var redeemErrorRules = []mappedHandlerError{
	{target: service.ErrSpecialNotFound, code: response.CodeNotFound, msg: "special not found"},
	{target: service.ErrClaimNotFound, code: response.CodeNotFound, msg: "claim not found"},
	{target: service.ErrRedeemCodeRequired, code: response.CodeBadRequest, msg: "redeem code required"},
	{target: service.ErrRedeemCodeMismatch, code: response.CodeBadRequest, msg: "redeem code mismatch"},
	{target: service.ErrRedeemNotAuthorized, code: response.CodeForbidden, msg: "not authorized for this restaurant"},
	{target: service.ErrClaimNotRedeemable, code: response.CodeConflict, msg: "claim is not redeemable"},
}

var trackErrorRules = []mappedHandlerError{
	{target: service.ErrSpecialNotFound, code: response.CodeNotFound, msg: "special not found"},
	{target: service.ErrEventTypeInvalid, code: response.CodeBadRequest, msg: "event type invalid"},
}

var specialsListErrorRules = []mappedHandlerError{
	{target: service.ErrTimeWindowInvalid, code: response.CodeBadRequest, msg: "time window invalid"},
}

var claimQRErrorRules = []mappedHandlerError{
	{target: service.ErrSpecialNotFound, code: response.CodeNotFound, msg: "special not found"},
	{target: service.ErrClaimNotFound, code: response.CodeNotFound, msg: "claim not found"},
	{target: service.ErrClaimNotRedeemable, code: response.CodeConflict, msg: "claim is not redeemable"},
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrEmailInvalid, code: response.CodeBadRequest, msg: "email invalid"},
	{target: service.ErrEmailTaken, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrPasswordPolicy, code: response.CodeBadRequest, msg: "password does not meet the policy"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, msg: "account disabled"},
}

var magicLinkRequestErrorRules = []mappedHandlerError{
	{target: service.ErrEmailInvalid, code: response.CodeBadRequest, msg: "email invalid"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, msg: "account disabled"},
	{target: service.ErrMagicLinkThrottled, code: response.CodeTooManyRequests, msg: "magic link requested too recently"},
}

var magicLinkVerifyErrorRules = []mappedHandlerError{
	{target: service.ErrMagicLinkNotFound, code: response.CodeBadRequest, msg: "magic link invalid or expired"},
	{target: service.ErrMagicLinkConsumed, code: response.CodeConflict, msg: "magic link already used"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, msg: "account disabled"},
}

var listingWriteErrorRules = []mappedHandlerError{
	{target: service.ErrListingNotFound, code: response.CodeNotFound, msg: "listing not found"},
	{target: service.ErrListingInvalid, code: response.CodeBadRequest, msg: "listing invalid"},
	{target: service.ErrListingNotOwner, code: response.CodeForbidden, msg: "not the listing owner"},
	{target: service.ErrListingStateInvalid, code: response.CodeConflict, msg: "listing state does not allow this"},
}
