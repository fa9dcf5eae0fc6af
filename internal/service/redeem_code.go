package service

import (
	crand "crypto/rand"
	"encoding/base64"
)

// redeemCodeBytes is the entropy of a redeem code. 12 bytes is 96 bits, well
// past the point where collisions or guessing matter.
const redeemCodeBytes = 12

// NewRedeemCode produces a URL-safe random redemption token. Uniqueness is
// probabilistic; callers that need a hard guarantee back it with a unique
// index.
func NewRedeemCode() (string, error) {
	buf := make([]byte, redeemCodeBytes)
	if _, err := crand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
