package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jewgo-app/jewgo-api/internal/provider"

	"github.com/gin-gonic/gin"
)

func newTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestClaimSpecialRejectsMalformedID(t *testing.T) {
	c, w := newTestContext(t, http.MethodPost, "/api/v1/specials/abc/claim", "")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h := &Handler{Container: &provider.Container{}}
	h.ClaimSpecial(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
	if got := decodeStatusCode(t, w); got != 400 {
		t.Fatalf("status_code want 400 got %d", got)
	}
}

func TestRedeemClaimRequiresClaimID(t *testing.T) {
	c, w := newTestContext(t, http.MethodPost, "/api/v1/specials/1/redeem", `{}`)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	h := &Handler{Container: &provider.Container{}}
	h.RedeemClaim(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}

func TestTrackEventRequiresEventType(t *testing.T) {
	c, w := newTestContext(t, http.MethodPost, "/api/v1/specials/1/track", `{}`)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	h := &Handler{Container: &provider.Container{}}
	h.TrackEvent(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}

func TestClaimQRCodeRejectsMalformedClaimID(t *testing.T) {
	c, w := newTestContext(t, http.MethodGet, "/api/v1/specials/1/claims//qr", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}, {Key: "claim_id", Value: ""}}

	h := &Handler{Container: &provider.Container{}}
	h.ClaimQRCode(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}

func TestGuestSessionFromRequestPrefersHeader(t *testing.T) {
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/specials/1/claim", "")
	c.Request.Header.Set(guestSessionHeader, "gs-header-token")

	if got := guestSessionFromRequest(c, "gs-body-token"); got != "gs-header-token" {
		t.Fatalf("header token should win, got %s", got)
	}

	c.Request.Header.Del(guestSessionHeader)
	if got := guestSessionFromRequest(c, "gs-body-token"); got != "gs-body-token" {
		t.Fatalf("body token should be used as fallback, got %s", got)
	}
}
