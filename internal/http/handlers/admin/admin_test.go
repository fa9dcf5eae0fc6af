package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jewgo-app/jewgo-api/internal/provider"

	"github.com/gin-gonic/gin"
)

func TestAdminLoginRejectsMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"username":"ops"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h := &Handler{Container: &provider.Container{}}
	h.AdminLogin(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}

func TestChangeAdminPasswordRequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/password", strings.NewReader(`{"old_password":"a","new_password":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h := &Handler{Container: &provider.Container{}}
	h.ChangeAdminPassword(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status want 401 got %d", w.Code)
	}
}

func TestCreateAuthzAdminRejectsMissingPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/authz/admins", strings.NewReader(`{"username":"grill-staff"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h := &Handler{Container: &provider.Container{}}
	h.CreateAuthzAdmin(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}

func TestGrantAuthzPolicyRequiresAllFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/authz/policies", strings.NewReader(`{"role":"ops","object":"/admin/specials"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h := &Handler{Container: &provider.Container{}}
	h.GrantAuthzPolicy(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}

func TestModerateListingRequiresDecision(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/listings/3/moderate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	h := &Handler{Container: &provider.Container{}}
	h.ModerateAdminListing(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
}
