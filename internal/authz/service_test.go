package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/specials/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"ops"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/specials/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/specials/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/restaurants", "GET"); err != nil {
		t.Fatalf("grant ops policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("reviewer", "/admin/listings", "GET"); err != nil {
		t.Fatalf("grant reviewer policy failed: %v", err)
	}

	if err := svc.SetAdminRoles(2, []string{"ops"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:ops" {
		t.Fatalf("roles want [role:ops], got=%v", roles)
	}

	if err := svc.SetAdminRoles(2, []string{"reviewer"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:reviewer" {
		t.Fatalf("roles want [role:reviewer], got=%v", roles)
	}

	allow, err := svc.EnforceAdmin(2, "/admin/restaurants", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}

	allow, err = svc.EnforceAdmin(2, "/admin/listings", "GET")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/specials/:id", want: "/admin/specials/:id"},
		{in: "/admin/specials/:id", want: "/admin/specials/:id"},
		{in: "admin/restaurants", want: "/admin/restaurants"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:readonly_auditor": true,
		"role:moderator":        true,
		"role:restaurant_staff": true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SetAdminRoles(3, []string{"moderator"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(3, "/admin/specials", "GET")
	if err != nil {
		t.Fatalf("enforce inherited readonly failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected inherited readonly permission")
	}

	allow, err = svc.EnforceAdmin(3, "/admin/specials", "PUT")
	if err != nil {
		t.Fatalf("enforce readonly write failed: %v", err)
	}
	if allow {
		t.Fatalf("expected readonly inherited role deny write")
	}
}

func TestStaffScopeRestaurantBoundary(t *testing.T) {
	rid := uint(7)
	staff := StaffScope{AdminID: 4, RestaurantID: &rid}
	if !staff.CanRedeemSpecial(7) {
		t.Fatalf("expected staff to redeem for own restaurant")
	}
	if staff.CanRedeemSpecial(8) {
		t.Fatalf("expected staff denied for other restaurant")
	}

	super := StaffScope{AdminID: 1, IsSuper: true}
	if !super.CanRedeemSpecial(8) {
		t.Fatalf("expected super admin to redeem anywhere")
	}

	unscoped := StaffScope{AdminID: 5}
	if unscoped.CanRedeemSpecial(7) {
		t.Fatalf("expected unscoped staff denied")
	}
}

func TestAssignRoleKeepsExistingRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/admin/restaurants", "GET"); err != nil {
		t.Fatalf("grant ops policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(7, []string{"ops"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}
	if err := svc.AssignRole(7, RoleRestaurantStaff); err != nil {
		t.Fatalf("assign staff role failed: %v", err)
	}

	roles, err := svc.GetAdminRoles(7)
	if err != nil {
		t.Fatalf("get admin roles failed: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("roles want 2 got %v", roles)
	}
	found := map[string]bool{}
	for _, role := range roles {
		found[role] = true
	}
	if !found["role:ops"] || !found["role:restaurant_staff"] {
		t.Fatalf("unexpected role set: %v", roles)
	}
}

func TestDeleteRoleProtectsBuiltins(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if err := svc.DeleteRole(RoleRestaurantStaff); err == nil {
		t.Fatalf("deleting a built-in role must fail")
	}

	if _, err := svc.EnsureRole("ops"); err != nil {
		t.Fatalf("ensure custom role failed: %v", err)
	}
	if err := svc.DeleteRole("ops"); err != nil {
		t.Fatalf("deleting a custom role failed: %v", err)
	}
}
