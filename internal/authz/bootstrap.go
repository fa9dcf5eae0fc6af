package authz

import "fmt"

// Built-in role names. Seeded at startup and protected from deletion.
const (
	RoleReadonlyAuditor = "readonly_auditor"
	RoleModerator       = "moderator"
	RoleRestaurantStaff = "restaurant_staff"
)

// RoleSeed describes a built-in role.
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds returns the built-in role matrix.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleReadonlyAuditor,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     RoleModerator,
			Inherits: []string{RoleReadonlyAuditor},
			Policies: []Policy{
				{Object: "/admin/restaurants", Action: "*"},
				{Object: "/admin/restaurants/:id", Action: "*"},
				{Object: "/admin/restaurants/:id/approve", Action: "POST"},
				{Object: "/admin/listings", Action: "GET"},
				{Object: "/admin/listings/:id", Action: "GET"},
				{Object: "/admin/listings/:id/moderate", Action: "POST"},
				{Object: "/admin/users", Action: "GET"},
				{Object: "/admin/users/:id", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     RoleRestaurantStaff,
			Inherits: nil,
			Policies: []Policy{
				{Object: "/admin/specials", Action: "*"},
				{Object: "/admin/specials/:id", Action: "*"},
				{Object: "/admin/specials/:id/claims", Action: "GET"},
				{Object: "/admin/specials/:id/stats", Action: "GET"},
				{Object: "/admin/specials/:id/claims/:claim_id/cancel", Action: "POST"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles seeds the built-in roles and their default policies.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}

	return nil
}

// IsBuiltinRole reports whether the name is a seeded immutable role.
// Accepts both the bare and the prefixed form.
func IsBuiltinRole(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if !seed.Immutable {
			continue
		}
		if seedRole, seedErr := NormalizeRole(seed.Role); seedErr == nil && seedRole == normalized {
			return true
		}
	}
	return false
}
