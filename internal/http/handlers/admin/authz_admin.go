package admin

import (
	"errors"
	"net/url"
	"strings"

	"github.com/jewgo-app/jewgo-api/internal/authz"
	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/gin-gonic/gin"
)

// RoleRequest names a role.
type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// PolicyRequest grants or revokes one rule on a role.
type PolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// SetAdminRolesRequest replaces an operator's role set.
type SetAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// CreateAdminRequest provisions an operator account. Staff accounts carry a
// restaurant binding and default to the restaurant_staff role.
type CreateAdminRequest struct {
	Username     string   `json:"username" binding:"required"`
	Password     string   `json:"password" binding:"required"`
	IsSuper      *bool    `json:"is_super"`
	RestaurantID *uint    `json:"restaurant_id"`
	Roles        []string `json:"roles"`
}

// UpdateAdminRequest mutates an operator account. Nil fields stay untouched.
type UpdateAdminRequest struct {
	Password        *string `json:"password"`
	IsSuper         *bool   `json:"is_super"`
	RestaurantID    *uint   `json:"restaurant_id"`
	ClearRestaurant bool    `json:"clear_restaurant"`
}

type adminAccountView struct {
	ID           uint     `json:"id"`
	Username     string   `json:"username"`
	IsSuper      bool     `json:"is_super"`
	RestaurantID *uint    `json:"restaurant_id"`
	Roles        []string `json:"roles"`
}

// GetAuthzMe returns the caller's permission snapshot.
func (h *Handler) GetAuthzMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load permissions", err)
		return
	}
	policies, err := h.AuthzService.GetAdminPolicies(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load permissions", err)
		return
	}

	isSuper := false
	if value, exists := c.Get("admin_is_super"); exists {
		if flag, typeOK := value.(bool); typeOK {
			isSuper = flag
		}
	}

	response.Success(c, gin.H{
		"admin_id": adminID,
		"is_super": isSuper,
		"roles":    roles,
		"policies": policies,
	})
}

// ListAuthzRoles lists every known role.
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list roles", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole creates a role.
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid role", err)
		return
	}

	requestLog(c).Infow("authz_role_created", "role", role)
	response.Success(c, gin.H{"role": role})
}

// DeleteAuthzRole removes a role and its policies. Built-in roles refuse.
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if strings.TrimSpace(role) == "" {
		respondError(c, response.CodeBadRequest, "role is required", nil)
		return
	}

	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondError(c, response.CodeBadRequest, "failed to delete role", err)
		return
	}

	requestLog(c).Infow("authz_role_deleted", "role", role)
	response.Success(c, nil)
}

// GetAuthzRolePolicies returns the rules attached to a role.
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if strings.TrimSpace(role) == "" {
		respondError(c, response.CodeBadRequest, "role is required", nil)
		return
	}

	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "failed to load role policies", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy attaches one rule to a role.
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "failed to grant policy", err)
		return
	}

	requestLog(c).Infow("authz_policy_granted",
		"role", req.Role, "object", req.Object, "action", req.Action)
	response.Success(c, nil)
}

// RevokeAuthzPolicy detaches one rule from a role.
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "failed to revoke policy", err)
		return
	}

	requestLog(c).Infow("authz_policy_revoked",
		"role", req.Role, "object", req.Object, "action", req.Action)
	response.Success(c, nil)
}

// ListAuthzAdmins lists operator accounts with their roles.
func (h *Handler) ListAuthzAdmins(c *gin.Context) {
	admins, err := h.AdminRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list admins", err)
		return
	}

	items := make([]adminAccountView, 0, len(admins))
	for _, account := range admins {
		roles, roleErr := h.AuthzService.GetAdminRoles(account.ID)
		if roleErr != nil {
			respondError(c, response.CodeInternal, "failed to list admins", roleErr)
			return
		}
		items = append(items, adminAccountView{
			ID:           account.ID,
			Username:     account.Username,
			IsSuper:      account.IsSuper,
			RestaurantID: account.RestaurantID,
			Roles:        roles,
		})
	}
	response.Success(c, items)
}

// CreateAuthzAdmin provisions an operator or restaurant staff account.
func (h *Handler) CreateAuthzAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || strings.ContainsAny(username, " \t") {
		respondError(c, response.CodeBadRequest, "invalid username", nil)
		return
	}

	existing, err := h.AdminRepo.GetByUsername(username)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to create admin", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "username already taken", nil)
		return
	}

	if err := h.AuthService.ValidatePassword(req.Password); err != nil {
		if errors.Is(err, service.ErrPasswordPolicy) {
			respondError(c, response.CodeBadRequest, "password does not meet the policy", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to create admin", err)
		return
	}
	hash, err := h.AuthService.HashPassword(req.Password)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to create admin", err)
		return
	}

	if req.RestaurantID != nil {
		restaurant, err := h.RestaurantRepo.GetByID(*req.RestaurantID)
		if err != nil {
			respondError(c, response.CodeInternal, "failed to create admin", err)
			return
		}
		if restaurant == nil {
			respondError(c, response.CodeBadRequest, "restaurant not found", nil)
			return
		}
	}

	account := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		IsSuper:      req.IsSuper != nil && *req.IsSuper,
		RestaurantID: req.RestaurantID,
	}
	if err := h.AdminRepo.Create(account); err != nil {
		respondError(c, response.CodeInternal, "failed to create admin", err)
		return
	}

	roles := req.Roles
	if len(roles) == 0 && account.RestaurantID != nil && !account.IsSuper {
		// Staff accounts get the built-in role unless roles were chosen.
		roles = []string{authz.RoleRestaurantStaff}
	}
	for _, role := range roles {
		if err := h.AuthzService.AssignRole(account.ID, role); err != nil {
			respondError(c, response.CodeBadRequest, "failed to assign role", err)
			return
		}
	}

	requestLog(c).Infow("authz_admin_created",
		"target_admin_id", account.ID,
		"target_username", account.Username,
		"is_super", account.IsSuper,
		"restaurant_id", account.RestaurantID,
		"roles", roles,
	)
	response.Created(c, account)
}

// UpdateAuthzAdmin mutates an operator account.
func (h *Handler) UpdateAuthzAdmin(c *gin.Context) {
	adminID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	account, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to update admin", err)
		return
	}
	if account == nil {
		respondError(c, response.CodeNotFound, "admin not found", nil)
		return
	}

	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if req.Password != nil {
		if err := h.AuthService.ValidatePassword(*req.Password); err != nil {
			respondError(c, response.CodeBadRequest, "password does not meet the policy", nil)
			return
		}
		hash, hashErr := h.AuthService.HashPassword(*req.Password)
		if hashErr != nil {
			respondError(c, response.CodeInternal, "failed to update admin", hashErr)
			return
		}
		account.PasswordHash = hash
	}
	if req.IsSuper != nil {
		account.IsSuper = *req.IsSuper
	}
	switch {
	case req.ClearRestaurant:
		account.RestaurantID = nil
	case req.RestaurantID != nil:
		restaurant, restErr := h.RestaurantRepo.GetByID(*req.RestaurantID)
		if restErr != nil {
			respondError(c, response.CodeInternal, "failed to update admin", restErr)
			return
		}
		if restaurant == nil {
			respondError(c, response.CodeBadRequest, "restaurant not found", nil)
			return
		}
		account.RestaurantID = req.RestaurantID
	}

	if err := h.AdminRepo.Update(account); err != nil {
		respondError(c, response.CodeInternal, "failed to update admin", err)
		return
	}

	requestLog(c).Infow("authz_admin_updated",
		"target_admin_id", account.ID,
		"is_super", account.IsSuper,
		"restaurant_id", account.RestaurantID,
	)
	response.Success(c, account)
}

// GetAuthzAdminRoles returns one operator's roles.
func (h *Handler) GetAuthzAdminRoles(c *gin.Context) {
	adminID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	account, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load admin roles", err)
		return
	}
	if account == nil {
		respondError(c, response.CodeNotFound, "admin not found", nil)
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load admin roles", err)
		return
	}
	response.Success(c, roles)
}

// SetAuthzAdminRoles replaces one operator's role set.
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	adminID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	account, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to set admin roles", err)
		return
	}
	if account == nil {
		respondError(c, response.CodeNotFound, "admin not found", nil)
		return
	}

	var req SetAdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.AuthzService.SetAdminRoles(adminID, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "failed to set admin roles", err)
		return
	}

	requestLog(c).Infow("authz_admin_roles_updated",
		"target_admin_id", adminID,
		"target_username", account.Username,
		"roles", req.Roles,
	)
	response.Success(c, nil)
}

func decodeRoleParam(raw string) string {
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
