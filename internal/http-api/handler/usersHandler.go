package handler

import (
	"net/http"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers the user management routes. All of them require
// authentication; everything except the "me" alias additionally requires the
// admin role, which is enforced per-handler so that /users/me stays reachable
// for regular users.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	users := rg.Group("/users", authRequired)
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:username", h.Get)
		users.PATCH("/:username", h.Update)
		users.DELETE("/:username", h.Delete)
	}
}

// List returns a page of users (admin only)
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	page, pageSize := pagination(c)
	resp, err := h.userService.List(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds a user with an explicit role (admin only)
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var req dto.CreateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get returns one user by username. "me" resolves to the caller's own
// profile and is allowed for any authenticated user.
// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		userID, ok := actingUserID(c)
		if !ok {
			return
		}
		user, err := h.userService.GetProfile(userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	if !requireAdmin(c) {
		return
	}
	user, err := h.userService.GetByUsername(username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update patches a user. Through the "me" alias any authenticated user can
// edit their own profile, but not their role.
// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		userID, ok := actingUserID(c)
		if !ok {
			return
		}
		var req dto.UpdateProfileDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := h.userService.UpdateProfile(userID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	if !requireAdmin(c) {
		return
	}
	var req dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userService.UpdateByUsername(username, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user by username (admin only). Deleting through the "me"
// alias is not supported.
// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if username == "me" {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "cannot delete own account through this endpoint"})
		return
	}

	if !requireAdmin(c) {
		return
	}
	if err := h.userService.DeleteByUsername(username); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// requireAdmin aborts with 403 unless the caller carries the admin role.
func requireAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	if r, ok := role.(string); ok && r == models.RoleAdmin {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	return false
}
