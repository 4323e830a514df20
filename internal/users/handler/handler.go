package handler

import (
	"net/http"

	"fish_and_follow_backend/internal/users/service"
	"fish_and_follow_backend/internal/users/transport"
	"fish_and_follow_backend/platform/httpkit"
	"fish_and_follow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidUserID    = "invalid user id"
	msgInvalidRoleID    = "invalid role id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterUserRoutes mounts the admin-only user directory.
func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.Use(httpkit.RequireRole("admin"))
	rg.GET("", h.ListUsers)
	rg.GET("/search", h.SearchUsers)
	rg.GET("/:id", h.GetUser)
	rg.POST("", h.CreateUser)
	rg.PUT("/:id", h.UpdateUser)
	rg.DELETE("/:id", h.DeleteUser)
}

// RegisterRoleRoutes mounts the admin-only role assignments.
func (h *Handler) RegisterRoleRoutes(rg *gin.RouterGroup) {
	rg.Use(httpkit.RequireRole("admin"))
	rg.GET("", h.ListRoles)
	rg.GET("/:id", h.GetRole)
	rg.POST("", h.CreateRole)
	rg.PUT("/:id", h.UpdateRole)
	rg.DELETE("/:id", h.DeleteRole)
}

func (h *Handler) ListUsers(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) SearchUsers(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Search(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c, msgInvalidUserID)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Describe(err))
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, msgInvalidUserID)
	if !ok {
		return
	}

	var req transport.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Describe(err))
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, msgInvalidUserID)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) ListRoles(c *gin.Context) {
	result, err := h.svc.ListRoles(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetRole(c *gin.Context) {
	id, ok := parseID(c, msgInvalidRoleID)
	if !ok {
		return
	}

	result, err := h.svc.GetRole(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CreateRole(c *gin.Context) {
	req, ok := h.bindRole(c)
	if !ok {
		return
	}

	result, err := h.svc.CreateRole(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c, msgInvalidRoleID)
	if !ok {
		return
	}
	req, ok := h.bindRole(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdateRole(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DeleteRole(c *gin.Context) {
	id, ok := parseID(c, msgInvalidRoleID)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteRole(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) bindRole(c *gin.Context) (transport.RoleRequest, bool) {
	var req transport.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Describe(err))
		return req, false
	}
	return req, true
}

func parseID(c *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
