package roles

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinevault/admin-api/internal/domain/activity"
	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/middleware"
	"github.com/cinevault/admin-api/internal/pkg/errorhandler"
	"github.com/cinevault/admin-api/internal/pkg/response"
	"github.com/cinevault/admin-api/internal/pkg/validator"
)

// Handler handles role catalog HTTP requests
type Handler struct {
	service *Service
	gate    *middleware.Gate
}

// NewHandler creates roles handler
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

// List handles GET /roles
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.service.Summaries())
}

// Get handles GET /roles/{role}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Detail(chi.URLParam(r, "role"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, detail)
}

// Permissions handles GET /permissions
func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.service.Catalog())
}

// CanManage handles GET /roles/{role}/can-manage/{target}, where {role} is the manager
func (h *Handler) CanManage(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CanManage(chi.URLParam(r, "role"), chi.URLParam(r, "target"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, result)
}

// ListOverrides handles GET /roles/overrides
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListOverrides(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, items)
}

// UpdatePermissions handles PUT /roles/{role}/permissions
func (h *Handler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	var req UpdatePermissionsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.UpdatePermissions(r.Context(), activity.ActorFromRequest(r), chi.URLParam(r, "role"), req.Permissions, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, result)
}

// ResetPermissions handles DELETE /roles/{role}/permissions
func (h *Handler) ResetPermissions(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetPermissions(r.Context(), activity.ActorFromRequest(r), chi.URLParam(r, "role")); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, rbac.ErrUnknownRole):
		response.NotFound(w, "Role not found")
	case errors.Is(err, rbac.ErrUnknownPermission):
		response.ValidationError(w, map[string]string{"permissions": "Unknown permission"})
	case errors.Is(err, ErrSuperRoleImmutable):
		response.Forbidden(w, "The super role cannot be edited")
	case errors.Is(err, ErrCannotManageRole):
		response.Forbidden(w, "You cannot manage this role")
	case errors.Is(err, ErrOverrideNotFound):
		response.NotFound(w, "Role has no permission override")
	case errors.Is(err, ErrEditorDisabled):
		response.Error(w, http.StatusServiceUnavailable, "ROLE_EDITOR_DISABLED", "Role overrides are disabled")
	case errors.Is(err, rbac.ErrInvalidRegistry):
		response.BadRequest(w, err.Error())
	default:
		errorhandler.Internal(r.Context(), w, err)
	}
}
