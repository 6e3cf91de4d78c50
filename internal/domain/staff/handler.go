package staff

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/domain/activity"
	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/middleware"
	"github.com/cinevault/admin-api/internal/pkg/errorhandler"
	"github.com/cinevault/admin-api/internal/pkg/jwt"
	"github.com/cinevault/admin-api/internal/pkg/response"
	"github.com/cinevault/admin-api/internal/pkg/validator"
)

// Handler handles staff HTTP requests
type Handler struct {
	service *Service
	jwtSvc  *jwt.Service
	gate    *middleware.Gate
}

// NewHandler creates staff handler
func NewHandler(service *Service, jwtSvc *jwt.Service, gate *middleware.Gate) *Handler {
	return &Handler{
		service: service,
		jwtSvc:  jwtSvc,
		gate:    gate,
	}
}

// --- Authentication ---

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	acct, err := h.service.Login(r.Context(), req.Email, req.Password, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "Invalid email or password")
		case errors.Is(err, ErrAccountInactive):
			response.Forbidden(w, "Account is inactive")
		case errors.Is(err, ErrPanelAccessDenied):
			response.Forbidden(w, "Your role cannot access the admin panel")
		default:
			errorhandler.Internal(r.Context(), w, err)
		}
		return
	}

	token, expiresAt, err := h.jwtSvc.GenerateAccessToken(acct.ID, acct.Email, acct.Role)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, &LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
		Account:     AccountResponseFromEntity(acct),
	})
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	acct, err := h.service.GetByID(r.Context(), middleware.GetStaffID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			response.NotFound(w, "Account not found")
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	reg := h.service.Registry()
	cfg, err := reg.Config(acct.Role)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, &MeResponse{
		Account:         AccountResponseFromEntity(acct),
		Level:           cfg.Level,
		CanManageOthers: cfg.CanManageOthers,
		CanAccessPanel:  reg.CanAccessAdminPanel(acct.Role),
		Permissions:     rbac.PermissionsByCategory(reg.RolePermissions(acct.Role)),
		ManageableRoles: h.service.ManageableRoles(acct.Role),
	})
}

// --- Staff management ---

// List handles GET /staff
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := ListFilter{Limit: limit, Offset: (page - 1) * limit}
	if v := q.Get("role"); v != "" {
		role, err := h.service.Registry().ParseRole(v)
		if err != nil {
			response.BadRequest(w, "Unknown role")
			return
		}
		filter.Role = &role
	}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid active flag")
			return
		}
		filter.Active = &active
	}

	accounts, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	items := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		items[i] = AccountResponseFromEntity(a)
	}
	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Get handles GET /staff/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	acct, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, AccountResponseFromEntity(acct))
}

// Create handles POST /staff
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	acct, err := h.service.Create(r.Context(), activity.ActorFromRequest(r), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, AccountResponseFromEntity(acct))
}

// Update handles PATCH /staff/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	acct, err := h.service.Update(r.Context(), activity.ActorFromRequest(r), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, AccountResponseFromEntity(acct))
}

// ChangeRole handles PUT /staff/{id}/role
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}
	role, err := h.service.Registry().ParseRole(req.Role)
	if err != nil {
		response.ValidationError(w, map[string]string{"role": "Unknown role"})
		return
	}

	acct, err := h.service.ChangeRole(r.Context(), activity.ActorFromRequest(r), id, role, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, AccountResponseFromEntity(acct))
}

// Delete handles DELETE /staff/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), activity.ActorFromRequest(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid staff ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		response.NotFound(w, "Staff account not found")
	case errors.Is(err, ErrEmailTaken):
		response.Conflict(w, "Email already registered")
	case errors.Is(err, ErrCannotManageRole):
		response.Forbidden(w, "You cannot manage this role")
	case errors.Is(err, ErrSelfRoleChange):
		response.Forbidden(w, "You cannot change your own role")
	case errors.Is(err, ErrSelfDelete):
		response.Forbidden(w, "You cannot delete your own account")
	case errors.Is(err, ErrSelfDeactivate):
		response.Forbidden(w, "You cannot deactivate your own account")
	case errors.Is(err, rbac.ErrUnknownRole):
		response.BadRequest(w, "Unknown role")
	default:
		errorhandler.Internal(r.Context(), w, err)
	}
}
