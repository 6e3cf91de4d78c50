package activity

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/middleware"
	"github.com/cinevault/admin-api/internal/pkg/errorhandler"
	"github.com/cinevault/admin-api/internal/pkg/response"
	"github.com/cinevault/admin-api/internal/pkg/validator"
)

// Handler handles activity log HTTP requests
type Handler struct {
	service *Service
	gate    *middleware.Gate
}

// NewHandler creates activity handler
func NewHandler(service *Service, gate *middleware.Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

// ActorFromRequest describes the authenticated principal behind r
func ActorFromRequest(r *http.Request) Actor {
	actor := Actor{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if p, ok := middleware.GetPrincipal(r.Context()); ok {
		actor.ID = p.ID
		actor.Email = p.Email
		actor.Role = string(p.Role)
	}
	return actor
}

// List handles GET /activity
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

	filter := Filter{Limit: limit, Offset: (page - 1) * limit}
	if v := q.Get("action"); v != "" {
		filter.Action = &v
	}
	if v := q.Get("entity_type"); v != "" {
		filter.EntityType = &v
	}
	if v := q.Get("entity_id"); v != "" {
		filter.EntityID = &v
	}
	if v := q.Get("actor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "Invalid actor_id")
			return
		}
		filter.ActorID = &id
	}
	var ok bool
	if filter.FromDate, ok = parseTime(w, q.Get("from"), "from"); !ok {
		return
	}
	if filter.ToDate, ok = parseTime(w, q.Get("to"), "to"); !ok {
		return
	}

	entries, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			response.BadRequest(w, err.Error())
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	items := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = EntryResponseFromEntity(e)
	}
	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Export handles POST /activity/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	filter := Filter{ActorID: req.ActorID, FromDate: req.From, ToDate: req.To}
	if req.Action != "" {
		filter.Action = &req.Action
	}
	if req.EntityType != "" {
		filter.EntityType = &req.EntityType
	}

	result, err := h.service.Export(r.Context(), ActorFromRequest(r), filter)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRange):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrExportTooLarge):
			response.Error(w, http.StatusRequestEntityTooLarge, "EXPORT_TOO_LARGE", "Narrow the filter and retry")
		case errors.Is(err, ErrExportUnavailable):
			errorhandler.HandleError(r.Context(), w, http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export storage is not configured", err)
		default:
			errorhandler.Internal(r.Context(), w, err)
		}
		return
	}

	response.Created(w, result)
}

// ExportLink handles GET /activity/export?key=...
func (h *Handler) ExportLink(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, "key is required")
		return
	}

	url, err := h.service.ExportURL(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, ErrExportNotFound):
			response.NotFound(w, "Export not found")
		case errors.Is(err, ErrExportUnavailable):
			errorhandler.HandleError(r.Context(), w, http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export storage is not configured", err)
		default:
			errorhandler.Internal(r.Context(), w, err)
		}
		return
	}

	response.OK(w, map[string]string{"key": key, "url": url})
}

func parseTime(w http.ResponseWriter, raw, field string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		response.BadRequest(w, "Invalid "+field+": expected RFC3339 timestamp")
		return nil, false
	}
	return &t, true
}
