// AngelaMos | 2026
// handler.go

package event

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
	"github.com/carterperez-dev/templates/event-backend/internal/middleware"
)

const maxEventBodyBytes = 1 << 20

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the public read routes and the admin-only write
// routes under /events.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{eventID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Post("/", h.Create)
			r.Put("/{eventID}", h.Update)
			r.Patch("/{eventID}", h.Update)
			r.Delete("/{eventID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListEventsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", defaultPageSize),
	}
	params.Normalize()

	events, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToEventResponseList(events),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToEventResponse(event))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBodyBytes)

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.RequestValidationFailed(w, err)
		return
	}

	event, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("event created",
		"event_id", event.ID,
		"user_id", middleware.GetUserID(r.Context()),
	)
	core.Created(w, ToEventResponse(event))
}

// Update serves both PUT and PATCH; either way only the supplied,
// non-empty fields change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxEventBodyBytes)

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil || raw == nil {
		core.BadRequest(w, "request body must be a JSON object")
		return
	}

	event, err := h.service.Update(r.Context(), id, raw)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToEventResponse(event))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("event deleted",
		"event_id", id,
		"user_id", middleware.GetUserID(r.Context()),
	)

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	if ve, ok := core.AsValidationError(err); ok {
		core.UnprocessableEntity(w, ve)
		return
	}
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "event")
		return
	}
	core.InternalServerError(w, err)
}

func eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "invalid event id")
		return 0, false
	}
	return id, true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
