// AngelaMos | 2026
// handler.go

package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
	"github.com/carterperez-dev/templates/event-backend/internal/middleware"
)

const (
	formField         = "file"
	multipartOverhead = 1 << 20
)

type UploadResponse struct {
	ImageURL string `json:"image_url"`
}

type Handler struct {
	uploader Uploader
	maxBytes int64
}

// NewHandler serves image uploads. A nil uploader means media storage is
// not configured and every upload answers 503.
func NewHandler(uploader Uploader, maxBytes int64) *Handler {
	return &Handler{
		uploader: uploader,
		maxBytes: maxBytes,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/upload", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/image", h.UploadImage)
	})
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		core.JSONError(w, core.NewAppError(
			core.ErrUpstream,
			"media storage is not configured",
			http.StatusServiceUnavailable,
			"SERVICE_UNAVAILABLE",
		))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.BadRequest(w, h.tooLargeMessage())
			return
		}
		core.BadRequest(w, "request must be multipart/form-data")
		return
	}
	defer func() {
		//nolint:errcheck // best-effort temp file cleanup
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(formField)
	if err != nil {
		core.BadRequest(w, "file field is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only

	body, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		core.BadRequest(w, "could not read uploaded file")
		return
	}

	if int64(len(body)) > h.maxBytes {
		core.BadRequest(w, h.tooLargeMessage())
		return
	}

	if len(body) == 0 {
		core.BadRequest(w, "file is empty")
		return
	}

	mt := mimetype.Detect(body)
	if !strings.HasPrefix(mt.String(), "image/") {
		core.BadRequest(w, "file must be an image")
		return
	}

	url, err := h.uploader.Upload(r.Context(), body, mt.String(), header.Filename)
	if err != nil {
		if errors.Is(err, core.ErrUpstream) {
			slog.Warn("image upload failed",
				"error", err,
				"user_id", middleware.GetUserID(r.Context()),
			)
			core.JSONError(w, core.UpstreamError("image upload failed"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	slog.Info("image uploaded",
		"url", url,
		"content_type", mt.String(),
		"bytes", len(body),
		"user_id", middleware.GetUserID(r.Context()),
	)
	core.Created(w, UploadResponse{ImageURL: url})
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("file exceeds %d bytes", h.maxBytes)
}
