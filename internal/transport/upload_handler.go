package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"kitchen-api/internal/imagestore"
	"kitchen-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UploadHandler handles product image uploads
type UploadHandler struct {
	store    imagestore.Store
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadHandler creates a new UploadHandler. maxBytes caps the whole
// multipart request body.
func NewUploadHandler(store imagestore.Store, maxBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// RegisterAdminRoutes registers the upload route; the router is expected to
// carry auth + admin middleware already
func (h *UploadHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/upload", h.Upload)
}

// Upload accepts a multipart form with an "image" field, normalizes the
// image and returns its public URL
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "image exceeds the 5MB size limit")
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		middleware.RespondWithError(w, http.StatusBadRequest, "only image files are allowed")
		return
	}

	stored, err := h.store.Save(r.Context(), file)
	if err != nil {
		if errors.Is(err, imagestore.ErrNotImage) {
			middleware.RespondWithError(w, http.StatusBadRequest, "only image files are allowed")
			return
		}
		h.logger.Error("Failed to store image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	h.logger.Info("Image uploaded",
		zap.String("filename", stored.Filename),
		zap.Int64("size", stored.Size))

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"imageUrl": stored.URL,
		"filename": stored.Filename,
		"size":     stored.Size,
		"sizeMB":   fmt.Sprintf("%.2f", float64(stored.Size)/(1024*1024)),
	})
}
