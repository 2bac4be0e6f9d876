package transport

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"kitchen-api/internal/domain"
	"kitchen-api/internal/imagestore"
	"kitchen-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const uploadTestMaxBytes = 5 * 1024 * 1024

func newUploadTestRouter(t *testing.T) chi.Router {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	store, err := imagestore.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	handler := NewUploadHandler(store, uploadTestMaxBytes, logger)

	verifier := fixedVerifier{
		"admin-token": {ID: uuid.New(), Role: domain.RoleAdmin, Kind: "user"},
	}

	router := chi.NewRouter()
	router.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(verifier, logger))
		r.Use(middleware.RequireAdmin(logger))
		handler.RegisterAdminRoutes(r)
	})
	return router
}

// multipartImageRequest builds a multipart POST with a single "image" part
// carrying the given content type and payload.
func multipartImageRequest(t *testing.T, contentType string, payload []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="dish.png"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer admin-token")
	return req
}

// pngBytes produces a noisy image so the encoded size stays roughly
// proportional to the pixel count.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadHandler_StoresImage(t *testing.T) {
	router := newUploadTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartImageRequest(t, "image/png", pngBytes(t, 320, 240)))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ImageURL string `json:"imageUrl"`
		Filename string `json:"filename"`
		Size     int64  `json:"size"`
		SizeMB   string `json:"sizeMB"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^/uploads/product_\d+_[a-z0-9]{7}\.jpg$`, resp.ImageURL)
	assert.Equal(t, "/uploads/"+resp.Filename, resp.ImageURL)
	assert.Positive(t, resp.Size)
	assert.NotEmpty(t, resp.SizeMB)
}

func TestUploadHandler_RejectsMissingFile(t *testing.T) {
	router := newUploadTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("caption", "no image here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer admin-token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadHandler_RejectsNonImageContentType(t *testing.T) {
	router := newUploadTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartImageRequest(t, "text/plain", []byte("just some text")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadHandler_RejectsUndecodableImage(t *testing.T) {
	router := newUploadTestRouter(t)

	// lies about being a PNG; the store fails to decode it
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartImageRequest(t, "image/png", []byte("not really a png")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadHandler_RejectsOversizedBody(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	store, err := imagestore.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	// tiny cap so a real image overflows it
	handler := NewUploadHandler(store, 1024, logger)

	router := chi.NewRouter()
	router.Post("/api/admin/upload", handler.Upload)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartImageRequest(t, "image/png", pngBytes(t, 800, 600)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
