package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"kitchen-api/internal/domain"
	"kitchen-api/internal/middleware"
	"kitchen-api/internal/repository"
	"kitchen-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// statefulShopConfigRepo keeps the singleton in memory so update/reset
// round-trips can be observed, unlike the fixed-defaults mock used by the
// order tests.
type statefulShopConfigRepo struct {
	cfg *domain.ShopConfig
}

func (m *statefulShopConfigRepo) GetOrCreateDefault(ctx context.Context) (*domain.ShopConfig, error) {
	if m.cfg == nil {
		cfg := domain.DefaultShopConfig()
		m.cfg = &cfg
	}
	return m.cfg, nil
}

func (m *statefulShopConfigRepo) Update(ctx context.Context, update repository.ShopConfigUpdate) (*domain.ShopConfig, error) {
	cfg, _ := m.GetOrCreateDefault(ctx)
	if update.Name != nil {
		cfg.Name = *update.Name
	}
	if update.Phone != nil {
		cfg.Phone = *update.Phone
	}
	if update.Email != nil {
		cfg.Email = *update.Email
	}
	if update.Address != nil {
		cfg.Address = *update.Address
	}
	if update.WhatsAppNumber != nil {
		cfg.WhatsAppNumber = *update.WhatsAppNumber
	}
	if update.Instagram != nil {
		cfg.Instagram = *update.Instagram
	}
	if update.OrderPrefix != nil {
		cfg.OrderPrefix = *update.OrderPrefix
	}
	if update.PrimaryColor != nil {
		cfg.PrimaryColor = *update.PrimaryColor
	}
	if update.BackgroundLight != nil {
		cfg.BackgroundLight = *update.BackgroundLight
	}
	if update.BackgroundDark != nil {
		cfg.BackgroundDark = *update.BackgroundDark
	}
	if update.TextColor != nil {
		cfg.TextColor = *update.TextColor
	}
	if update.Currency != nil {
		cfg.Currency = *update.Currency
	}
	if update.Timezone != nil {
		cfg.Timezone = *update.Timezone
	}
	if update.DeliveryEnabled != nil {
		cfg.DeliveryEnabled = *update.DeliveryEnabled
	}
	if update.PickupEnabled != nil {
		cfg.PickupEnabled = *update.PickupEnabled
	}
	return cfg, nil
}

func (m *statefulShopConfigRepo) Reset(ctx context.Context) (*domain.ShopConfig, error) {
	cfg := domain.DefaultShopConfig()
	m.cfg = &cfg
	return m.cfg, nil
}

func newShopConfigTestRouter(t *testing.T) chi.Router {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	handler := NewShopConfigHandler(service.NewShopConfigService(&statefulShopConfigRepo{}), logger)

	verifier := fixedVerifier{
		"user-token":  {ID: uuid.New(), Role: domain.RoleUser, Kind: "user"},
		"admin-token": {ID: uuid.New(), Role: domain.RoleAdmin, Kind: "user"},
	}

	router := chi.NewRouter()
	handler.RegisterPublicRoutes(router)
	router.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(verifier, logger))
		r.Use(middleware.RequireAdmin(logger))
		handler.RegisterAdminRoutes(r)
	})
	return router
}

func decodeConfig(t *testing.T, body []byte) domain.ShopConfig {
	t.Helper()
	var resp struct {
		Config domain.ShopConfig `json:"config"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Config
}

func TestShopConfigHandler_PublicGetReturnsDefaults(t *testing.T) {
	router := newShopConfigTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/shop-config", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cfg := decodeConfig(t, w.Body.Bytes())
	assert.Equal(t, "Aizu's Kitchen", cfg.Name)
	assert.Equal(t, "AK-", cfg.OrderPrefix)
	assert.Equal(t, "INR", cfg.Currency)
	assert.True(t, cfg.DeliveryEnabled)
	assert.True(t, cfg.PickupEnabled)
}

func TestShopConfigHandler_PartialUpdate(t *testing.T) {
	router := newShopConfigTestRouter(t)

	w := doRequest(t, router, http.MethodPut, "/api/admin/shop-config", "admin-token", map[string]any{
		"name":         "Midnight Diner",
		"primaryColor": "#112233",
	})
	require.Equal(t, http.StatusOK, w.Code)

	cfg := decodeConfig(t, w.Body.Bytes())
	assert.Equal(t, "Midnight Diner", cfg.Name)
	assert.Equal(t, "#112233", cfg.PrimaryColor)
	// untouched fields keep their current values
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)

	// the change is visible on the public route
	w = doRequest(t, router, http.MethodGet, "/api/shop-config", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Midnight Diner", decodeConfig(t, w.Body.Bytes()).Name)
}

func TestShopConfigHandler_UpdateValidation(t *testing.T) {
	router := newShopConfigTestRouter(t)

	badPayloads := []map[string]any{
		{"primaryColor": "orange"},
		{"email": "not-an-email"},
		{"currency": "rupees"},
		{"backgroundDark": "#12"},
	}
	for _, payload := range badPayloads {
		w := doRequest(t, router, http.MethodPut, "/api/admin/shop-config", "admin-token", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v should be rejected", payload)
	}
}

func TestShopConfigHandler_ResetRestoresDefaults(t *testing.T) {
	router := newShopConfigTestRouter(t)

	w := doRequest(t, router, http.MethodPut, "/api/admin/shop-config", "admin-token", map[string]any{
		"name":            "Midnight Diner",
		"deliveryEnabled": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/admin/shop-config/reset", "admin-token", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cfg := decodeConfig(t, w.Body.Bytes())
	assert.Equal(t, "Aizu's Kitchen", cfg.Name)
	assert.True(t, cfg.DeliveryEnabled)
}

func TestShopConfigHandler_AdminRoutesAreProtected(t *testing.T) {
	router := newShopConfigTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/admin/shop-config", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/admin/shop-config", "user-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/admin/shop-config", "admin-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
