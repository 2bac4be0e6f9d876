package transport

import (
	"net/http"

	"kitchen-api/internal/middleware"
	"kitchen-api/internal/repository"
	"kitchen-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UpdateShopConfigRequest represents a partial shop configuration update;
// absent fields keep their current values
type UpdateShopConfigRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Address         *string `json:"address"`
	WhatsAppNumber  *string `json:"whatsappNumber"`
	Instagram       *string `json:"instagram"`
	OrderPrefix     *string `json:"orderPrefix"`
	PrimaryColor    *string `json:"primaryColor" validate:"omitempty,hexcolor"`
	BackgroundLight *string `json:"backgroundLight" validate:"omitempty,hexcolor"`
	BackgroundDark  *string `json:"backgroundDark" validate:"omitempty,hexcolor"`
	TextColor       *string `json:"textColor" validate:"omitempty,hexcolor"`
	Currency        *string `json:"currency" validate:"omitempty,len=3,uppercase"`
	Timezone        *string `json:"timezone"`
	DeliveryEnabled *bool   `json:"deliveryEnabled"`
	PickupEnabled   *bool   `json:"pickupEnabled"`
}

// ShopConfigHandler handles HTTP requests for the shop configuration
type ShopConfigHandler struct {
	shopConfigService service.ShopConfigService
	logger            *zap.Logger
}

// NewShopConfigHandler creates a new ShopConfigHandler
func NewShopConfigHandler(shopConfigService service.ShopConfigService, logger *zap.Logger) *ShopConfigHandler {
	return &ShopConfigHandler{
		shopConfigService: shopConfigService,
		logger:            logger,
	}
}

// RegisterPublicRoutes registers the public configuration route used by the
// storefront for theming
func (h *ShopConfigHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/api/shop-config", h.Get)
}

// RegisterAdminRoutes registers the admin configuration routes; the router
// is expected to carry auth + admin middleware already
func (h *ShopConfigHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/shop-config", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Post("/reset", h.Reset)
	})
}

// Get returns the current configuration, creating the defaults row on first
// read
func (h *ShopConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.shopConfigService.Get(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch shop config", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch shop config")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"config": cfg})
}

// Update applies a partial configuration change
func (h *ShopConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateShopConfigRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.shopConfigService.Update(r.Context(), repository.ShopConfigUpdate{
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		WhatsAppNumber:  req.WhatsAppNumber,
		Instagram:       req.Instagram,
		OrderPrefix:     req.OrderPrefix,
		PrimaryColor:    req.PrimaryColor,
		BackgroundLight: req.BackgroundLight,
		BackgroundDark:  req.BackgroundDark,
		TextColor:       req.TextColor,
		Currency:        req.Currency,
		Timezone:        req.Timezone,
		DeliveryEnabled: req.DeliveryEnabled,
		PickupEnabled:   req.PickupEnabled,
	})
	if err != nil {
		h.logger.Error("Failed to update shop config", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update shop config")
		return
	}

	h.logger.Info("Shop config updated")
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"config": cfg})
}

// Reset restores the factory defaults
func (h *ShopConfigHandler) Reset(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.shopConfigService.Reset(r.Context())
	if err != nil {
		h.logger.Error("Failed to reset shop config", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to reset shop config")
		return
	}

	h.logger.Info("Shop config reset to defaults")
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"config": cfg})
}
