package transport

import (
	"net/http"

	"kitchen-api/internal/middleware"
	"kitchen-api/internal/pagination"
	"kitchen-api/internal/repository"
	"kitchen-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Unit        string  `json:"unit"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"desc"`
	ImageURL    string  `json:"imageUrl"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateProductRequest represents a partial product update; absent fields
// are left unchanged
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Unit        *string  `json:"unit"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"desc"`
	ImageURL    *string  `json:"imageUrl"`
	IsActive    *bool    `json:"isActive"`
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterPublicRoutes registers the public catalog routes
func (h *ProductHandler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListPublic)
		r.Get("/{id}", h.GetPublic)
	})
}

// RegisterAdminRoutes registers the admin catalog routes; the router is
// expected to carry auth + admin middleware already
func (h *ProductHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListAdmin)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetAdmin)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// ListPublic lists active products with search and pagination
func (h *ProductHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	params := pagination.Parse(r.URL.Query())

	products, total, err := h.productService.ListPublic(r.Context(), repository.ProductFilter{
		Search: params.Search,
		Limit:  params.Limit,
		Skip:   params.Skip,
	})
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, pagination.NewEnvelope(products, total, params.Page, params.Limit))
}

// ListAdmin lists non-deleted products with optional active/inactive narrowing
func (h *ProductHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	params := pagination.Parse(r.URL.Query())

	var status repository.ProductStatusFilter
	switch r.URL.Query().Get("status") {
	case "active":
		status = repository.ProductStatusActive
	case "inactive":
		status = repository.ProductStatusInactive
	}

	products, total, err := h.productService.ListAdmin(r.Context(), repository.ProductFilter{
		Search: params.Search,
		Status: status,
		Limit:  params.Limit,
		Skip:   params.Skip,
	})
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, pagination.NewEnvelope(products, total, params.Page, params.Limit))
}

// GetPublic returns a single active product
func (h *ProductHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, true)
}

// GetAdmin returns a single non-deleted product
func (h *ProductHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, false)
}

func (h *ProductHandler) getByID(w http.ResponseWriter, r *http.Request, publicOnly bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to fetch product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	if publicOnly && !product.IsActive {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"product": product})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Unit:        req.Unit,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]any{"product": product})
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), id, repository.ProductUpdate{
		Name:        req.Name,
		Unit:        req.Unit,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"product": product})
}

// Delete soft-deletes a product. Deleting an already-deleted product
// surfaces not found, since lookup shares the tombstone-exclusion predicate
// with reads.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	if err := h.productService.SoftDelete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product soft-deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}
