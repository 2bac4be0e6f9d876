package transport

import (
	"errors"
	"net/http"
	"time"

	"kitchen-api/internal/billing"
	"kitchen-api/internal/domain"
	"kitchen-api/internal/middleware"
	"kitchen-api/internal/pagination"
	"kitchen-api/internal/repository"
	"kitchen-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemRequest mirrors one frozen line item as sent by the storefront
type OrderItemRequest struct {
	ProductID *uuid.UUID `json:"productId"`
	Name      string     `json:"name" validate:"required"`
	Unit      string     `json:"unit"`
	Qty       int        `json:"qty" validate:"required,gt=0"`
	Price     float64    `json:"price" validate:"gte=0"`
	LineTotal float64    `json:"lineTotal" validate:"gte=0"`
}

// CustomerRequest carries the contact snapshot for an order
type CustomerRequest struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required,min=6"`
	Type          string `json:"type" validate:"omitempty,oneof=Delivery Pickup"`
	Address       string `json:"address"`
	PreferredTime string `json:"preferredTime"`
	Payment       string `json:"payment"`
	Notes         string `json:"notes"`
}

// CreateOrderRequest represents the order creation payload
type CreateOrderRequest struct {
	OrderRef string             `json:"orderRef" validate:"required"`
	Customer CustomerRequest    `json:"customer" validate:"required"`
	Items    []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Subtotal float64            `json:"subtotal" validate:"gte=0"`
	Message  string             `json:"message"`
	Source   string             `json:"source"`
}

// UpdateOrderStatusRequest represents a status change request
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterUserRoutes registers the authenticated customer-facing order
// routes. createLimiter throttles order creation per client.
func (h *OrderHandler) RegisterUserRoutes(r chi.Router, createLimiter func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListMine)
		r.With(createLimiter).Post("/", h.Create)
	})
}

// RegisterAdminRoutes registers the admin order routes; the router is
// expected to carry auth + admin middleware already
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListAll)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.UpdateStatus)
		r.Get("/{id}/bill", h.Bill)
		r.Get("/{id}/whatsapp", h.WhatsApp)
	})
}

// Create places a new order for the authenticated user
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Unit:      item.Unit,
			Qty:       item.Qty,
			Price:     item.Price,
			LineTotal: item.LineTotal,
		}
	}

	order, err := h.orderService.Create(r.Context(), principal.ID, service.CreateOrderInput{
		OrderRef: req.OrderRef,
		Customer: domain.Customer{
			Name:          req.Customer.Name,
			Phone:         req.Customer.Phone,
			Type:          req.Customer.Type,
			Address:       req.Customer.Address,
			PreferredTime: req.Customer.PreferredTime,
			Payment:       req.Customer.Payment,
			Notes:         req.Customer.Notes,
		},
		Items:    items,
		Subtotal: req.Subtotal,
		Message:  req.Message,
		Source:   req.Source,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderWithoutItems),
			errors.Is(err, service.ErrOrderTypeUnknown),
			errors.Is(err, service.ErrTotalsMismatch):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_ref", order.OrderRef),
		zap.String("user_id", principal.ID.String()))

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]any{"order": order})
}

// ListMine lists the authenticated user's own orders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	params := pagination.Parse(r.URL.Query())
	filter, err := orderFilterFromQuery(r, params)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, total, err := h.orderService.ListForUser(r.Context(), principal.ID, filter)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, pagination.NewEnvelope(orders, total, params.Page, params.Limit))
}

// ListAll lists every order with optional status, date range and search
// narrowing
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := pagination.Parse(r.URL.Query())
	filter, err := orderFilterFromQuery(r, params)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, total, err := h.orderService.ListAll(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, pagination.NewEnvelope(orders, total, params.Page, params.Limit))
}

// Get returns a single order by ID
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, ok := h.lookupOrder(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"order": order})
}

// UpdateStatus moves an order to a new status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidStatus),
			errors.Is(err, service.ErrTransitionRefused):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)))

	middleware.RespondWithJSON(w, http.StatusOK, map[string]any{"order": order})
}

// Bill renders the printable HTML bill for an order
func (h *OrderHandler) Bill(w http.ResponseWriter, r *http.Request) {
	bill, ok := h.renderBill(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(bill.HTML))
}

// WhatsApp returns the plain-text bill message and a wa.me share link
func (h *OrderHandler) WhatsApp(w http.ResponseWriter, r *http.Request) {
	bill, ok := h.renderBill(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, bill)
}

func (h *OrderHandler) lookupOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return nil, false
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return nil, false
		}
		h.logger.Error("Failed to fetch order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch order")
		return nil, false
	}
	return order, true
}

func (h *OrderHandler) renderBill(w http.ResponseWriter, r *http.Request) (billing.Bill, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return billing.Bill{}, false
	}

	bill, err := h.orderService.RenderBill(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return billing.Bill{}, false
		}
		h.logger.Error("Failed to render bill", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to render bill")
		return billing.Bill{}, false
	}
	return bill, true
}

// orderFilterFromQuery builds an OrderFilter from query parameters. Dates
// accept either RFC 3339 or a bare YYYY-MM-DD; a bare dateTo is pushed to
// end of day so the bound stays inclusive.
func orderFilterFromQuery(r *http.Request, params pagination.Params) (repository.OrderFilter, error) {
	filter := repository.OrderFilter{
		Search: params.Search,
		Limit:  params.Limit,
		Skip:   params.Skip,
	}

	// "all" is the admin panel's way of clearing the status filter
	if raw := r.URL.Query().Get("status"); raw != "" && raw != "all" {
		status := domain.OrderStatus(raw)
		if !status.IsValid() {
			return filter, errors.New("invalid order status")
		}
		filter.Status = status
	}

	if raw := r.URL.Query().Get("dateFrom"); raw != "" {
		t, err := parseDateBound(raw, false)
		if err != nil {
			return filter, errors.New("invalid dateFrom")
		}
		filter.DateFrom = &t
	}
	if raw := r.URL.Query().Get("dateTo"); raw != "" {
		t, err := parseDateBound(raw, true)
		if err != nil {
			return filter, errors.New("invalid dateTo")
		}
		filter.DateTo = &t
	}

	return filter, nil
}

func parseDateBound(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
