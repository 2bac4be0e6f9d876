package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"kitchen-api/internal/billing"
	"kitchen-api/internal/domain"
	"kitchen-api/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrTransitionRefused  = errors.New("status transition not allowed")
	ErrTotalsMismatch     = errors.New("order totals do not match item prices")
	ErrOrderWithoutItems  = errors.New("order must contain at least one item")
	ErrOrderTypeUnknown   = errors.New("order type must be Delivery or Pickup")
)

// totalsEpsilon tolerates float representation noise when recomputing totals
const totalsEpsilon = 0.001

// CreateOrderInput is the validated payload for order creation. Items are
// frozen copies of product data supplied by the caller; totals are trusted
// as-is unless strict mode is on.
type CreateOrderInput struct {
	OrderRef string
	Customer domain.Customer
	Items    []domain.OrderItem
	Subtotal float64
	Message  string
	Source   string
}

// OrderService defines the interface for order business logic
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*domain.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filter repository.OrderFilter) ([]*domain.Order, int, error)
	ListAll(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	// RenderBill derives the printable bill and WhatsApp message for an order
	RenderBill(ctx context.Context, id uuid.UUID) (billing.Bill, error)
}

type orderService struct {
	orderRepo      repository.OrderRepository
	shopConfigRepo repository.ShopConfigRepository
	transitions    domain.TransitionTable
	strictTotals   bool
}

// NewOrderService creates a new instance of OrderService. strictStatusFlow
// selects the forward-chain transition table; strictTotals makes creation
// recompute totals instead of trusting the caller.
func NewOrderService(
	orderRepo repository.OrderRepository,
	shopConfigRepo repository.ShopConfigRepository,
	strictStatusFlow bool,
	strictTotals bool,
) OrderService {
	transitions := domain.PermissiveTransitions
	if strictStatusFlow {
		transitions = domain.StrictTransitions
	}
	return &orderService{
		orderRepo:      orderRepo,
		shopConfigRepo: shopConfigRepo,
		transitions:    transitions,
		strictTotals:   strictTotals,
	}
}

// Create validates and stores a new order owned by userID, always starting
// in pending status
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrOrderWithoutItems
	}

	customer := input.Customer
	if customer.Type == "" {
		customer.Type = "Delivery"
	}
	if customer.Type != "Delivery" && customer.Type != "Pickup" {
		return nil, ErrOrderTypeUnknown
	}

	source := input.Source
	if source == "" {
		source = "web"
	}

	if s.strictTotals {
		if err := verifyTotals(input.Items, input.Subtotal); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	order := &domain.Order{
		ID:        uuid.New(),
		OrderRef:  input.OrderRef,
		UserID:    &userID,
		Customer:  customer,
		Items:     input.Items,
		Subtotal:  input.Subtotal,
		Message:   input.Message,
		Source:    source,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// verifyTotals recomputes each line total and the subtotal and rejects
// mismatches. Only consulted in strict mode.
func verifyTotals(items []domain.OrderItem, subtotal float64) error {
	var sum float64
	for _, item := range items {
		expected := float64(item.Qty) * item.Price
		if math.Abs(expected-item.LineTotal) > totalsEpsilon {
			return ErrTotalsMismatch
		}
		sum += item.LineTotal
	}
	if math.Abs(sum-subtotal) > totalsEpsilon {
		return ErrTotalsMismatch
	}
	return nil
}

// ListForUser lists orders scoped to the owning principal
func (s *orderService) ListForUser(ctx context.Context, userID uuid.UUID, filter repository.OrderFilter) ([]*domain.Order, int, error) {
	filter.UserID = &userID
	return s.orderRepo.List(ctx, filter)
}

// ListAll lists orders across all users; admin only at the HTTP boundary
func (s *orderService) ListAll(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, int, error) {
	filter.UserID = nil
	return s.orderRepo.List(ctx, filter)
}

// GetByID retrieves a single order
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// UpdateStatus moves an order to a new status if the transition table
// permits it
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.transitions.Allows(current.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTransitionRefused, current.Status, status)
	}

	return s.orderRepo.UpdateStatus(ctx, id, status)
}

// RenderBill composes the bill document and WhatsApp message for an order
// from the current shop config snapshot
func (s *orderService) RenderBill(ctx context.Context, id uuid.UUID) (billing.Bill, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return billing.Bill{}, err
	}

	cfg, err := s.shopConfigRepo.GetOrCreateDefault(ctx)
	if err != nil {
		return billing.Bill{}, err
	}

	return billing.Render(order, cfg), nil
}
