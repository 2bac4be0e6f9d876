package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// OrderStatuses lists every valid status value
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// IsValid reports whether s is a known status value
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TransitionTable maps a status to the statuses an order may move to next.
// updateStatus consults exactly one table, so tightening the rules later is
// a matter of swapping which table is in effect.
type TransitionTable map[OrderStatus][]OrderStatus

// PermissiveTransitions allows any status to follow any status, including
// moving out of cancelled. This pins the historically observed behavior.
var PermissiveTransitions = TransitionTable{
	StatusPending:        OrderStatuses,
	StatusConfirmed:      OrderStatuses,
	StatusPreparing:      OrderStatuses,
	StatusReady:          OrderStatuses,
	StatusOutForDelivery: OrderStatuses,
	StatusDelivered:      OrderStatuses,
	StatusCancelled:      OrderStatuses,
}

// StrictTransitions only allows the forward chain plus cancellation from any
// non-terminal state.
var StrictTransitions = TransitionTable{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// Allows reports whether the table permits moving from one status to another
func (t TransitionTable) Allows(from, to OrderStatus) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is a frozen copy of product data captured at order time. It is
// never recomputed from the live catalog, so historical bills stay stable
// when products change.
type OrderItem struct {
	ProductID *uuid.UUID `json:"productId,omitempty" db:"product_id"`
	Name      string     `json:"name" db:"name"`
	Unit      string     `json:"unit" db:"unit"`
	Qty       int        `json:"qty" db:"qty"`
	Price     float64    `json:"price" db:"price"`
	LineTotal float64    `json:"lineTotal" db:"line_total"`
}

// Customer is the contact snapshot captured with an order. Orders are
// self-contained for billing, there is no live customer record behind this.
type Customer struct {
	Name          string `json:"name" db:"customer_name"`
	Phone         string `json:"phone" db:"customer_phone"`
	Type          string `json:"type" db:"customer_type"` // Delivery or Pickup
	Address       string `json:"address" db:"customer_address"`
	PreferredTime string `json:"preferredTime" db:"customer_preferred_time"`
	Payment       string `json:"payment" db:"customer_payment"`
	Notes         string `json:"notes" db:"customer_notes"`
}

// Order represents a placed order
type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	OrderRef  string      `json:"orderRef" db:"order_ref"`
	UserID    *uuid.UUID  `json:"userId" db:"user_id"`
	Customer  Customer    `json:"customer"`
	Items     []OrderItem `json:"items"`
	Subtotal  float64     `json:"subtotal" db:"subtotal"`
	Message   string      `json:"message" db:"message"`
	Source    string      `json:"source" db:"source"`
	Status    OrderStatus `json:"status" db:"status"`
	IsDeleted Tombstone   `json:"isDeleted"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}
