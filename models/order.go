package models

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusPreparing  OrderStatus = "Preparing"
	OrderStatusComplete   OrderStatus = "Complete"
	OrderStatusCanceled   OrderStatus = "Canceled"
)

// validTransitions is the enforced order workflow. Complete and Canceled
// are terminal; nothing moves backwards.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing: {OrderStatusPreparing, OrderStatusCanceled},
	OrderStatusPreparing:  {OrderStatusComplete, OrderStatusCanceled},
	OrderStatusComplete:   {},
	OrderStatusCanceled:   {},
}

// IsValid reports whether s is one of the four known statuses.
func (s OrderStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal step of
// the order workflow.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is created at checkout with Status Processing. Status is mutated
// only by the owning restaurant, one legal transition at a time.
type Order struct {
	ID                    uint        `json:"id" gorm:"primaryKey"`
	CustomerID            uint        `json:"customer_id" gorm:"not null;index"`
	RestaurantID          uint        `json:"restaurant_id" gorm:"not null;index"`
	Status                OrderStatus `json:"status" gorm:"not null;index"`
	AdditionalText        string      `json:"additional_text"`
	EstimatedDeliveryTime string      `json:"estimated_delivery_time"`
	TotalCents            int64       `json:"total_cents" gorm:"not null"`
	OrderTime             time.Time   `json:"order_time" gorm:"not null"`
	OrderItems            []OrderItem `json:"order_items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is one order line. PriceCentsAtOrder snapshots the item price
// at checkout so later catalog edits don't rewrite order history.
type OrderItem struct {
	ID                uint  `json:"-" gorm:"primaryKey"`
	OrderID           uint  `json:"order_id" gorm:"not null;index"`
	ItemID            uint  `json:"item_id" gorm:"not null"`
	Item              Item  `json:"item" gorm:"foreignKey:ItemID"`
	Quantity          int64 `json:"quantity" gorm:"not null"`
	PriceCentsAtOrder int64 `json:"price_cents_at_order" gorm:"not null"`
}
