package models

import "time"

// FulfillmentType says how the customer receives the order.
type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

// PaymentMethod follows directly from the fulfillment choice; the shop
// takes cash only.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCashAtShop     PaymentMethod = "cash_at_shop"
)

// PaymentStatus and OrderStatus transitions happen on the admin side; this
// client only ever writes the initial values.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending_payment"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type OrderStatus string

const (
	OrderStatusPendingConfirmation OrderStatus = "pending_confirmation"
	OrderStatusConfirmed           OrderStatus = "confirmed"
	OrderStatusOutForDelivery      OrderStatus = "out_for_delivery"
	OrderStatusCompleted           OrderStatus = "completed"
	OrderStatusCancelled           OrderStatus = "cancelled"
)

// OrderItem is a denormalized snapshot of a cart line at checkout time.
// Later catalog edits must not change what an order shows.
type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
	Image       string `json:"image"`
}

// Order is written once at checkout submission and read-only afterwards
// from this client's perspective.
type Order struct {
	OrderNumber      string          `json:"order_number"`
	CustomerID       string          `json:"customer_id"`
	FulfillmentType  FulfillmentType `json:"fulfillment_type"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	Items            []OrderItem     `json:"order_items"`
	Subtotal         int64           `json:"subtotal"`
	DeliveryFee      int64           `json:"delivery_fee"`
	Total            int64           `json:"total_amount"`
	DeliveryLocation string          `json:"delivery_location"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	OrderStatus      OrderStatus     `json:"order_status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PaymentMethodFor derives the payment method from the fulfillment type.
func PaymentMethodFor(f FulfillmentType) PaymentMethod {
	if f == FulfillmentDelivery {
		return PaymentCashOnDelivery
	}
	return PaymentCashAtShop
}
