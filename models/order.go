package models

import "time"

// ProgressStep is one stage of a delivery.
type ProgressStep struct {
	ID        int    `json:"id" bson:"id" validate:"gte=1"`
	Status    string `json:"status" bson:"status" validate:"required"`
	Time      string `json:"time" bson:"time"`
	Completed bool   `json:"completed" bson:"completed"`
	Icon      string `json:"icon" bson:"icon" validate:"required"`
}

// DriverInfo describes the courier assigned to an order.
type DriverInfo struct {
	Name    string `json:"name" bson:"name" validate:"required"`
	Vehicle string `json:"vehicle" bson:"vehicle"`
	Image   string `json:"image" bson:"image" validate:"required,url"`
	Phone   string `json:"phone" bson:"phone" validate:"required,e164"`
}

// OrderLine is a purchased cart line frozen at checkout.
type OrderLine struct {
	ProductID string  `json:"id" bson:"id" validate:"required"`
	Name      string  `json:"name" bson:"name" validate:"required"`
	Weight    string  `json:"weight,omitempty" bson:"weight,omitempty"`
	Quantity  int     `json:"quantity" bson:"quantity" validate:"gte=1"`
	Price     float64 `json:"price" bson:"price" validate:"gt=0"`
	Image     string  `json:"image" bson:"image"`
}

// OrderDetails is a placed order together with its delivery tracking state.
type OrderDetails struct {
	ID              string         `json:"id" bson:"_id" validate:"required"`
	Status          string         `json:"status" bson:"status"`
	ETA             string         `json:"eta" bson:"eta"`
	Distance        string         `json:"distance" bson:"distance"`
	Progress        []ProgressStep `json:"progress" bson:"progress" validate:"min=1,dive"`
	Driver          DriverInfo     `json:"driver" bson:"driver"`
	Instructions    string         `json:"instructions" bson:"instructions"`
	Contactless     bool           `json:"contactless" bson:"contactless"`
	MapImage        string         `json:"mapImage" bson:"mapImage" validate:"required,url"`
	Items           []OrderLine    `json:"items" bson:"items" validate:"dive"`
	Subtotal        float64        `json:"subtotal" bson:"subtotal"`
	DeliveryFee     float64        `json:"deliveryFee" bson:"deliveryFee"`
	Total           float64        `json:"total" bson:"total"`
	DeliveryOption  string         `json:"deliveryOption,omitempty" bson:"deliveryOption,omitempty"`
	PaymentMethod   string         `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	DeliveryAddress string         `json:"deliveryAddress" bson:"deliveryAddress"`
	TrackingNumber  string         `json:"trackingNumber" bson:"trackingNumber"`
	PlacedAt        time.Time      `json:"placedAt" bson:"placedAt"`
	Session         string         `json:"-" bson:"session,omitempty"`
}

// ItemCount sums quantities over the order lines.
func (o OrderDetails) ItemCount() int {
	n := 0
	for _, l := range o.Items {
		n += l.Quantity
	}
	return n
}

// OrderSummary is the compact form shown in the orders list.
type OrderSummary struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	Items          int       `json:"items"`
	Total          float64   `json:"total"`
	Status         string    `json:"status"`
	TrackingNumber string    `json:"trackingNumber"`
}

// DeliveryOption is a selectable delivery speed with a flat fee.
type DeliveryOption struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Time  string  `json:"time"`
}

// PaymentMethod is a selectable (never captured) payment method.
type PaymentMethod struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// OrderConfirmation is returned after a successful checkout.
type OrderConfirmation struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Items        int       `json:"items"`
	Total        float64   `json:"total"`
	Address      string    `json:"address"`
	DeliveryTime string    `json:"deliveryTime"`
	Path         string    `json:"path"`
	TrackPath    string    `json:"trackPath"`
}

// OrderEvent announces a tracking step that just completed.
type OrderEvent struct {
	OrderID     string    `json:"orderId"`
	StepID      int       `json:"stepId"`
	Status      string    `json:"status"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon"`
	Delivered   bool      `json:"delivered"`
	At          time.Time `json:"at"`
}
