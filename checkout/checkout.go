// Package checkout turns a cart into a placed order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"freshcart/models"
	"freshcart/orders"
	"freshcart/toast"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnknownDelivery = errors.New("unknown delivery option")
	ErrUnknownPayment  = errors.New("unknown payment method")
)

var DeliveryOptions = []models.DeliveryOption{
	{ID: "express", Title: "Express Delivery", Price: 50, Time: "10 minutes"},
	{ID: "standard", Title: "Standard Delivery", Price: 20, Time: "30 minutes"},
}

var PaymentMethods = []models.PaymentMethod{
	{ID: "cash", Title: "Cash on Delivery", Icon: "wallet"},
	{ID: "upi", Title: "UPI", Icon: "smartphone"},
	{ID: "wallet", Title: "Wallet", Icon: "credit-card"},
}

// Cart is the view of the shopper's cart checkout needs. Checkout runs fn on
// one consistent snapshot and clears the cart only when fn succeeds.
type Cart interface {
	Total() float64
	Checkout(fn func(items []models.CartItem, total float64) error) error
}

type Notifier interface {
	Success(title string, opts ...toast.Options) string
}

// Starter starts the delivery simulation of a saved order.
type Starter interface {
	Start(ctx context.Context, orderID string) error
}

func Delivery(id string) (models.DeliveryOption, error) {
	if id == "" {
		return DeliveryOptions[0], nil
	}
	for _, d := range DeliveryOptions {
		if d.ID == id {
			return d, nil
		}
	}
	return models.DeliveryOption{}, fmt.Errorf("%w %q", ErrUnknownDelivery, id)
}

func Payment(id string) (models.PaymentMethod, error) {
	if id == "" {
		return PaymentMethods[0], nil
	}
	for _, p := range PaymentMethods {
		if p.ID == id {
			return p, nil
		}
	}
	return models.PaymentMethod{}, fmt.Errorf("%w %q", ErrUnknownPayment, id)
}

type Quote struct {
	Delivery    models.DeliveryOption `json:"delivery"`
	Subtotal    float64               `json:"subtotal"`
	DeliveryFee float64               `json:"deliveryFee"`
	Total       float64               `json:"total"`
}

// QuoteFor prices the cart with the chosen delivery option. An empty id
// selects the default option.
func QuoteFor(c Cart, deliveryID string) (Quote, error) {
	return quote(c.Total(), deliveryID)
}

func quote(subtotal float64, deliveryID string) (Quote, error) {
	d, err := Delivery(deliveryID)
	if err != nil {
		return Quote{}, err
	}
	sub := round2(subtotal)
	return Quote{
		Delivery:    d,
		Subtotal:    sub,
		DeliveryFee: d.Price,
		Total:       round2(sub + d.Price),
	}, nil
}

type Request struct {
	DeliveryOption string `json:"deliveryOption"`
	PaymentMethod  string `json:"paymentMethod"`
	Address        string `json:"address"`
	Instructions   string `json:"instructions"`
	Contactless    *bool  `json:"contactless"`
}

type Service struct {
	Orders  orders.Repository
	Tracker Starter
	Clock   clockwork.Clock
	Logger  *zap.Logger
}

// PlaceOrder saves an order built from the cart and starts tracking it.
// The order is built from a single cart snapshot and the cart is cleared
// only after the order is stored. No payment is taken.
func (s *Service) PlaceOrder(ctx context.Context, session string, c Cart, notify Notifier, req Request) (models.OrderConfirmation, error) {
	if _, err := Delivery(req.DeliveryOption); err != nil {
		return models.OrderConfirmation{}, err
	}
	pay, err := Payment(req.PaymentMethod)
	if err != nil {
		return models.OrderConfirmation{}, err
	}

	var placed models.OrderDetails
	err = c.Checkout(func(items []models.CartItem, total float64) error {
		if len(items) == 0 {
			return ErrEmptyCart
		}
		q, err := quote(total, req.DeliveryOption)
		if err != nil {
			return err
		}
		o := s.build(session, items, q, pay, req)
		if err := s.Orders.Save(ctx, o); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		if err := s.Tracker.Start(ctx, o.ID); err != nil {
			s.Logger.Warn("start tracking", zap.String("order", o.ID), zap.Error(err))
		}
		notify.Success("Order placed successfully!", toast.Options{
			Description: fmt.Sprintf("Your order #%s has been confirmed", o.ID),
			Action:      &toast.Action{Label: "Track", Target: "/track-order/" + o.ID},
		})
		placed = o
		return nil
	})
	if err != nil {
		return models.OrderConfirmation{}, err
	}

	s.Logger.Info("order placed",
		zap.String("order", placed.ID),
		zap.String("session", session),
		zap.Int("items", placed.ItemCount()),
		zap.Float64("total", placed.Total))
	return orders.Confirmation(placed), nil
}

func (s *Service) build(session string, items []models.CartItem, q Quote, pay models.PaymentMethod, req Request) models.OrderDetails {
	now := s.Clock.Now()
	id := uuid.NewString()

	o := orders.Template(id)
	o.Status = orders.StatusOrderPlaced.Slug()
	o.ETA = q.Delivery.Time
	o.Progress = orders.NewProgress(now)
	o.Subtotal = q.Subtotal
	o.DeliveryFee = q.DeliveryFee
	o.Total = q.Total
	o.DeliveryOption = q.Delivery.ID
	o.PaymentMethod = pay.ID
	o.TrackingNumber = "TRK-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:10])
	o.PlacedAt = now
	o.Session = session
	if req.Address != "" {
		o.DeliveryAddress = req.Address
	}
	if req.Instructions != "" {
		o.Instructions = req.Instructions
	}
	if req.Contactless != nil {
		o.Contactless = *req.Contactless
	}
	for _, it := range items {
		o.Items = append(o.Items, models.OrderLine{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Weight:    it.Product.SelectedWeight,
			Quantity:  it.Quantity,
			Price:     round2(it.Product.FinalPrice()),
			Image:     it.Product.Image,
		})
	}
	return o
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
