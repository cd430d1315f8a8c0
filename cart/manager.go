// Package cart keeps each shopper's cart in memory and mirrors it to a
// snapshot store after every change.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"freshcart/models"
	"freshcart/schemas"
	"freshcart/toast"
)

// SnapshotKey is where the default session's cart is stored.
const SnapshotKey = "cart"

const persistTimeout = 2 * time.Second

// Notifier is the subset of the toaster the cart reports to.
type Notifier interface {
	Success(title string, opts ...toast.Options) string
	Info(title string, opts ...toast.Options) string
}

// Manager owns one cart. All mutations are serialized, and each one raises
// its notification before the next mutation starts.
type Manager struct {
	mu     sync.Mutex
	key    string
	items  []models.CartItem
	store  SnapshotStore
	notify Notifier
	logger *zap.Logger
}

func NewManager(key string, store SnapshotStore, notify Notifier, logger *zap.Logger) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		key:    key,
		items:  []models.CartItem{},
		store:  store,
		notify: notify,
		logger: logger.With(zap.String("cart", key)),
	}
}

// Restore replaces the in-memory cart with the stored snapshot. A missing,
// unreadable or malformed snapshot leaves the cart empty.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = []models.CartItem{}
	data, err := m.store.Load(ctx, m.key)
	if err != nil {
		m.logger.Warn("read cart snapshot", zap.Error(err))
		return
	}
	if len(data) == 0 {
		return
	}
	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		m.logger.Warn("malformed cart snapshot", zap.Error(err))
		return
	}
	for _, it := range items {
		if err := schemas.CartLine(it); err != nil {
			m.logger.Warn("dropping invalid cart line", zap.Error(err))
			continue
		}
		m.items = append(m.items, it)
	}
}

// AddToCart adds one unit of product. Lines are identified by product id
// and selected weight.
func (m *Manager) AddToCart(p models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	again := false
	for i := range m.items {
		if m.items[i].Product.ID == p.ID && m.items[i].Product.SelectedWeight == p.SelectedWeight {
			m.items[i].Quantity++
			again = true
			break
		}
	}
	if !again {
		m.items = append(m.items, models.CartItem{Product: p, Quantity: 1})
	}
	m.persist()

	name := displayName(p)
	if again {
		m.notify.Success(fmt.Sprintf("Added another %s to cart", name))
		return
	}
	m.notify.Success(fmt.Sprintf("Added %s to cart", name))
}

// RemoveFromCart drops the first line holding productID.
func (m *Manager) RemoveFromCart(productID string) {
	m.removeWhere(func(it models.CartItem) bool { return it.Product.ID == productID })
}

// RemoveLine drops the line for one weight variant.
func (m *Manager) RemoveLine(productID, weight string) {
	m.removeWhere(func(it models.CartItem) bool {
		return it.Product.ID == productID && it.Product.SelectedWeight == weight
	})
}

func (m *Manager) removeWhere(match func(models.CartItem) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.index(match)
	if idx < 0 {
		return
	}
	removed := m.items[idx]
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	m.persist()
	m.notify.Info(fmt.Sprintf("Removed %s from cart", removed.Product.Name))
}

// UpdateQuantity sets the quantity of the first line holding productID.
// A quantity of zero or less removes it.
func (m *Manager) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		m.RemoveFromCart(productID)
		return
	}
	m.setQuantity(func(it models.CartItem) bool { return it.Product.ID == productID }, quantity)
}

func (m *Manager) UpdateLine(productID, weight string, quantity int) {
	if quantity <= 0 {
		m.RemoveLine(productID, weight)
		return
	}
	m.setQuantity(func(it models.CartItem) bool {
		return it.Product.ID == productID && it.Product.SelectedWeight == weight
	}, quantity)
}

func (m *Manager) setQuantity(match func(models.CartItem) bool, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.index(match)
	if idx < 0 {
		return
	}
	m.items[idx].Quantity = quantity
	m.persist()
}

func (m *Manager) ClearCart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clear()
}

func (m *Manager) clear() {
	m.items = []models.CartItem{}
	m.persist()
	m.notify.Info("Cart cleared")
}

// Checkout hands fn the current lines and their total and empties the cart
// only when fn succeeds. The cart is locked for the whole call, so fn must
// not use the manager.
func (m *Manager) Checkout(fn func(items []models.CartItem, total float64) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fn(append([]models.CartItem{}, m.items...), m.total()); err != nil {
		return err
	}
	m.clear()
	return nil
}

// Total sums discounted unit prices times quantities.
func (m *Manager) Total() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total()
}

func (m *Manager) total() float64 {
	total := 0.0
	for _, it := range m.items {
		total += it.Subtotal()
	}
	return total
}

// Count sums quantities.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.items {
		n += it.Quantity
	}
	return n
}

// Items returns a copy of the lines in insertion order.
func (m *Manager) Items() []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CartItem{}, m.items...)
}

func (m *Manager) View() models.CartView {
	return models.CartView{
		Items: m.Items(),
		Count: m.Count(),
		Total: math.Round(m.Total()*100) / 100,
	}
}

func (m *Manager) index(match func(models.CartItem) bool) int {
	for i, it := range m.items {
		if match(it) {
			return i
		}
	}
	return -1
}

// persist must be called with mu held. Failures only get logged.
func (m *Manager) persist() {
	data, err := json.Marshal(m.items)
	if err != nil {
		m.logger.Error("encode cart snapshot", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.store.Save(ctx, m.key, data); err != nil {
		m.logger.Warn("write cart snapshot", zap.Error(err))
	}
}

func displayName(p models.Product) string {
	if p.SelectedWeight != "" {
		return fmt.Sprintf("%s (%s)", p.Name, p.SelectedWeight)
	}
	return p.Name
}
