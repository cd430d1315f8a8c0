package hub

import (
	"encoding/json"

	"freshcart/models"
	"freshcart/toast"
)

// Envelope is the frame sent to websocket clients.
type Envelope struct {
	Type  string             `json:"type"`
	Toast *toast.Toast       `json:"toast,omitempty"`
	ID    string             `json:"id,omitempty"`
	Event *models.OrderEvent `json:"event,omitempty"`
	Order any                `json:"order,omitempty"`
}

func Encode(e Envelope) []byte {
	data, _ := json.Marshal(e)
	return data
}

// ToastSink pushes toasts to a room.
type ToastSink struct {
	Hub  *Hub
	Room string
}

func (s ToastSink) Show(t toast.Toast) {
	s.Hub.Broadcast(s.Room, Encode(Envelope{Type: "toast", Toast: &t}))
}

func (s ToastSink) Dismiss(id string) {
	s.Hub.Broadcast(s.Room, Encode(Envelope{Type: "dismiss", ID: id}))
}

// PublishOrderEvent broadcasts an order event to the order's room.
func (h *Hub) PublishOrderEvent(ev models.OrderEvent) {
	h.Broadcast(OrderRoom(ev.OrderID), Encode(Envelope{Type: "order", Event: &ev}))
}
