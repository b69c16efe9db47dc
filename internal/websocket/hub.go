package websocket

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventPropertyChanged  = "property.changed"
	EventUnitChanged      = "unit.changed"
	EventTenantChanged    = "tenant.changed"
	EventLeaseChanged     = "lease.changed"
	EventPaymentRecorded  = "payment.recorded"
	EventPaymentChanged   = "payment.changed"
	EventPaymentPaid      = "payment.paid"
	EventReceiptIssued    = "receipt.issued"
	EventSettingsUpdated  = "settings.updated"
	EventSnapshotRestored = "snapshot.restored"
)

// Event is pushed to every connected operator after a ledger change commits.
type Event struct {
	Type     string    `json:"type"`
	EntityID string    `json:"entity_id,omitempty"`
	At       time.Time `json:"at"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]string
	dropped int
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]string),
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = userID
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast never blocks; a client whose buffer is full misses the event.
func (h *Hub) Broadcast(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			h.dropped++
		}
	}
}
