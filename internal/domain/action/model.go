package action

import (
	"time"
)

// Kind is the category of a queued write. It partitions ordering
// guarantees: items of the same kind replay sequentially in insertion
// order, different kinds replay concurrently.
type Kind string

const (
	KindBooking     Kind = "bookings"
	KindContactForm Kind = "contact-forms"
)

// Kinds lists every known action kind in replay registration order.
func Kinds() []Kind {
	return []Kind{KindBooking, KindContactForm}
}

// Valid reports whether k is a known action kind.
func (k Kind) Valid() bool {
	switch k {
	case KindBooking, KindContactForm:
		return true
	}
	return false
}

// Endpoint returns the API path a replayed action of this kind is
// submitted to. Replay issues the identical request shape the original
// caller would have issued.
func (k Kind) Endpoint() string {
	switch k {
	case KindBooking:
		return "/api/bookings"
	case KindContactForm:
		return "/api/contact"
	}
	return ""
}

// Action is one pending mutating operation captured while the network
// was unreachable. Payload is the exact request body the application
// intended to send.
type Action struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Payload   []byte    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	Synced    bool      `json:"synced"`
	LastError string    `json:"lastError,omitempty"`
}

// SyncProgress counts the items of one replay pass.
type SyncProgress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// SyncError is one per-item replay failure, aggregated into the pass result.
type SyncError struct {
	ActionID  string    `json:"action_id"`
	Kind      Kind      `json:"kind"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncResult is the outcome of one replay pass.
type SyncResult struct {
	Success   bool          `json:"success"`
	Progress  SyncProgress  `json:"progress"`
	Errors    []SyncError   `json:"errors"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// SyncStats is the queue state exposed to the UI layer.
type SyncStats struct {
	PendingBookings     int       `json:"pendingBookings"`
	PendingContactForms int       `json:"pendingContactForms"`
	TotalPending        int       `json:"totalPending"`
	LastSync            time.Time `json:"lastSync"`
	SyncInProgress      bool      `json:"syncInProgress"`
}
