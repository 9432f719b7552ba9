package domain

import "time"

// EventType defines the category of a dispatch event.
type EventType string

const (
	EventDispatch EventType = "dispatch"
	EventReduce   EventType = "reduce"
	EventNotify   EventType = "notify"
)

// DispatchEvent describes one step of a dispatch as seen by lifecycle hooks.
type DispatchEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	StoreID     string    `json:"store_id"`
	Action      any       `json:"action"`
	Depth       int       `json:"depth"`                 // re-entrant dispatch depth, 1 for top-level
	Changed     bool      `json:"changed"`               // set on EventReduce
	Subscribers int       `json:"subscribers,omitempty"` // set on EventNotify
}

// LifecycleHooks defines callbacks for store observability.
// Hooks run synchronously inside Dispatch and must not dispatch themselves.
type LifecycleHooks struct {
	OnDispatch func(*DispatchEvent)
	OnReduce   func(*DispatchEvent)
	OnNotify   func(*DispatchEvent)
}
