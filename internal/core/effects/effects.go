// Package effects defines effect types as data structures representing I/O operations.
// Planners in the core return effects; the app layer executes them.
package effects

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents an audit log line.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// Entity kinds addressed by backend effects.
const (
	EntityClaim     = "claim"
	EntityAgreement = "agreement"
)

// StatusUpdateEffect asks the backend to move an entity to a new status.
type StatusUpdateEffect struct {
	Entity    string // EntityClaim or EntityAgreement
	Reference string
	Status    string
	User      string
	Note      string
}

func (e StatusUpdateEffect) EffectType() string { return "status_update" }

// DataUpdateEffect asks the backend to correct claim data.
type DataUpdateEffect struct {
	Entity    string
	Reference string
	Data      map[string]any
	User      string
	Note      string
}

func (e DataUpdateEffect) EffectType() string { return "data_update" }

// Metric names.
const (
	MetricStatusUpdate = "status"
	MetricDataUpdate   = "data"
)

// MetricEffect increments a counter.
type MetricEffect struct {
	Name string
}

func (e MetricEffect) EffectType() string { return "metric" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
