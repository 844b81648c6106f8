package provisioning

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-logr/logr"
)

// Observer receives structured provisioning events.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "resolve", "launch")
	Message   string            // Human-readable message
	Resource  string            // Resource name/ID if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
	Err       error             // Set for failure events
}

// EventType represents the type of provisioning event.
type EventType string

const (
	EventPhaseStarted   EventType = "phase.started"
	EventPhaseCompleted EventType = "phase.completed"
	EventPhaseFailed    EventType = "phase.failed"

	EventResourceCreating EventType = "resource.creating"
	EventResourceCreated  EventType = "resource.created"
	EventResourceExists   EventType = "resource.exists"
	EventResourceDeleting EventType = "resource.deleting"
	EventResourceDeleted  EventType = "resource.deleted"

	// EventPoll is emitted after every server status check.
	EventPoll EventType = "poll"

	// EventWarning covers absorbed failures such as a transient lookup or a
	// sink that could not store a progress note.
	EventWarning EventType = "warning"
)

// Phases of a run.
const (
	PhaseResolve  = "resolve"
	PhaseLaunch   = "launch"
	PhaseRecord   = "record"
	PhaseRollback = "rollback"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log    logr.Logger
	fields map[string]string
}

// NewLogObserver creates an observer that writes events to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log, fields: map[string]string{}}
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	kv := make([]any, 0, 2*(len(o.fields)+len(event.Fields))+6)
	kv = append(kv, "event", string(event.Type))
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	merged := make(map[string]string, len(o.fields)+len(event.Fields))
	maps.Copy(merged, o.fields)
	maps.Copy(merged, event.Fields)
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		kv = append(kv, k, merged[k])
	}

	switch {
	case event.Type == EventPhaseFailed:
		o.log.Error(event.Err, event.Message, kv...)
	case event.Type == EventWarning && event.Err != nil:
		o.log.Info(event.Message, append(kv, "error", event.Err.Error())...)
	case event.Type == EventPoll:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(o.fields)+len(fields))
	maps.Copy(merged, o.fields)
	maps.Copy(merged, fields)
	return &LogObserver{log: o.log, fields: merged}
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: "failed",
		Err:     err,
	})
}

// LogResourceCreating logs a resource creation start event.
func LogResourceCreating(observer Observer, phase string, kind ResourceKind, name string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    phase,
		Resource: name,
		Message:  fmt.Sprintf("creating %s", kind),
		Fields:   map[string]string{"kind": string(kind)},
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, phase string, h *ResourceHandle) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: h.Name,
		Message:  fmt.Sprintf("%s created", h.Kind),
		Fields:   map[string]string{"kind": string(h.Kind), "id": h.ID},
	})
}

// LogResourceExists logs when a resource already exists.
func LogResourceExists(observer Observer, phase string, h *ResourceHandle) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Phase:    phase,
		Resource: h.Name,
		Message:  fmt.Sprintf("%s found", h.Kind),
		Fields:   map[string]string{"kind": string(h.Kind), "id": h.ID},
	})
}

// LogWarning logs an absorbed failure.
func LogWarning(observer Observer, phase, message string, err error) {
	observer.Event(Event{
		Type:    EventWarning,
		Phase:   phase,
		Message: message,
		Err:     err,
	})
}
