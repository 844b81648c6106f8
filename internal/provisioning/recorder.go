package provisioning

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Recorder appends progress notes to every configured sink.
// A sink failure is logged and counted but never returned.
type Recorder struct {
	sinks    []TaskSink
	clock    Clock
	observer Observer
}

// NewRecorder creates a recorder writing to sinks.
func NewRecorder(clock Clock, observer Observer, sinks ...TaskSink) *Recorder {
	return &Recorder{sinks: sinks, clock: clock, observer: observer}
}

// Record stores message for serviceName. Notes are written even when ctx
// has been cancelled, so the trail of an aborted run stays complete.
func (r *Recorder) Record(ctx context.Context, serviceName, message string) {
	rec := TaskStatusRecord{
		ID:          uuid.NewString(),
		ServiceName: serviceName,
		Message:     message,
		Timestamp:   r.clock.Now().UTC(),
	}

	ctx = context.WithoutCancel(ctx)
	for _, sink := range r.sinks {
		if err := sink.AppendTaskStatus(ctx, rec); err != nil {
			recordRecorderFailure()
			LogWarning(r.observer, PhaseRecord, "failed to store progress note",
				fmt.Errorf("sink %T: %w", sink, err))
		}
	}
}
