package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultDeleteTimeout bounds a rollback.
const DefaultDeleteTimeout = 5 * time.Minute

// Rollback deletes a service after a failed run.
type Rollback struct {
	factory  CloudFactory
	clock    Clock
	recorder *Recorder
	observer Observer
	timeout  time.Duration
}

// NewRollback creates a rollback coordinator. The phase is timed with clock.
func NewRollback(factory CloudFactory, clock Clock, recorder *Recorder, observer Observer, timeout time.Duration) *Rollback {
	if timeout <= 0 {
		timeout = DefaultDeleteTimeout
	}
	if clock == nil {
		clock = RealClock()
	}
	return &Rollback{factory: factory, clock: clock, recorder: recorder, observer: observer, timeout: timeout}
}

// Run deletes serviceName with a fresh client for creds. It ignores
// cancellation of ctx and is bounded by the delete timeout instead. The
// outcome is recorded as progress; errors are never returned.
func (r *Rollback) Run(ctx context.Context, serviceName string, creds Credentials) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	start := r.clock.Now()
	LogPhaseStart(r.observer, PhaseRollback)

	err := r.deleteService(ctx, serviceName, creds)
	recordRollbackMetric(err == nil)
	if err != nil {
		LogPhaseFailed(r.observer, PhaseRollback, err)
		r.recorder.Record(ctx, serviceName, fmt.Sprintf("Failed to delete service %s: %v", serviceName, err))
		return
	}

	LogPhaseComplete(r.observer, PhaseRollback, r.clock.Now().Sub(start))
	r.recorder.Record(ctx, serviceName, fmt.Sprintf("Deleted service %s", serviceName))
}

func (r *Rollback) deleteService(ctx context.Context, serviceName string, creds Credentials) error {
	cloud, err := r.factory(ctx, creds)
	if err != nil {
		return fmt.Errorf("failed to create cloud client: %w", err)
	}
	if cloud == nil {
		return errors.New("failed to create cloud client: factory returned nil")
	}
	if err := cloud.DeleteService(ctx, serviceName); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}
