package provisioning

import (
	"context"
	"fmt"
	"time"
)

// Default poll policy.
const (
	DefaultPollInterval = 60 * time.Second
	DefaultMaxPolls     = 20
)

// Launcher starts a server and polls it until it leaves the building state.
type Launcher struct {
	cloud    Cloud
	clock    Clock
	observer Observer
	interval time.Duration
	maxPolls int
}

// NewLauncher creates a launcher. Non-positive interval or maxPolls fall back
// to the defaults.
func NewLauncher(cloud Cloud, clock Clock, observer Observer, interval time.Duration, maxPolls int) *Launcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxPolls <= 0 {
		maxPolls = DefaultMaxPolls
	}
	return &Launcher{
		cloud:    cloud,
		clock:    clock,
		observer: observer,
		interval: interval,
		maxPolls: maxPolls,
	}
}

// Launch starts the server described by spec and waits for it.
//
// It returns the last observed handle together with a LaunchError when the
// server could not be started or reached the error state, and a TimeoutError
// when it was still building after the last status check. A server reported
// as active or unknown is returned without error.
func (l *Launcher) Launch(ctx context.Context, spec ServerSpec) (*ResourceHandle, error) {
	server, err := l.cloud.StartVM(ctx, spec)
	if err != nil {
		return nil, &LaunchError{VMName: spec.Name, Err: err}
	}
	if server == nil {
		return nil, &LaunchError{VMName: spec.Name, Detail: "provider returned no server"}
	}
	server.Kind = KindServer
	LogResourceCreated(l.observer, PhaseLaunch, server)

	return l.poll(ctx, spec.Name, server)
}

func (l *Launcher) poll(ctx context.Context, name string, server *ResourceHandle) (*ResourceHandle, error) {
	retries := 0
	for server.ServerStatus() == StatusBuilding && retries < l.maxPolls {
		if err := l.clock.Sleep(ctx, l.interval); err != nil {
			recordPollMetric(retries)
			return server, fmt.Errorf("polling server %s: %w", name, err)
		}
		retries++

		refreshed, err := l.cloud.GetServerByName(ctx, name)
		switch {
		case err != nil:
			LogWarning(l.observer, PhaseLaunch, "status refresh failed, keeping last known state",
				fmt.Errorf("%w: %w", ErrTransientLookup, err))
		case refreshed == nil:
			LogWarning(l.observer, PhaseLaunch, "server not visible yet, keeping last known state",
				fmt.Errorf("%w: server %s not found", ErrTransientLookup, name))
		default:
			refreshed.Kind = KindServer
			server = refreshed
		}

		l.observer.Event(Event{
			Type:     EventPoll,
			Phase:    PhaseLaunch,
			Resource: name,
			Message:  "status checked",
			Fields: map[string]string{
				"attempt": fmt.Sprintf("%d/%d", retries, l.maxPolls),
				"status":  server.Status,
			},
		})
	}
	recordPollMetric(retries)

	switch server.ServerStatus() {
	case StatusBuilding:
		return server, &TimeoutError{Retries: retries, Elapsed: time.Duration(retries) * l.interval}
	case StatusError:
		detail := server.Detail
		if detail == "" {
			detail = "server entered error state"
		}
		return server, &LaunchError{VMName: name, Detail: detail}
	default:
		return server, nil
	}
}
