package provisioning

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-logr/logr"
)

// Workflow provisions one node per Run.
type Workflow struct {
	factory       CloudFactory
	clock         Clock
	observer      Observer
	sinks         []TaskSink
	pollInterval  time.Duration
	maxPolls      int
	deleteTimeout time.Duration
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(w *Workflow) {
		w.clock = c
	}
}

// WithObserver sets the observer events are sent to.
func WithObserver(o Observer) Option {
	return func(w *Workflow) {
		w.observer = o
	}
}

// WithSinks adds sinks progress notes are written to.
func WithSinks(sinks ...TaskSink) Option {
	return func(w *Workflow) {
		w.sinks = append(w.sinks, sinks...)
	}
}

// WithPollPolicy sets the delay between status checks and the number of
// checks after which a building server counts as timed out.
func WithPollPolicy(interval time.Duration, maxPolls int) Option {
	return func(w *Workflow) {
		w.pollInterval = interval
		w.maxPolls = maxPolls
	}
}

// WithDeleteTimeout bounds the rollback.
func WithDeleteTimeout(d time.Duration) Option {
	return func(w *Workflow) {
		w.deleteTimeout = d
	}
}

// NewWorkflow creates a workflow that builds cloud clients with factory.
func NewWorkflow(factory CloudFactory, opts ...Option) *Workflow {
	w := &Workflow{
		factory:       factory,
		clock:         RealClock(),
		observer:      NewLogObserver(logr.Discard()),
		pollInterval:  DefaultPollInterval,
		maxPolls:      DefaultMaxPolls,
		deleteTimeout: DefaultDeleteTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run provisions the node described by req.
//
// On success the service has a running server and the last progress note
// names its status. Any failure after validation is recorded, triggers
// exactly one rollback of the service and is returned as a
// *ProvisioningError wrapping the original cause.
func (w *Workflow) Run(ctx context.Context, req Request) error {
	return w.run(ctx, req, nil)
}

// RunParams decodes a scheduler parameter bag and runs it. A dbHandle entry
// that implements TaskSink receives this run's progress notes in addition
// to the configured sinks.
func (w *Workflow) RunParams(ctx context.Context, params map[string]any) error {
	req, err := RequestFromParams(params)
	if err != nil {
		recordRunMetric(KindInvalidRequest, 0)
		service, _ := params[ParamServiceName].(string)
		return &ProvisioningError{ServiceName: service, Err: fmt.Errorf("%w: %w", errInvalidRequest, err)}
	}

	var extra []TaskSink
	switch h := params[ParamDBHandle].(type) {
	case nil:
	case TaskSink:
		extra = append(extra, h)
	default:
		recordRunMetric(KindInvalidRequest, 0)
		return &ProvisioningError{
			ServiceName: req.ServiceName,
			VMName:      req.VMName(),
			Err:         fmt.Errorf("%w: parameter %q has unsupported type %T", errInvalidRequest, ParamDBHandle, h),
		}
	}
	return w.run(ctx, req, extra)
}

func (w *Workflow) run(ctx context.Context, req Request, extra []TaskSink) (err error) {
	start := w.clock.Now()
	defer func() {
		recordRunMetric(ErrorKind(err), w.clock.Now().Sub(start).Seconds())
	}()

	vmName := req.VMName()
	if err := req.Validate(); err != nil {
		return &ProvisioningError{ServiceName: req.ServiceName, VMName: vmName, Err: err}
	}

	obs := w.observer.WithFields(map[string]string{
		"service": req.ServiceName,
		"vm":      vmName,
	})
	recorder := NewRecorder(w.clock, obs, append(slices.Clone(w.sinks), extra...)...)

	server, err := w.provision(ctx, req, vmName, obs, recorder)
	if err != nil {
		recorder.Record(ctx, req.ServiceName, fmt.Sprintf(
			"Error occurred in provisioning service %s (service will be deleted): %v", req.ServiceName, err))
		NewRollback(w.factory, w.clock, recorder, obs, w.deleteTimeout).Run(ctx, req.ServiceName, req.Credentials)
		return &ProvisioningError{ServiceName: req.ServiceName, VMName: vmName, Err: err}
	}

	recorder.Record(ctx, req.ServiceName, fmt.Sprintf(
		"Provisioned VM %s with status %s", vmName, server.ServerStatus()))
	return nil
}

func (w *Workflow) provision(ctx context.Context, req Request, vmName string, obs Observer, recorder *Recorder) (*ResourceHandle, error) {
	cloud, err := w.factory(ctx, req.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud client: %w", err)
	}
	if cloud == nil {
		return nil, errors.New("failed to create cloud client: factory returned nil")
	}

	phaseStart := w.clock.Now()
	LogPhaseStart(obs, PhaseResolve)
	res, err := NewResolver(cloud, obs).Resolve(ctx, req.Node.FlavorName, req.Node.ImageName, req.NetworkName)
	if err != nil {
		LogPhaseFailed(obs, PhaseResolve, err)
		return nil, err
	}
	LogPhaseComplete(obs, PhaseResolve, w.clock.Now().Sub(phaseStart))
	if res.NetworkCreated {
		recorder.Record(ctx, req.ServiceName, fmt.Sprintf("Created network %s", res.Network.Name))
	}

	recorder.Record(ctx, req.ServiceName, fmt.Sprintf(
		"Creating VM %s with flavor %s and image %s and network %s",
		vmName, req.Node.FlavorName, req.Node.ImageName, req.NetworkName))

	phaseStart = w.clock.Now()
	LogPhaseStart(obs, PhaseLaunch)
	server, err := NewLauncher(cloud, w.clock, obs, w.pollInterval, w.maxPolls).Launch(ctx, ServerSpec{
		Name:        vmName,
		FlavorID:    res.Flavor.ID,
		ImageID:     res.Image.ID,
		NetworkID:   res.Network.ID,
		ServiceName: req.ServiceName,
		NodeType:    req.Node.NodeType,
		Tenant:      req.Credentials.Tenant,
	})
	if err != nil {
		LogPhaseFailed(obs, PhaseLaunch, err)
		return nil, err
	}
	LogPhaseComplete(obs, PhaseLaunch, w.clock.Now().Sub(phaseStart))
	return server, nil
}
