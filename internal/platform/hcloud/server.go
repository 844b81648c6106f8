package hcloud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/nodeforge/internal/provisioning"
	"github.com/imamik/nodeforge/internal/util/labels"
	"github.com/imamik/nodeforge/internal/util/retry"
)

// Provider-neutral server states reported in ResourceHandle.Status.
const (
	StatusBuild   = "BUILD"
	StatusActive  = "ACTIVE"
	StatusError   = "ERROR"
	StatusUnknown = "UNKNOWN"
)

// StartVM creates a server and returns immediately without waiting for the
// create action; the caller polls GetServerByName for progress.
func (c *RealClient) StartVM(ctx context.Context, spec provisioning.ServerSpec) (_ *provisioning.ResourceHandle, err error) {
	defer observe("create_server", time.Now(), &err)

	opts, err := c.serverCreateOpts(spec)
	if err != nil {
		return nil, err
	}

	var result hcloud.ServerCreateResult
	err = retry.WithExponentialBackoff(ctx, func() error {
		var createErr error
		result, _, createErr = c.client.Server.Create(ctx, opts)
		if createErr != nil {
			if isInvalidParameter(createErr) {
				return retry.Fatal(createErr)
			}
			return createErr
		}
		return nil
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
	if err != nil {
		return nil, fmt.Errorf("failed to create server %s: %w", spec.Name, err)
	}
	if result.Server == nil {
		return nil, fmt.Errorf("failed to create server %s: empty response", spec.Name)
	}
	return serverHandle(result.Server), nil
}

func (c *RealClient) serverCreateOpts(spec provisioning.ServerSpec) (hcloud.ServerCreateOpts, error) {
	flavorID, err := parseID("flavor", spec.FlavorID)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}
	imageID, err := parseID("image", spec.ImageID)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	opts := hcloud.ServerCreateOpts{
		Name:       spec.Name,
		ServerType: &hcloud.ServerType{ID: flavorID},
		Image:      &hcloud.Image{ID: imageID},
		Labels: labels.NewLabelBuilder(spec.ServiceName).
			WithNodeType(spec.NodeType).
			WithTenantIfSet(spec.Tenant).
			Build(),
		StartAfterCreate: hcloud.Ptr(true),
	}

	if spec.NetworkID != "" {
		networkID, err := parseID("network", spec.NetworkID)
		if err != nil {
			return hcloud.ServerCreateOpts{}, err
		}
		opts.Networks = []*hcloud.Network{{ID: networkID}}
	}
	if c.location != "" {
		opts.Location = &hcloud.Location{Name: c.location}
	}
	return opts, nil
}

// DeleteService deletes every server labelled with the service name.
// Servers already gone are not an error.
func (c *RealClient) DeleteService(ctx context.Context, serviceName string) (err error) {
	defer observe("delete_service", time.Now(), &err)

	servers, err := c.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labels.SelectorForService(serviceName)},
	})
	if err != nil {
		return fmt.Errorf("failed to list servers of service %s: %w", serviceName, err)
	}

	var errs []error
	for _, server := range servers {
		if err := c.deleteServer(ctx, server.Name); err != nil {
			errs = append(errs, fmt.Errorf("server %s: %w", server.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (c *RealClient) deleteServer(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Server]{
		Name:         name,
		ResourceType: "server",
		Get:          c.client.Server.GetByName,
		Delete: func(ctx context.Context, server *hcloud.Server) (*hcloud.Response, error) {
			_, resp, err := c.client.Server.DeleteWithResult(ctx, server)
			return resp, err
		},
	}).Execute(ctx, c)
}

// serverHandle converts an hcloud server into a provider-neutral handle.
func serverHandle(s *hcloud.Server) *provisioning.ResourceHandle {
	status, detail := mapServerStatus(s.Status)
	return &provisioning.ResourceHandle{
		ID:     idString(s.ID),
		Name:   s.Name,
		Kind:   provisioning.KindServer,
		Status: status,
		Detail: detail,
	}
}

func mapServerStatus(status hcloud.ServerStatus) (string, string) {
	switch status {
	case hcloud.ServerStatusRunning:
		return StatusActive, ""
	// A freshly created server may report off before it starts.
	case hcloud.ServerStatusInitializing,
		hcloud.ServerStatusStarting,
		hcloud.ServerStatusOff,
		hcloud.ServerStatusRebuilding,
		hcloud.ServerStatusMigrating:
		return StatusBuild, ""
	case hcloud.ServerStatusStopping,
		hcloud.ServerStatusDeleting:
		return StatusError, fmt.Sprintf("server is %s", status)
	default:
		return StatusUnknown, ""
	}
}
