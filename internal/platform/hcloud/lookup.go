package hcloud

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/nodeforge/internal/provisioning"
)

// GetFlavorByName returns the server type with the given name.
func (c *RealClient) GetFlavorByName(ctx context.Context, name string) (_ *provisioning.ResourceHandle, err error) {
	defer observe("get_server_type", time.Now(), &err)

	serverType, _, err := c.client.ServerType.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return nil, nil
	}
	return &provisioning.ResourceHandle{
		ID:   idString(serverType.ID),
		Name: serverType.Name,
		Kind: provisioning.KindFlavor,
	}, nil
}

// GetImageByName returns the newest image with the given name.
// Names are not unique across architectures; the most recent match wins.
func (c *RealClient) GetImageByName(ctx context.Context, name string) (_ *provisioning.ResourceHandle, err error) {
	defer observe("get_image", time.Now(), &err)

	images, _, err := c.client.Image.List(ctx, hcloud.ImageListOpts{
		Name: name,
		Sort: []string{"created:desc"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	if len(images) == 0 {
		return nil, nil
	}
	return &provisioning.ResourceHandle{
		ID:   idString(images[0].ID),
		Name: images[0].Name,
		Kind: provisioning.KindImage,
	}, nil
}

// GetNetworkByName returns the network with the given name.
func (c *RealClient) GetNetworkByName(ctx context.Context, name string) (_ *provisioning.ResourceHandle, err error) {
	defer observe("get_network", time.Now(), &err)

	network, _, err := c.client.Network.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get network: %w", err)
	}
	if network == nil {
		return nil, nil
	}
	return networkHandle(network), nil
}

// GetServerByName returns the server with the given name and its mapped status.
func (c *RealClient) GetServerByName(ctx context.Context, name string) (_ *provisioning.ResourceHandle, err error) {
	defer observe("get_server", time.Now(), &err)

	server, _, err := c.client.Server.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	if server == nil {
		return nil, nil
	}
	return serverHandle(server), nil
}

func networkHandle(n *hcloud.Network) *provisioning.ResourceHandle {
	return &provisioning.ResourceHandle{
		ID:   idString(n.ID),
		Name: n.Name,
		Kind: provisioning.KindNetwork,
	}
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(kind, id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q: %w", kind, id, err)
	}
	return n, nil
}
