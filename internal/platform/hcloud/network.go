package hcloud

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/nodeforge/internal/provisioning"
	"github.com/imamik/nodeforge/internal/util/labels"
)

// CreateNetwork creates a private network with a single cloud subnet spanning
// the configured IP range. An existing network with the same name is reused
// if its IP range matches.
func (c *RealClient) CreateNetwork(ctx context.Context, name string) (_ *provisioning.ResourceHandle, err error) {
	defer observe("create_network", time.Now(), &err)

	_, ipNet, err := net.ParseCIDR(c.network.IPv4CIDR)
	if err != nil {
		return nil, fmt.Errorf("invalid network CIDR %q: %w", c.network.IPv4CIDR, err)
	}

	network, err := (&EnsureOperation[*hcloud.Network, hcloud.NetworkCreateOpts]{
		Name:         name,
		ResourceType: "network",
		Get:          c.client.Network.GetByName,
		Create:       c.client.Network.Create,
		Validate: func(n *hcloud.Network) error {
			if n.IPRange != nil && n.IPRange.String() != ipNet.String() {
				return fmt.Errorf("network %s exists with IP range %s, want %s", name, n.IPRange, ipNet)
			}
			return nil
		},
		CreateOptsMapper: func() (hcloud.NetworkCreateOpts, error) {
			return hcloud.NetworkCreateOpts{
				Name:    name,
				IPRange: ipNet,
				Subnets: []hcloud.NetworkSubnet{{
					Type:        hcloud.NetworkSubnetTypeCloud,
					IPRange:     ipNet,
					NetworkZone: hcloud.NetworkZone(c.network.Zone),
				}},
				Labels: map[string]string{labels.KeyManagedBy: labels.ManagedByNodeforge},
			}, nil
		},
	}).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return networkHandle(network), nil
}
