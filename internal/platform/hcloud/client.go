package hcloud

import (
	"context"
	"errors"
	"os"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/nodeforge/internal/config"
	"github.com/imamik/nodeforge/internal/provisioning"
)

// ApplicationName is sent as part of the API user agent.
const ApplicationName = "nodeforge"

// TokenEnvVar is consulted when a request carries no password.
const TokenEnvVar = "HCLOUD_TOKEN"

// RealClient implements provisioning.Cloud using the Hetzner Cloud API.
type RealClient struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
	network  config.NetworkConfig
	location string
}

var _ provisioning.Cloud = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// WithNetworkDefaults sets the IP range and zone of created networks.
func WithNetworkDefaults(n config.NetworkConfig) ClientOption {
	return func(c *RealClient) {
		c.network = n
	}
}

// WithLocation places new servers in the given location.
func WithLocation(location string) ClientOption {
	return func(c *RealClient) {
		c.location = location
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token, version string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client: hcloud.NewClient(
			hcloud.WithToken(token),
			hcloud.WithApplication(ApplicationName, version),
		),
		timeouts: config.LoadTimeouts(),
		network:  config.NetworkConfig{IPv4CIDR: "10.0.0.0/16", Zone: "eu-central"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCloudFactory returns a CloudFactory that builds one RealClient per
// request. The credential password is the API token; when it is empty the
// HCLOUD_TOKEN environment variable is used instead.
func NewCloudFactory(version string, opts ...ClientOption) provisioning.CloudFactory {
	return func(_ context.Context, creds provisioning.Credentials) (provisioning.Cloud, error) {
		token := creds.Password
		if token == "" {
			token = os.Getenv(TokenEnvVar)
		}
		if token == "" {
			return nil, errors.New("no API token: set a password on the request or " + TokenEnvVar)
		}
		return NewRealClient(token, version, opts...), nil
	}
}
