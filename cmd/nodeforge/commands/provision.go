package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/nodeforge/cmd/nodeforge/handlers"
)

// Provision returns the provision command.
func Provision() *cobra.Command {
	var opts handlers.ProvisionOptions

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision a virtual machine from a request file",
		Long: `Provision creates one server for a service on Hetzner Cloud.

The request names the flavor (server type), image and network. A missing
network is created. The server is polled until it is running; if it fails
or does not come up in time, every server of the service is deleted again.

Each step is written to the task store and, when configured, published
to NATS and archived to object storage.

The API token is taken from the request password or HCLOUD_TOKEN.

Example request:
  serviceName: billing
  network: billing-net
  credentials:
    tenant: acme
  node:
    flavor: cx22
    image: ubuntu-24.04
    type: worker

Example:
  nodeforge provision -f request.yaml -c nodeforge.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.RequestPath, "file", "f", "", "Path to provisioning request file (required)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to nodeforge configuration file")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log poll attempts")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
