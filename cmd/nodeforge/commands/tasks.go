package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imamik/nodeforge/cmd/nodeforge/handlers"
)

// Tasks returns the tasks command.
func Tasks() *cobra.Command {
	var opts handlers.TasksOptions

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Show the progress trail of a service",
		Long: `Tasks prints the progress notes recorded for a service, oldest first.

Examples:
  nodeforge tasks --service billing
  nodeforge tasks --service billing -o json
  nodeforge tasks --service billing --archived`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Output != "table" && opts.Output != "json" {
				return fmt.Errorf("unsupported output format %q", opts.Output)
			}
			return handlers.Tasks(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to nodeforge configuration file")
	cmd.Flags().StringVar(&opts.Service, "service", "", "Service name (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "Output format: table or json")
	cmd.Flags().BoolVar(&opts.Archived, "archived", false, "Read the latest archived trail instead of the task store")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}
