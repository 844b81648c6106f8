package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/imamik/nodeforge/cmd/nodeforge/handlers"
)

// Exec returns the exec command.
func Exec() *cobra.Command {
	var opts handlers.ExecOptions

	cmd := &cobra.Command{
		Use:   "exec --host HOST --user USER -- COMMAND",
		Short: "Run a command on a server over SSH",
		Long: `Exec runs a command on a server with password authentication and
prints its output. The password may also be given in NODEFORGE_SSH_PASSWORD.

Example:
  nodeforge exec --host 203.0.113.7 --user root -- uname -a`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Command = strings.Join(args, " ")
			return handlers.Exec(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Server address (required)")
	cmd.Flags().IntVar(&opts.Port, "port", 22, "SSH port")
	cmd.Flags().StringVar(&opts.User, "user", "root", "SSH user")
	cmd.Flags().StringVar(&opts.Password, "password", "", "SSH password")
	_ = cmd.MarkFlagRequired("host")

	return cmd
}
