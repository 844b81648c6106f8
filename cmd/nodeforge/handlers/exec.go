package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imamik/nodeforge/internal/platform/ssh"
)

// PasswordEnvVar supplies the SSH password when no flag is given.
const PasswordEnvVar = "NODEFORGE_SSH_PASSWORD"

// ExecOptions are the inputs of the exec command.
type ExecOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	Command  string
}

var executeCommand = ssh.ExecuteCommand

// Exec handles the exec command.
func Exec(ctx context.Context, opts ExecOptions, w io.Writer) error {
	password := opts.Password
	if password == "" {
		password = os.Getenv(PasswordEnvVar)
	}
	if password == "" {
		return fmt.Errorf("no SSH password: use --password or %s", PasswordEnvVar)
	}

	lines, err := executeCommand(ctx, opts.User, password, opts.Host, opts.Port, opts.Command)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return err
}
