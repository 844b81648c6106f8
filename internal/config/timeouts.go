package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	PollInterval      time.Duration // Delay between two server status checks
	PollMaxAttempts   int           // Status checks before a build counts as timed out
	Delete            time.Duration // Timeout for the rollback delete
	SSHDial           time.Duration // Timeout for establishing an SSH connection
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - NODEFORGE_POLL_INTERVAL (default: 60s)
//   - NODEFORGE_POLL_MAX_ATTEMPTS (default: 20)
//   - NODEFORGE_TIMEOUT_DELETE (default: 5m)
//   - NODEFORGE_TIMEOUT_SSH_DIAL (default: 30s)
//   - NODEFORGE_RETRY_MAX_ATTEMPTS (default: 5)
//   - NODEFORGE_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      parseDuration("NODEFORGE_POLL_INTERVAL", 60*time.Second),
		PollMaxAttempts:   parseInt("NODEFORGE_POLL_MAX_ATTEMPTS", 20),
		Delete:            parseDuration("NODEFORGE_TIMEOUT_DELETE", 5*time.Minute),
		SSHDial:           parseDuration("NODEFORGE_TIMEOUT_SSH_DIAL", 30*time.Second),
		RetryMaxAttempts:  parseInt("NODEFORGE_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("NODEFORGE_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a positive duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses a positive integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		return defaultVal
	}

	return i
}

// TestTimeouts returns short timeouts for use in tests.
func TestTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      10 * time.Millisecond,
		PollMaxAttempts:   3,
		Delete:            5 * time.Second,
		SSHDial:           5 * time.Second,
		RetryMaxAttempts:  3,
		RetryInitialDelay: 10 * time.Millisecond,
	}
}
