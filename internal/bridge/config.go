package bridge

import (
	"fmt"
	"strings"
)

// EnvCommand is the environment variable consulted when no command is
// given on the command line.
const EnvCommand = "BRIDLE_COMMAND"

// ResolveCommand picks the child's command line once at startup.
// Explicit arguments win; otherwise EnvCommand is split on whitespace.
// The lookup function is os.Getenv outside of tests.
func ResolveCommand(args []string, getenv func(string) string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if raw := getenv(EnvCommand); raw != "" {
		if fields := strings.Fields(raw); len(fields) > 0 {
			return fields, nil
		}
	}
	return nil, fmt.Errorf("no command: pass one after -- or set %s", EnvCommand)
}
