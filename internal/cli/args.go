package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireDataPath accepts exactly one <data_path>: a directory of .dat files
// or an s3://bucket/prefix location.
func RequireDataPath(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return fmt.Errorf("missing required argument: <data_path>\n\nUsage: %s\n\nExample:\n  %s ./data",
			cmd.UseLine(), cmd.CommandPath())
	case len(args) > 1:
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// OptionalDataPath is RequireDataPath for commands that fall back to
// data.path in airroutes.yaml.
func OptionalDataPath(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 arg(s), received %d", len(args))
	}
	return nil
}
