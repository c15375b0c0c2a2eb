package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/logging"
	"github.com/vvka-141/airroutes/internal/schema"
)

type completionFunc = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

var (
	sslModes    = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}
	authMethods = []string{"standard", "aws-iam", "google-iam", "azure"}
	logFormats  = []string{logging.FormatConsole, logging.FormatJSON}
)

var (
	completeSSLModes    = completeFrom(func() []string { return sslModes })
	completeAuthMethods = completeFrom(func() []string { return authMethods })
	completeLogFormats  = completeFrom(func() []string { return logFormats })
	// Table names come in load order.
	completeTableNames = completeFrom(schema.Names)
)

// completeFrom offers the values starting with the typed prefix, ignoring case.
func completeFrom(values func() []string) completionFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return matchPrefix(values(), toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func matchPrefix(values []string, prefix string) []string {
	var matches []string
	for _, v := range values {
		if len(v) >= len(prefix) && strings.EqualFold(v[:len(prefix)], prefix) {
			matches = append(matches, v)
		}
	}
	return matches
}

func init() {
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", completeLogFormats)
}
