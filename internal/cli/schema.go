package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the DDL that 'airroutes init' applies",
	Long: `Print the CREATE TABLE statements for countries, airlines, airports,
planes and routes. The output can be piped into psql:

  airroutes schema | psql -d airroutes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), schema.DDL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
