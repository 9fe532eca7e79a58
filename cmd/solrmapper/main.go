package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openark/solrmapper/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:           "solrmapper",
		Short:         "Schema-mapped indexing and search service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newReindexCmd())
	root.AddCommand(newClearCmd())
	root.AddCommand(newPingCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("solrmapper %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
