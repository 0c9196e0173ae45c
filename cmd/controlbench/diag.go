package main

import (
	"github.com/spf13/cobra"

	"github.com/bioedlabs/controlbench/internal/client"
)

var diagServer string

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Print submission-store diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL(diagServer))
		d, err := c.Diagnostics()
		if err != nil {
			return err
		}
		return printJSON(d)
	},
}

func init() {
	diagCmd.Flags().StringVar(&diagServer, "server", "", "API base URL (default from CB_SERVER_URL)")
}
