package main

import (
	"github.com/spf13/cobra"

	"github.com/bioedlabs/controlbench/internal/client"
	"github.com/bioedlabs/controlbench/internal/tui"
)

var (
	authorServer  string
	authorSession string
)

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Start the terminal authoring wizard",
	Long: `Opens the authoring wizard against a running controlbench server.

Pass --session to join an existing group session; without it the wizard
asks whether to work individually or start a new group.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := authorServer
		if server == "" {
			server = cfg.ServerURL
		}
		return tui.Run(client.New(server), authorSession, server, logger)
	},
}

func init() {
	authorCmd.Flags().StringVar(&authorServer, "server", "", "API base URL (default from CB_SERVER_URL)")
	authorCmd.Flags().StringVar(&authorSession, "session", "", "group session token to join")
}
