package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bioedlabs/controlbench/internal/client"
	"github.com/bioedlabs/controlbench/internal/service"
)

var (
	cleanupServer  string
	cleanupConfirm string
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [action]",
	Short: "Run a submission-store cleanup action",
	Long: `Runs one cleanup action against a running server. Without an action it
prints the analysis (what each action would delete) and changes nothing.

Actions: delete-all (needs --confirm), delete-without-sessionid,
delete-test-data, delete-old-data, analyze-only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(serverURL(cleanupServer))

		if len(args) == 0 || args[0] == service.ActionAnalyzeOnly {
			analysis, err := c.Analyze()
			if err != nil {
				return err
			}
			return printJSON(analysis)
		}

		result, err := c.Cleanup(args[0], cleanupConfirm)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return printJSON(result)
	},
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupServer, "server", "", "API base URL (default from CB_SERVER_URL)")
	cleanupCmd.Flags().StringVar(&cleanupConfirm, "confirm", "", "confirmation code for delete-all")
}

func serverURL(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.ServerURL
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
