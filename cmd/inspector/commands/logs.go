package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logsCmd() *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Fetch prediction logs (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := appCtx.Client.Logs(cmd.Context(), page, perPage)
			if err != nil {
				return err
			}
			for _, entry := range resp.Logs {
				fmt.Printf("%-24s %-10s %.2f %s\n", entry.Timestamp, entry.Result, entry.Confidence, entry.EmailSubject)
			}
			fmt.Printf("page %d of %d entries\n", resp.Page, resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "entries per page")
	return cmd
}

func eventsCmd() *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Fetch server-side security events (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := appCtx.Client.SecurityEvents(cmd.Context(), page, perPage)
			if err != nil {
				return err
			}
			for _, event := range resp.Events {
				fmt.Printf("%-24s %-8s %-28s %s\n", event.Timestamp, event.Severity, event.EventType, event.Details)
			}
			fmt.Printf("page %d of %d events\n", resp.Page, resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "events per page")
	return cmd
}
