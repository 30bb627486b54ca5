package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change local preferences",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Printf("display mode: %s\n", appCtx.Prefs.DisplayMode())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "mode [light|dark]",
		Short: "Set the display mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if args[0] != "light" && args[0] != "dark" {
				return fmt.Errorf("unknown display mode %q", args[0])
			}
			if err := appCtx.Prefs.SetDisplayMode(args[0]); err != nil {
				return err
			}
			fmt.Printf("display mode set to %s\n", args[0])
			return nil
		},
	})
	return cmd
}
