package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Classify email content as spam or not (reads stdin with no argument or \"-\")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			var err error
			if len(args) == 0 || args[0] == "-" {
				content, err = io.ReadAll(os.Stdin)
			} else {
				content, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			result, err := appCtx.Client.CheckSpam(cmd.Context(), string(content))
			if err != nil {
				return err
			}

			fmt.Printf("Result:     %s\n", result.Result)
			fmt.Printf("Confidence: %.2f (%s)\n", result.Confidence, result.ConfidenceLevel)
			if result.Warning != "" {
				fmt.Printf("Warning:    %s\n", result.Warning)
			}
			return nil
		},
	}
	return cmd
}
