// Package commands implements the inspector CLI.
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ztrustlabs/go-inspector-client/internal/app"
	"github.com/ztrustlabs/go-inspector-client/internal/config"
)

var appCtx *app.App

// Execute builds the dependency graph and runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "inspector",
		Short:         "Client for the ZTrust spam-inspection service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			if cfg.GetEnv() == "production" {
				log = log.Level(zerolog.InfoLevel)
			}

			built, err := app.New(cfg, log)
			if err != nil {
				return err
			}
			appCtx = built
			appCtx.Start()
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if appCtx != nil {
				appCtx.Stop()
			}
		},
	}

	root.AddCommand(
		registerCmd(),
		loginCmd(),
		checkCmd(),
		logsCmd(),
		eventsCmd(),
		logoutCmd(),
		prefsCmd(),
	)
	return root.Execute()
}

// promptLine reads one line from stdin after printing the prompt.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
