package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email, password and a one-time code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ack, err := appCtx.Auth.InitiateLogin(ctx, email, password)
			if err != nil {
				return err
			}
			if ack.Message != "" {
				fmt.Println(ack.Message)
			}

			otp, err := promptLine("Enter the 6-digit code sent to your email: ")
			if err != nil {
				return err
			}

			result, err := appCtx.Auth.VerifyLogin(ctx, email, otp)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (role: %s)\n", email, result.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("email")    //nolint:errcheck
	cmd.MarkFlagRequired("password") //nolint:errcheck
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := appCtx.Auth.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}
