package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account with email verification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ack, err := appCtx.Auth.InitiateSignup(ctx, email, password)
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

			result, err := appCtx.Auth.VerifySignup(ctx, email, password, otp)
			if err != nil {
				return err
			}
			if result.Message != "" {
				fmt.Println(result.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("email")    //nolint:errcheck
	cmd.MarkFlagRequired("password") //nolint:errcheck
	return cmd
}
