package cmd

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
)

var cmdAccount = &cobra.Command{
	Use:   "account",
	Short: "Manage the current account [set-email|set-password|delete]",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var accountEmail string

var cmdAccountSetEmail = &cobra.Command{
	Use:   "set-email",
	Short: "Change the account email address",
	Run: func(cmd *cobra.Command, _ []string) {
		fatalOnErr(api.UpdateEmail(cmd.Context(), accountEmail))

		runtimeApp.Logger.Info("email updated")
	},
}

var cmdAccountSetPassword = &cobra.Command{
	Use:   "set-password",
	Short: "Change the account password",
	Run: func(cmd *cobra.Command, _ []string) {
		current, err := promptPassword("current password: ")
		fatalOnErr(err)

		updated, err := promptPassword("new password: ")
		fatalOnErr(err)

		confirm, err := promptPassword("confirm new password: ")
		fatalOnErr(err)

		if updated != confirm {
			runtimeApp.Logger.Fatal("passwords do not match")
		}

		fatalOnErr(api.UpdatePassword(cmd.Context(), current, updated))

		runtimeApp.Logger.Info("password updated")
	},
}

var accountDeleteForce bool

var cmdAccountDelete = &cobra.Command{
	Use:   "delete",
	Short: "Delete the account and discard the stored session",
	Run: func(cmd *cobra.Command, _ []string) {
		if !accountDeleteForce {
			answer, err := promptLine("delete this account permanently? [y/N]: ")
			fatalOnErr(err)

			if !strings.EqualFold(answer, "y") {
				runtimeApp.Logger.Info("aborted")
				return
			}
		}

		fatalOnErr(api.DeleteAccount(cmd.Context()))

		runtimeApp.Logger.Info("account deleted")
	},
}

func init() {
	cmdAccountSetEmail.PersistentFlags().StringVar(&accountEmail, "email", "", "new email address")
	if err := cmdAccountSetEmail.MarkPersistentFlagRequired("email"); err != nil {
		log.Fatal(err)
	}

	cmdAccountDelete.PersistentFlags().BoolVar(&accountDeleteForce, "force", false, "skip the confirmation prompt")

	cmdAccount.AddCommand(cmdAccountSetEmail)
	cmdAccount.AddCommand(cmdAccountSetPassword)
	cmdAccount.AddCommand(cmdAccountDelete)

	rootCmd.AddCommand(cmdAccount)
}
