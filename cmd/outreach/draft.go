// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Save an email with the resume attached as a draft",
	Long: `Draft composes the same message as send but, instead of submitting it,
appends it over IMAP to the drafts mailbox ([Gmail]/Drafts by default,
configurable as mail.drafts_mailbox) so it can be reviewed before sending.`,
	RunE: runDraft,
}

func init() {
	addMessageFlags(draftCmd)
	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	msg, err := messageFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := dispatcher(cmd).SaveDraft(cmd.Context(), msg); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Draft saved.")
	fmt.Fprintf(out, "Recipient: %s\n", msg.To)
	fmt.Fprintf(out, "Subject:   %s\n", msg.Subject)
	fmt.Fprintf(out, "Mailbox:   %s\n", viper.GetString("mail.drafts_mailbox"))
	return nil
}
