// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outreach/internal/mail"
)

const defaultAttachment = "resume.pdf"

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send an email with the resume attached",
	Long: `Send composes a plain-text email, attaches the resume (resume.pdf by
default; pass --attachment "" to send without one), and submits it over
SMTP with STARTTLS using the configured account.`,
	RunE: runSend,
}

func init() {
	addMessageFlags(sendCmd)
	rootCmd.AddCommand(sendCmd)
}

// addMessageFlags registers the flags shared by send and draft.
func addMessageFlags(cmd *cobra.Command) {
	cmd.Flags().String("to", "", "recipient address (required)")
	cmd.Flags().String("subject", "", "subject line")
	cmd.Flags().String("body", "", "message body")
	cmd.Flags().String("body-file", "", "read the body from a document (.txt, .md, .docx, .html)")
	cmd.Flags().String("attachment", defaultAttachment, "file to attach")
	cmd.Flags().String("from", "", "sender address (default: the account username)")
	cmd.Flags().Duration("timeout", 0, "connection timeout (default 60s)")
	_ = cmd.MarkFlagRequired("to")
}

// messageFromFlags builds the outgoing message from the shared flags.
func messageFromFlags(cmd *cobra.Command) (mail.Message, error) {
	to, _ := cmd.Flags().GetString("to")
	subject, _ := cmd.Flags().GetString("subject")
	body, _ := cmd.Flags().GetString("body")
	bodyFile, _ := cmd.Flags().GetString("body-file")
	attachment, _ := cmd.Flags().GetString("attachment")

	if body != "" && bodyFile != "" {
		return mail.Message{}, fmt.Errorf("use --body or --body-file, not both")
	}
	if bodyFile != "" {
		loader, err := newLoader(cmd.Context(), loaderConfig())
		if err != nil {
			return mail.Message{}, err
		}
		body, err = loader.Load(cmd.Context(), bodyFile)
		if err != nil {
			return mail.Message{}, fmt.Errorf("loading body: %w", err)
		}
	}

	return mail.Message{
		To:             to,
		Subject:        subject,
		Body:           body,
		AttachmentPath: attachment,
	}, nil
}

// dispatcher builds a mail dispatcher from config, applying --timeout.
func dispatcher(cmd *cobra.Command) *mail.Dispatcher {
	cfg := mailConfig(cmd)
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}
	return mail.NewDispatcher(cfg)
}

func runSend(cmd *cobra.Command, args []string) error {
	msg, err := messageFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := dispatcher(cmd).Send(cmd.Context(), msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Email sent to %s\n", msg.To)
	return nil
}

