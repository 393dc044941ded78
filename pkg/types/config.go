// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MailConfig holds the transport settings for sending mail and saving drafts.
// Credentials are never defaulted; they must come from flags, environment,
// the secrets directory, or the OS keyring.
type MailConfig struct {
	// SMTPHost is the submission server host (e.g. "smtp.gmail.com").
	SMTPHost string `json:"smtp_host" yaml:"smtp_host"`

	// SMTPPort is the submission port; STARTTLS is negotiated on it (default 587).
	SMTPPort int `json:"smtp_port" yaml:"smtp_port"`

	// IMAPAddr is the host:port of the IMAP-over-TLS server (e.g. "imap.gmail.com:993").
	IMAPAddr string `json:"imap_addr" yaml:"imap_addr"`

	// DraftsMailbox is the mailbox drafts are appended to (default "[Gmail]/Drafts").
	DraftsMailbox string `json:"drafts_mailbox" yaml:"drafts_mailbox"`

	// Sender is the From address. Defaults to Username when empty.
	Sender string `json:"sender" yaml:"sender"`

	// Username is the account used to authenticate.
	Username string `json:"username" yaml:"username"`

	// Password is the account (app) password. It is never written out.
	Password string `json:"-" yaml:"-"`

	// Timeout bounds dialing and the whole exchange with the server.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// LoaderConfig holds settings for turning documents into text.
type LoaderConfig struct {
	// EnableConverter allows unknown formats (e.g. PDF) to be converted
	// through the markitdown container image.
	EnableConverter bool `json:"enable_converter" yaml:"enable_converter"`
}

// OutputFormat selects how extracted postings are printed.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ExtractConfig holds settings for the extract command.
type ExtractConfig struct {
	// Format selects the output encoding: json or yaml.
	Format OutputFormat `json:"format" yaml:"format"`

	// Concurrency bounds how many files are extracted at once (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// Require lists fields that must be present for the command to succeed.
	Require []string `json:"require" yaml:"require"`
}
