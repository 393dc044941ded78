// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/outreach/internal/container"
	"github.com/pdiddy/outreach/internal/document"
	"github.com/pdiddy/outreach/internal/secrets"
	"github.com/pdiddy/outreach/pkg/types"
)

func setDefaults() {
	viper.SetDefault("mail.smtp_host", "smtp.gmail.com")
	viper.SetDefault("mail.smtp_port", 587)
	viper.SetDefault("mail.imap_addr", "imap.gmail.com:993")
	viper.SetDefault("mail.drafts_mailbox", "[Gmail]/Drafts")
	viper.SetDefault("mail.timeout", 60*time.Second)
	viper.SetDefault("extract.format", string(types.OutputJSON))
	viper.SetDefault("extract.concurrency", 4)
	viper.SetDefault("loader.enable_converter", false)
}

// credentials are consulted after flags and environment: the secrets
// directory first, then the OS keyring.
func credentials() secrets.Chain {
	return secrets.Chain{loadedSecrets, secrets.Keyring{}}
}

// secretDefault returns value if set, or the credential stored under key.
func secretDefault(key, value string) string {
	if value != "" {
		return value
	}
	v, _ := credentials().Lookup(key)
	return v
}

func mailConfig(cmd *cobra.Command) types.MailConfig {
	from, _ := cmd.Flags().GetString("from")
	if from == "" {
		from = viper.GetString("mail.sender")
	}
	return types.MailConfig{
		SMTPHost:      viper.GetString("mail.smtp_host"),
		SMTPPort:      viper.GetInt("mail.smtp_port"),
		IMAPAddr:      viper.GetString("mail.imap_addr"),
		DraftsMailbox: viper.GetString("mail.drafts_mailbox"),
		Sender:        secretDefault(secrets.KeyMailSender, from),
		Username:      secretDefault(secrets.KeyMailUsername, viper.GetString("mail.username")),
		Password:      secretDefault(secrets.KeyMailPassword, viper.GetString("mail.password")),
		Timeout:       viper.GetDuration("mail.timeout"),
	}
}

func extractConfig(cmd *cobra.Command) types.ExtractConfig {
	require, _ := cmd.Flags().GetStringSlice("require")
	return types.ExtractConfig{
		Format:      types.OutputFormat(viper.GetString("extract.format")),
		Concurrency: viper.GetInt("extract.concurrency"),
		Require:     require,
	}
}

func loaderConfig() types.LoaderConfig {
	return types.LoaderConfig{EnableConverter: viper.GetBool("loader.enable_converter")}
}

// newLoader builds the document registry, adding the container-backed
// converter for other formats when it is enabled.
func newLoader(ctx context.Context, cfg types.LoaderConfig) (*document.Registry, error) {
	reg := document.NewRegistry()
	if !cfg.EnableConverter {
		return reg, nil
	}

	rt, err := container.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("document converter: %w", err)
	}
	conv, err := document.NewConvertLoader(ctx, rt)
	if err != nil {
		return nil, err
	}
	reg.SetFallback(conv)
	return reg, nil
}
