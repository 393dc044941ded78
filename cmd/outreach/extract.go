// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/outreach/internal/posting"
	"github.com/pdiddy/outreach/pkg/types"
)

// postingFields lists the keys accepted by --require.
var postingFields = []string{
	types.FieldCompanyName, types.FieldRole, types.FieldEmail, types.FieldLocation,
	types.FieldStipend, types.FieldBatch, types.FieldRequirements, types.FieldRawMessage,
}

var extractCmd = &cobra.Command{
	Use:   "extract [message]",
	Short: "Extract company, role, email, and other fields from a job posting",
	Long: `Extract parses a free-form job announcement ("Company: ...", "Role - ...",
"Requirements:" followed by bullets) into a flat record with the keys
company_name, role, email, location, stipend, batch, requirements, and
raw_message. Fields that are not in the message are null.

The message is taken from the argument, from stdin, or from one or more
--file documents (text, .docx, .html; other formats with the converter
enabled). Several files are extracted concurrently.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringSlice("file", nil, "read the message from these documents instead of the argument")
	extractCmd.Flags().String("format", "", "output format: json or yaml (default json)")
	extractCmd.Flags().StringSlice("require", nil, "fail unless these fields are present (e.g. email,company_name)")
	extractCmd.Flags().Int("concurrency", 0, "files extracted at once (default 4)")
	extractCmd.Flags().Bool("markitdown", false, "convert other formats (e.g. PDF) through the markitdown container")
	_ = viper.BindPFlag("extract.format", extractCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("extract.concurrency", extractCmd.Flags().Lookup("concurrency"))

	rootCmd.AddCommand(extractCmd)
}

// fileEntry is one posting from a batch run, tagged with its source file.
type fileEntry struct {
	Source           string `json:"source" yaml:"source"`
	types.JobPosting `yaml:",inline"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractConfig(cmd)
	if err := validateExtractConfig(cfg); err != nil {
		return err
	}
	files, _ := cmd.Flags().GetStringSlice("file")
	if len(args) > 0 && len(files) > 0 {
		return fmt.Errorf("give the message as an argument or with --file, not both")
	}

	if len(files) == 0 {
		message, err := messageText(cmd, args)
		if err != nil {
			return err
		}
		p := posting.Extract(message)
		if err := writeOutput(cmd.OutOrStdout(), cfg.Format, p); err != nil {
			return err
		}
		return checkRequired(p, cfg.Require, "message")
	}

	ctx := cmd.Context()
	lcfg := loaderConfig()
	if on, _ := cmd.Flags().GetBool("markitdown"); on {
		lcfg.EnableConverter = true
	}
	loader, err := newLoader(ctx, lcfg)
	if err != nil {
		return err
	}

	results, summary, err := posting.ExtractAll(ctx, loader, files, cfg.Concurrency, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if len(files) == 1 && summary.Extracted == 1 {
		p := results[0].Posting
		if err := writeOutput(cmd.OutOrStdout(), cfg.Format, p); err != nil {
			return err
		}
		return checkRequired(p, cfg.Require, files[0])
	}

	entries := make([]fileEntry, 0, summary.Extracted)
	var incomplete []string
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		entries = append(entries, fileEntry{Source: r.Path, JobPosting: r.Posting})
		if err := checkRequired(r.Posting, cfg.Require, r.Path); err != nil {
			incomplete = append(incomplete, err.Error())
		}
	}
	if err := writeOutput(cmd.OutOrStdout(), cfg.Format, entries); err != nil {
		return err
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) could not be loaded", summary.Failed)
	}
	if len(incomplete) > 0 {
		return fmt.Errorf("%s", strings.Join(incomplete, "; "))
	}
	return nil
}

// messageText returns the argument, or all of stdin when there is none.
func messageText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading message from stdin: %w", err)
	}
	return string(data), nil
}

func validateExtractConfig(cfg types.ExtractConfig) error {
	switch cfg.Format {
	case types.OutputJSON, types.OutputYAML:
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", cfg.Format)
	}
	for _, name := range cfg.Require {
		if !slices.Contains(postingFields, name) {
			return fmt.Errorf("unknown field %q: expected one of %s", name, strings.Join(postingFields, ", "))
		}
	}
	return nil
}

// checkRequired reports the required fields absent from p.
func checkRequired(p types.JobPosting, required []string, source string) error {
	if missing := p.Missing(required...); len(missing) > 0 {
		return fmt.Errorf("%s: missing required field(s): %s", source, strings.Join(missing, ", "))
	}
	return nil
}

func writeOutput(w io.Writer, format types.OutputFormat, v any) error {
	switch format {
	case types.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

