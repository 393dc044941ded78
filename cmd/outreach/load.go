// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Print the text of a resume, prompt, or posting document",
	Long: `Load prints the visible text of a document: paragraphs in order, then
table cells row by row. Word (.docx), HTML, and plain-text files are read
directly; other formats need --markitdown and a docker or podman runtime.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().Bool("markitdown", false, "convert other formats (e.g. PDF) through the markitdown container")

	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := loaderConfig()
	if on, _ := cmd.Flags().GetBool("markitdown"); on {
		cfg.EnableConverter = true
	}

	loader, err := newLoader(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	text, err := loader.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
