//go:build mage

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/outreach/internal/posting"
)

const samplePosting = `Company - Acme Corp
Role: Backend Intern
Location - Pune
Stipend: 20k/month
Batch - 2025
Contact: hr@acme.com
Requirements:
• Python
• Git
How to Apply: Reply to this email`

// Sample runs the posting extractor on a built-in announcement and prints the record.
func Sample() error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posting.Extract(samplePosting)); err != nil {
		return fmt.Errorf("encoding sample: %w", err)
	}
	return nil
}
