// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package posting turns free-form job announcements into JobPosting records.
// Extraction is a single pass of pattern rules over the message text: it
// does no I/O, keeps no state between calls, and never fails.
package posting

import (
	"regexp"
	"strings"

	"github.com/pdiddy/outreach/pkg/types"
)

// emailPattern matches local@domain.tld. The first match in the message wins.
var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// fieldRule binds a label to the JobPosting field it fills.
type fieldRule struct {
	name    string
	pattern *regexp.Regexp
	set     func(p *types.JobPosting, v *string)
}

// labelPattern builds the rule pattern for a "Label: value" or
// "Label - value" line. The value runs to the end of its line and never
// continues onto the next one.
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + label + `[ \t]*[-:][ \t]*(.+?)(?:\n|$)`)
}

// fieldRules is the ordered label table. Adding a recognized label is one entry.
var fieldRules = []fieldRule{
	{types.FieldCompanyName, labelPattern("Company"), func(p *types.JobPosting, v *string) { p.CompanyName = v }},
	{types.FieldRole, labelPattern("Role"), func(p *types.JobPosting, v *string) { p.Role = v }},
	{types.FieldLocation, labelPattern("Location"), func(p *types.JobPosting, v *string) { p.Location = v }},
	{types.FieldStipend, labelPattern("Stipend"), func(p *types.JobPosting, v *string) { p.Stipend = v }},
	{types.FieldBatch, labelPattern("Batch"), func(p *types.JobPosting, v *string) { p.Batch = v }},
}

var (
	// requirementsHeader opens the requirements block.
	requirementsHeader = regexp.MustCompile(`(?i)\bRequirements?:`)

	// applyHeader closes the requirements block. It must start a line.
	applyHeader = regexp.MustCompile(`(?im)^[ \t]*How to Apply:`)

	// bulletPattern matches a bullet token at the start of a line and the
	// horizontal whitespace after it. The tokens are matched literally:
	// a hyphen, the bullet glyphs seen in forwarded posts, and the
	// mojibake left when a UTF-8 bullet is decoded as Windows-1252.
	bulletPattern = regexp.MustCompile(`(?m)^([ \t]*)(?:â€¢|•|●|◦|▪|·|-)[ \t]*`)

	// inlineBulletPattern matches a bullet glyph anywhere in a line, as in
	// "• Python • SQL". Hyphens only count at the start of a line.
	inlineBulletPattern = regexp.MustCompile(`(?:â€¢|•|●|◦|▪|·)[ \t]*`)
)

// Extract parses message into a JobPosting. Fields whose label does not
// appear are left nil; RawMessage is always the input unchanged.
func Extract(message string) types.JobPosting {
	p := types.JobPosting{RawMessage: message}

	if m := emailPattern.FindString(message); m != "" {
		p.Email = &m
	}

	for _, rule := range fieldRules {
		m := rule.pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		rule.set(&p, nonEmpty(m[1]))
	}

	p.Requirements = requirements(message)

	return p
}

// requirements captures the text between the requirements header and the
// "How to Apply:" line (or end of text) and normalizes its bullets.
func requirements(message string) *string {
	loc := requirementsHeader.FindStringIndex(message)
	if loc == nil {
		return nil
	}
	block := message[loc[1]:]
	if end := applyHeader.FindStringIndex(block); end != nil {
		block = block[:end[0]]
	}
	block = strings.TrimSpace(block)
	if block == "" {
		return nil
	}
	return nonEmpty(NormalizeBullets(block))
}

// NormalizeBullets rewrites every bullet token, with the whitespace that
// follows it, to the canonical "- " marker. Bullet glyphs are rewritten
// wherever they appear; a hyphen only when it leads a line. Indentation,
// line breaks, and the words themselves are left as they are.
func NormalizeBullets(text string) string {
	text = bulletPattern.ReplaceAllString(text, "${1}- ")
	return inlineBulletPattern.ReplaceAllString(text, "- ")
}

// nonEmpty trims s and returns a pointer to it, or nil when nothing is left.
func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
