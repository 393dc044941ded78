// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// lineBreak stands in for <br> while whitespace is collapsed.
const lineBreak = "\u2029"

// blockElements start a new paragraph. Text in any other element runs on
// into the surrounding paragraph.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "ul": true,
}

// HTMLLoader reads saved web pages and HTML mail bodies. Text outside
// tables is read as paragraphs in document order, split at block element
// boundaries, then the td/th cells of every top-level table row by row. Runs of whitespace
// collapse to one space; <br> becomes a line break.
type HTMLLoader struct{}

// Load extracts the text of the HTML file at path.
func (HTMLLoader) Load(_ context.Context, path string) (string, error) {
	if err := checkExists(path); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("parsing HTML %s: %w", path, err)
	}
	doc.Find("script, style, noscript, head").Remove()
	doc.Find("br").ReplaceWithHtml(lineBreak)

	var pw paragraphWalker
	pw.walk(doc.Find("body"))
	pw.flush()
	paragraphs := pw.paragraphs

	var cells []string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		if table.ParentsFiltered("table").Length() > 0 {
			return
		}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			if !row.Closest("table").IsSelection(table) {
				return
			}
			row.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, visibleText(cell))
			})
		})
	})

	return joinText(path, paragraphs, cells)
}

// paragraphWalker gathers the text nodes outside tables, starting a new
// paragraph at every block element boundary.
type paragraphWalker struct {
	buf        strings.Builder
	paragraphs []string
}

func (pw *paragraphWalker) walk(s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch name := goquery.NodeName(c); {
		case name == "#text":
			pw.buf.WriteString(c.Text())
		case name == "table":
			pw.flush()
		case blockElements[name]:
			pw.flush()
			pw.walk(c)
			pw.flush()
		case strings.HasPrefix(name, "#"):
		default:
			pw.walk(c)
		}
	})
}

// flush closes the current paragraph, dropping it when it has no visible text.
func (pw *paragraphWalker) flush() {
	if text := collapseSpace(pw.buf.String()); text != "" {
		pw.paragraphs = append(pw.paragraphs, text)
	}
	pw.buf.Reset()
}

// visibleText collapses whitespace in the selection's text, keeping <br>
// positions as newlines.
func visibleText(s *goquery.Selection) string {
	return collapseSpace(s.Text())
}

func collapseSpace(text string) string {
	lines := strings.Split(text, lineBreak)
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
