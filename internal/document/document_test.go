// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docxHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docxFooter = `</w:body></w:document>`

// writeDocx creates a minimal .docx whose body is the given WordprocessingML.
func writeDocx(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><Types/>`))
	require.NoError(t, err)

	w, err = zw.Create(docxBody)
	require.NoError(t, err)
	_, err = w.Write([]byte(docxHeader + body + docxFooter))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func para(runs ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	for _, r := range runs {
		b.WriteString("<w:r>" + r + "</w:r>")
	}
	b.WriteString("</w:p>")
	return b.String()
}

func text(s string) string { return `<w:t xml:space="preserve">` + s + `</w:t>` }

func cell(paras ...string) string { return "<w:tc>" + strings.Join(paras, "") + "</w:tc>" }

func row(cells ...string) string { return "<w:tr>" + strings.Join(cells, "") + "</w:tr>" }

func table(rows ...string) string { return "<w:tbl>" + strings.Join(rows, "") + "</w:tbl>" }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDocxLoader(t *testing.T) {
	dir := t.TempDir()
	body := para(text("Jane Doe")) +
		table(
			row(cell(para(text("Skills"))), cell(para(text("Go")), para(text("SQL")))),
			row(cell(para(text("Nested"))), cell(table(row(cell(para(text("hidden"))))))),
		) +
		para(text("Software "), text("Engineer")) +
		para() +
		para(text("a"), "<w:tab/>", text("b"), "<w:br/>", text("c")) +
		table(row(cell(para(text("Second table")))))
	path := writeDocx(t, dir, "resume.docx", body)

	got, err := DocxLoader{}.Load(context.Background(), path)
	require.NoError(t, err)

	want := strings.Join([]string{
		"Jane Doe",
		"Software Engineer",
		"a\tb\nc",
		"Skills",
		"Go\nSQL",
		"Nested",
		"Second table",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestDocxLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	empty := writeDocx(t, dir, "empty.docx", para()+para(text("   ")))
	_, err := DocxLoader{}.Load(context.Background(), empty)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = DocxLoader{}.Load(context.Background(), filepath.Join(dir, "absent.docx"))
	assert.ErrorIs(t, err, ErrNotFound)

	notZip := writeFile(t, dir, "fake.docx", "plain text")
	_, err = DocxLoader{}.Load(context.Background(), notZip)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "as a Word document")

	// A zip without the document part.
	other := filepath.Join(dir, "other.docx")
	f, err := os.Create(other)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("readme.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	_, err = DocxLoader{}.Load(context.Background(), other)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing word/document.xml")
}

func TestHTMLLoader(t *testing.T) {
	dir := t.TempDir()
	page := `<html><head><title>ignored</title><style>p{}</style></head><body>
<h1>Hiring   now</h1>
<div>Company: Acme<br>Role: Intern</div>
<ul><li>Go</li><li><p>SQL</p></li></ul>
<table>
  <tr><th>Location</th><td>Pune</td></tr>
  <tr><td>Stipend</td><td><table><tr><td>inner</td></tr></table></td></tr>
</table>
<script>var x = 1;</script>
</body></html>`
	path := writeFile(t, dir, "post.html", page)

	got, err := HTMLLoader{}.Load(context.Background(), path)
	require.NoError(t, err)

	want := strings.Join([]string{
		"Hiring now",
		"Company: Acme\nRole: Intern",
		"Go",
		"SQL",
		"Location",
		"Pune",
		"Stipend",
		"inner",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestHTMLLoader_BareBody(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bare.htm", "<body>Company: Initech<br/>Batch: 2025</body>")

	got, err := HTMLLoader{}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Company: Initech\nBatch: 2025", got)
}

func TestHTMLLoader_MixedInlineAndBlocks(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "body text before a block",
			page: "<body>Company: Acme<p>Role: Intern</p></body>",
			want: "Company: Acme\nRole: Intern",
		},
		{
			name: "div text before a nested block",
			page: "<body><div>Company: Acme<p>Role: Intern</p></div></body>",
			want: "Company: Acme\nRole: Intern",
		},
		{
			name: "text after a block and inline elements",
			page: "<body><div><p>Role: Intern</p>Stipend: <b>20k</b>/month</div>Batch: 2025</body>",
			want: "Role: Intern\nStipend: 20k/month\nBatch: 2025",
		},
		{
			name: "text around a table",
			page: "<body>Company: Acme<table><tr><td>Pune</td></tr></table>Role: Intern</body>",
			want: "Company: Acme\nRole: Intern\nPune",
		},
	}

	dir := t.TempDir()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, fmt.Sprintf("mixed%d.html", i), tt.page)

			got, err := HTMLLoader{}.Load(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTMLLoader_Empty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blank.html", "<html><body><p>  </p></body></html>")

	_, err := HTMLLoader{}.Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestTextLoader(t *testing.T) {
	dir := t.TempDir()
	content := "  Company: Acme\r\nRole: Intern\n"
	path := writeFile(t, dir, "msg.txt", content)

	got, err := TextLoader{}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	blank := writeFile(t, dir, "blank.txt", "\n \t\n")
	_, err = TextLoader{}.Load(context.Background(), blank)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRegistry(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "prompt.md", "Write a cold email.")
	docx := writeDocx(t, dir, "Resume.DOCX", para(text("Jane")))
	noExt := writeFile(t, dir, "message", "Role: Intern")
	pdf := writeFile(t, dir, "resume.pdf", "%PDF-1.4")

	r := NewRegistry()
	ctx := context.Background()

	got, err := r.Load(ctx, txt)
	require.NoError(t, err)
	assert.Equal(t, "Write a cold email.", got)

	got, err = r.Load(ctx, docx)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got)

	got, err = r.Load(ctx, noExt)
	require.NoError(t, err)
	assert.Equal(t, "Role: Intern", got)

	_, err = r.Load(ctx, pdf)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = r.Load(ctx, filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Load(ctx, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	r.SetFallback(stubLoader("converted pdf"))
	got, err = r.Load(ctx, pdf)
	require.NoError(t, err)
	assert.Equal(t, "converted pdf", got)
}

type stubLoader string

func (s stubLoader) Load(context.Context, string) (string, error) { return string(s), nil }

// fakeRuntime implements container.Runtime for converter tests.
type fakeRuntime struct {
	images map[string]bool
	output string
	err    error
	stdin  []byte
}

func (f *fakeRuntime) Name() string { return "docker" }

func (f *fakeRuntime) Available(context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	if f.images[image] {
		return nil
	}
	return errors.New("no such image")
}

func (f *fakeRuntime) Run(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}
	f.stdin = data
	if f.err != nil {
		return f.err
	}
	_, err = io.WriteString(stdout, f.output)
	return err
}

func TestConvertLoader(t *testing.T) {
	dir := t.TempDir()
	pdf := writeFile(t, dir, "resume.pdf", "%PDF-1.4 bytes")
	ctx := context.Background()

	_, err := NewConvertLoader(ctx, &fakeRuntime{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown image not available in docker")

	rt := &fakeRuntime{images: map[string]bool{imageMarkitdown: true}, output: "# Jane Doe\n\nGo developer"}
	c, err := NewConvertLoader(ctx, rt)
	require.NoError(t, err)

	got, err := c.Load(ctx, pdf)
	require.NoError(t, err)
	assert.Equal(t, "# Jane Doe\n\nGo developer", got)
	assert.True(t, bytes.Equal([]byte("%PDF-1.4 bytes"), rt.stdin))

	rt.output = "  \n"
	_, err = c.Load(ctx, pdf)
	assert.ErrorIs(t, err, ErrEmpty)

	rt.err = errors.New("container crashed")
	_, err = c.Load(ctx, pdf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "converting")
}
