// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document reads the visible text out of files so it can be fed to
// the posting extractor or used as a mail body. Each format has its own
// Loader; Registry picks one by file extension.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned when the document path does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrEmpty is returned when the document holds no extractable text.
	ErrEmpty = errors.New("document has no text")

	// ErrUnsupported is returned when no loader handles the file extension.
	ErrUnsupported = errors.New("unsupported document format")
)

// Loader returns the visible text of the document at path.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// Registry dispatches to a Loader by lowercase file extension.
type Registry struct {
	byExt    map[string]Loader
	fallback Loader
}

// NewRegistry returns a registry with the built-in loaders: Word (.docx),
// HTML (.html, .htm), and plain text (.txt, .md, and no extension).
func NewRegistry() *Registry {
	r := &Registry{byExt: map[string]Loader{}}
	r.Register(DocxLoader{}, ".docx")
	r.Register(HTMLLoader{}, ".html", ".htm")
	r.Register(TextLoader{}, ".txt", ".md", "")
	return r
}

// Register maps each extension (with leading dot) to l.
func (r *Registry) Register(l Loader, exts ...string) {
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = l
	}
}

// SetFallback sets the loader used for extensions with no registered loader.
func (r *Registry) SetFallback(l Loader) {
	r.fallback = l
}

// ForPath returns the loader responsible for path.
func (r *Registry) ForPath(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := r.byExt[ext]; ok {
		return l, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupported, ext, path)
}

// Load reads path with the loader registered for its extension.
func (r *Registry) Load(ctx context.Context, path string) (string, error) {
	if err := checkExists(path); err != nil {
		return "", err
	}
	l, err := r.ForPath(path)
	if err != nil {
		return "", err
	}
	return l.Load(ctx, path)
}

func checkExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a document", path)
	}
	return nil
}

// joinText concatenates paragraph texts followed by table-cell texts,
// skipping blank pieces, one piece per line.
func joinText(path string, paragraphs, cells []string) (string, error) {
	var parts []string
	for _, group := range [][]string{paragraphs, cells} {
		for _, s := range group {
			if strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
	}
	text := strings.Join(parts, "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	return text, nil
}
