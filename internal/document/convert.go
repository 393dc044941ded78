// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/outreach/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// ConvertLoader handles formats with no native loader (PDF, legacy .doc,
// slides) by piping the file through the markitdown container image.
type ConvertLoader struct {
	runtime container.Runtime
}

// NewConvertLoader returns a loader backed by rt. It fails when the
// markitdown image is not present locally.
func NewConvertLoader(ctx context.Context, rt container.Runtime) (*ConvertLoader, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &ConvertLoader{runtime: rt}, nil
}

// Load converts the file at path to text.
func (c *ConvertLoader) Load(ctx context.Context, path string) (string, error) {
	if err := checkExists(path); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := c.runtime.Run(ctx, imageMarkitdown, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", path, err)
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	return out.String(), nil
}
