// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TextLoader returns a plain-text file unchanged.
type TextLoader struct{}

// Load reads path as text.
func (TextLoader) Load(_ context.Context, path string) (string, error) {
	if err := checkExists(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	return string(data), nil
}
