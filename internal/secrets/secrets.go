// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves mail credentials without embedding them in the
// binary. A secrets directory holds one plain-text file per key: the
// filename is the key and the trimmed contents are the value. The OS
// keyring can back the same keys.
//
// Keys in use: mail-username, mail-password, mail-sender.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Well-known keys.
const (
	KeyMailUsername = "mail-username"
	KeyMailPassword = "mail-password"
	KeyMailSender   = "mail-sender"
)

// Source looks up a secret by key.
type Source interface {
	Lookup(key string) (string, bool)
}

// Dir is a set of secrets read from a directory by Load.
type Dir map[string]string

// Lookup returns the value stored under key.
func (d Dir) Lookup(key string) (string, bool) {
	v, ok := d[key]
	return v, ok && v != ""
}

// Keys returns the loaded key names, unsorted.
func (d Dir) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	return keys
}

// Chain consults each source in order and returns the first hit.
type Chain []Source

// Lookup returns the first non-empty value for key.
func (c Chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty Dir. Files that cannot be read are reported on stderr
// and skipped; empty files are ignored.
func Load(dir string) (Dir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Dir{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := Dir{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
