// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCommander records invocations and answers from configured tables.
type fakeCommander struct {
	onPath map[string]bool
	ok     map[string]bool // "bin arg1 arg2" -> Check succeeds
	pipe   func(name string, args []string, stdin io.Reader, stdout io.Writer) error
	piped  []string
}

func (f *fakeCommander) LookPath(file string) (string, error) {
	if f.onPath[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (f *fakeCommander) Check(_ context.Context, name string, args ...string) error {
	key := strings.Join(append([]string{name}, args...), " ")
	if f.ok[key] {
		return nil
	}
	return errors.New("exit status 1: " + key)
}

func (f *fakeCommander) Pipe(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.piped = append(f.piped, strings.Join(append([]string{name}, args...), " "))
	if f.pipe != nil {
		return f.pipe(name, args, stdin, stdout)
	}
	return nil
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *fakeCommander
		wantName string
		wantErr  bool
	}{
		{
			name:     "docker available",
			cmd:      &fakeCommander{onPath: map[string]bool{"docker": true}, ok: map[string]bool{"docker info": true}},
			wantName: "docker",
		},
		{
			name:     "podman when docker missing",
			cmd:      &fakeCommander{onPath: map[string]bool{"podman": true}, ok: map[string]bool{"podman info": true}},
			wantName: "podman",
		},
		{
			name:     "docker daemon down, podman works",
			cmd:      &fakeCommander{onPath: map[string]bool{"docker": true, "podman": true}, ok: map[string]bool{"podman info": true}},
			wantName: "podman",
		},
		{
			name:     "docker preferred",
			cmd:      &fakeCommander{onPath: map[string]bool{"docker": true, "podman": true}, ok: map[string]bool{"docker info": true, "podman info": true}},
			wantName: "docker",
		},
		{
			name:    "nothing available",
			cmd:     &fakeCommander{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detect(context.Background(), tt.cmd)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	ctx := context.Background()
	cmd := &fakeCommander{ok: map[string]bool{
		"docker image inspect markitdown:latest": true,
		"podman image exists markitdown:latest":  true,
	}}

	for _, rt := range candidates(cmd) {
		assert.NoError(t, rt.ImageExists(ctx, "markitdown:latest"), rt.Name())
		err := rt.ImageExists(ctx, "missing:latest")
		require.Error(t, err, rt.Name())
		assert.Contains(t, err.Error(), "missing:latest")
	}
}

func TestRun(t *testing.T) {
	cmd := &fakeCommander{
		pipe: func(_ string, _ []string, stdin io.Reader, stdout io.Writer) error {
			_, err := io.Copy(stdout, stdin)
			return err
		},
	}
	rt := candidates(cmd)[0]

	var out bytes.Buffer
	require.NoError(t, rt.Run(context.Background(), "markitdown:latest", strings.NewReader("payload"), &out))
	assert.Equal(t, "payload", out.String())
	assert.Equal(t, []string{"docker run --rm -i --network none markitdown:latest"}, cmd.piped)
}

func TestRunFailure(t *testing.T) {
	cmd := &fakeCommander{
		pipe: func(string, []string, io.Reader, io.Writer) error { return errors.New("exit status 125") },
	}
	rt := candidates(cmd)[1]

	err := rt.Run(context.Background(), "markitdown:latest", strings.NewReader(""), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running podman container markitdown:latest")
}
