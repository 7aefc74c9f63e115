/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI and returns its output with runs of whitespace
// collapsed, so assertions do not depend on column widths.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SAFEMEM_LOG_LEVEL", "error")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.Join(strings.Fields(out.String()), " "), err
}

func TestCodes(t *testing.T) {
	out, err := run(t, "codes")
	require.NoError(t, err)

	assert.Contains(t, out, "ORDER CODE ERRNO HTTP GRPC")
	assert.Contains(t, out, "insufficient_space -406 413 OutOfRange")
	assert.Contains(t, out, "illegal_overlap -404 409 FailedPrecondition")
	assert.Contains(t, out, "static_size_overflow -75 400 OutOfRange")
}

func TestExplain(t *testing.T) {
	out, err := run(t, "explain", "--", "-406", "dest.space")
	require.NoError(t, err)
	assert.Contains(t, out, `code="insufficient_space" errno=-406 reason="dest.space"`)
	assert.Contains(t, out, "http: source=default -> 413")

	out, err = run(t, "explain", "null_pointer", "dest.null")
	require.NoError(t, err)
	assert.Contains(t, out, `http: source=prefix pattern="dest" -> 500`)

	_, err = run(t, "explain", "no_such_code")
	assert.Error(t, err)
	_, err = run(t, "explain", "insufficient_space", "Not A Reason!")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "fits",
			args: []string{"--width", "32", "--dest-bytes", "16", "--count", "3"},
			want: []string{"op: copy32", "result: ok", "moved: 12 bytes"},
		},
		{
			name: "insufficient space",
			args: []string{"--width", "32", "--dest-bytes", "16", "--declared", "8", "--count", "3"},
			want: []string{"result: insufficient_space (errno -406)", "reason: dest.space", "cleared: 8 bytes", "zeroed: 8 bytes"},
		},
		{
			name: "overlap",
			args: []string{"--dest-bytes", "16", "--count", "4", "--alias-offset", "4"},
			want: []string{"result: illegal_overlap (errno -404)", "cleared: 16 bytes"},
		},
		{
			name: "overlap tolerated by move",
			args: []string{"--dest-bytes", "16", "--count", "4", "--alias-offset", "4", "--move"},
			want: []string{"op: move8", "result: ok"},
		},
		{
			name: "raw zero capacity",
			args: []string{"--raw", "--declared", "0", "--count", "1"},
			want: []string{"result: zero_capacity (errno -401)", "cleared: 0 bytes", "zeroed: 0 bytes"},
		},
		{
			name: "strict mismatch",
			args: []string{"--strict", "--width", "16", "--dest-bytes", "16", "--declared", "8", "--count", "2"},
			want: []string{"result: declared_size_mismatch (errno -410)", "side: dest"},
		},
		{
			name: "src static overflow",
			args: []string{"--dest-bytes", "16", "--src-bytes", "2", "--count", "4"},
			want: []string{"result: static_size_overflow (errno -75)", "reason: src.static.overflow", "side: src"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"check"}, tt.args...)...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestCheck_UsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "safemem.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits:\n  max_bytes: 8\nhandler:\n  policy: abort\n"), 0o600))

	out, err := run(t, "--config", path, "check", "--dest-bytes", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "result: capacity_exceeds_maximum (errno -403)")
	assert.Contains(t, out, "reason: dest.capacity.max")
	assert.Contains(t, out, "zeroed: 16 bytes")
}

func TestCheck_Errors(t *testing.T) {
	_, err := run(t, "check", "--width", "12")
	assert.Error(t, err)

	_, err = run(t, "check", "--width", "32", "--alias-offset", "2")
	assert.Error(t, err)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "check")
	assert.Error(t, err)
}
