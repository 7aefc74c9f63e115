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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dirpx.dev/safemem"
	"dirpx.dev/safemem/handler"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, safemem.DefaultMaxBytes, cfg.Limits.MaxBytes)
	assert.Equal(t, handler.PolicyAbort, cfg.Handler.Policy)
	assert.False(t, cfg.StrictDeclaredSize)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "safemem.yaml", `
limits:
  max_bytes: 4096
  max_elements32: 512
strict_declared_size: true
handler:
  policy: LOG
metrics:
  enabled: true
  namespace: frames
log:
  level: debug
  rotation:
    max_backups: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(4096), cfg.Limits.MaxBytes)
	assert.Equal(t, uint64(512), cfg.Limits.MaxElements32)
	assert.Zero(t, cfg.Limits.MaxElements16)
	assert.True(t, cfg.StrictDeclaredSize)
	assert.Equal(t, handler.PolicyLog, cfg.Handler.Policy)
	assert.Equal(t, Metrics{Enabled: true, Namespace: "frames"}, cfg.Metrics)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Log.Rotation.MaxBackups)
	assert.Equal(t, 100, cfg.Log.Rotation.MaxSizeMB, "unset keys keep defaults")
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown field": "limits:\n  max_kb: 4\n",
		"bad policy":    "handler:\n  policy: reboot\n",
		"bad limits":    "limits:\n  max_bytes: 8\n  max_elements32: 3\n",
		"bad log level": "log:\n  level: loud\n",
		"not yaml":      "limits: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.yaml", body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvMaxBytes, "1024")
	t.Setenv(EnvStrict, "true")
	t.Setenv(EnvHandler, "ignore")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFile, "/tmp/safemem.log")
	t.Setenv(EnvMetrics, "1")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, uint64(1024), cfg.Limits.MaxBytes)
	assert.True(t, cfg.StrictDeclaredSize)
	assert.Equal(t, handler.PolicyIgnore, cfg.Handler.Policy)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/safemem.log", cfg.Log.File)
	assert.True(t, cfg.Metrics.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv_Errors(t *testing.T) {
	for _, kv := range [][2]string{
		{EnvMaxBytes, "-1"},
		{EnvStrict, "maybe"},
		{EnvHandler, "reboot"},
		{EnvMetrics, "on-ish"},
	} {
		t.Run(kv[0], func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			cfg := Default()
			assert.Error(t, cfg.ApplyEnv())
		})
	}
}

func TestFromEnv_LoadsEnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set; register
	// cleanup through t.Setenv first so the loaded values do not leak.
	t.Setenv(EnvHandler, "")
	require.NoError(t, os.Unsetenv(EnvHandler))
	t.Setenv(EnvStrict, "false")

	path := writeFile(t, "test.env", EnvHandler+"=panic\n"+EnvStrict+"=true\n")

	cfg, err := FromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, handler.PolicyPanic, cfg.Handler.Policy)
	assert.False(t, cfg.StrictDeclaredSize, "existing variables win over the file")

	_, err = FromEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	cfg := Default()
	cfg.Limits = safemem.Limits{MaxBytes: 64}
	cfg.StrictDeclaredSize = true
	cfg.Handler.Policy = handler.PolicyIgnore
	cfg.Metrics.Enabled = true

	reg := prometheus.NewRegistry()
	g, err := cfg.Build(zap.NewNop(), reg)
	require.NoError(t, err)

	assert.True(t, g.Strict())
	assert.Equal(t, uint64(64), g.Limits().MaxBytes)
	assert.Equal(t, uint64(16), g.Limits().MaxElements32)

	dst := make([]byte, 4)
	err = g.Copy8(safemem.Slice(dst), safemem.Slice(make([]byte, 8)), 8)
	require.ErrorIs(t, err, safemem.ErrInsufficientSpace)

	n, err := testutil.GatherAndCount(reg, "safemem_violations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second guard on the same registry reuses the counter.
	_, err = cfg.Build(zap.NewNop(), reg)
	require.NoError(t, err)
}

func TestBuild_RejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Limits.MaxBytes = 0
	_, err := cfg.Build(nil, nil)
	assert.ErrorIs(t, err, safemem.ErrInvalidLimits)
}
