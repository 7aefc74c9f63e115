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

// Package config loads the settings of a safemem Guard from YAML files,
// .env files and SAFEMEM_* environment variables, and builds the Guard.
//
// Precedence, lowest first: Default, the YAML file, the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"dirpx.dev/safemem"
	"dirpx.dev/safemem/handler"
	"dirpx.dev/safemem/logging"
)

// Environment variables read by ApplyEnv.
const (
	EnvMaxBytes = "SAFEMEM_MAX_BYTES"
	EnvStrict   = "SAFEMEM_STRICT"
	EnvHandler  = "SAFEMEM_HANDLER"
	EnvLogLevel = "SAFEMEM_LOG_LEVEL"
	EnvLogFile  = "SAFEMEM_LOG_FILE"
	EnvMetrics  = "SAFEMEM_METRICS"
)

// DefaultNamespace prefixes the violation counter.
const DefaultNamespace = "safemem"

// Config is the on-disk shape of a Guard's settings.
type Config struct {
	Limits             safemem.Limits `yaml:"limits"`
	StrictDeclaredSize bool           `yaml:"strict_declared_size"`
	Handler            Handler        `yaml:"handler"`
	Metrics            Metrics        `yaml:"metrics"`
	Log                logging.Config `yaml:"log"`
}

// Handler selects the constraint handler.
type Handler struct {
	Policy handler.Policy `yaml:"policy"`
}

// Metrics enables the violation counter.
type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns the settings used when nothing is configured: a 256 MiB
// ceiling with derived element ceilings, lax declared sizes, the aborting
// handler and no metrics.
func Default() Config {
	return Config{
		Limits:  safemem.Limits{MaxBytes: safemem.DefaultMaxBytes},
		Handler: Handler{Policy: handler.PolicyAbort},
		Metrics: Metrics{Namespace: DefaultNamespace},
		Log:     logging.DefaultConfig(),
	}
}

// Load reads a YAML file over Default. Unknown fields are rejected; an
// empty file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnvFiles loads .env style files into the process environment without
// overriding variables that are already set. With no files it loads ".env"
// when present.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}

// FromEnv loads the given env files (see LoadEnvFiles) and returns Default
// with the environment applied.
func FromEnv(files ...string) (Config, error) {
	cfg := Default()
	if err := LoadEnvFiles(files...); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides c with the SAFEMEM_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvMaxBytes); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMaxBytes, err)
		}
		c.Limits.MaxBytes = n
	}
	if v, ok := os.LookupEnv(EnvStrict); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvStrict, err)
		}
		c.StrictDeclaredSize = b
	}
	if v, ok := os.LookupEnv(EnvHandler); ok {
		p, err := handler.ParsePolicy(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvHandler, err)
		}
		c.Handler.Policy = p
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		c.Log.File = v
	}
	if v, ok := os.LookupEnv(EnvMetrics); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMetrics, err)
		}
		c.Metrics.Enabled = b
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	if _, err := handler.ParsePolicy(string(c.Handler.Policy)); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Logger builds the logger described by the log section.
func (c Config) Logger() (*zap.Logger, error) {
	return logging.New(c.Log)
}

// Build validates c and returns the Guard it describes. log feeds the
// logging and aborting handlers (a production logger when nil); reg
// receives the violation counter when metrics are enabled
// (prometheus.DefaultRegisterer when nil).
func (c Config) Build(log *zap.Logger, reg prometheus.Registerer) (*safemem.Guard, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	h, err := handler.ForPolicy(c.Handler.Policy, log)
	if err != nil {
		return nil, err
	}
	if c.Metrics.Enabled {
		ns := c.Metrics.Namespace
		if ns == "" {
			ns = DefaultNamespace
		}
		if h, err = handler.Counting(reg, ns, h); err != nil {
			return nil, fmt.Errorf("config: register metrics: %w", err)
		}
	}
	return safemem.New(
		safemem.WithHandler(h),
		safemem.WithLimits(c.Limits),
		safemem.WithStrictDeclaredSize(c.StrictDeclaredSize),
	), nil
}
