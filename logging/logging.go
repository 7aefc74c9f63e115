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

// Package logging builds the zap loggers used by safemem handlers and tools.
//
// A logger writes to stderr and, when a file is configured, tees into a
// rotating file managed by lumberjack.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the file writer.
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 5
	DefaultMaxAgeDays = 30
)

// Rotation configures file rotation. Zero fields take the defaults above.
type Rotation struct {
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// Config selects the level, the encoder and the optional log file.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info, or debug
	// in development mode.
	Level string `yaml:"level"`
	// Development switches to a colored console encoder.
	Development bool `yaml:"development"`
	// File, when set, receives a JSON copy of every entry.
	File     string   `yaml:"file"`
	Rotation Rotation `yaml:"rotation"`
}

// DefaultConfig returns a production configuration logging to stderr.
func DefaultConfig() Config {
	return Config{
		Level: "info",
		Rotation: Rotation{
			MaxSizeMB:  DefaultMaxSizeMB,
			MaxBackups: DefaultMaxBackups,
			MaxAgeDays: DefaultMaxAgeDays,
			Compress:   true,
		},
	}
}

// ParseLevel parses a case-insensitive level name. "warning" is accepted
// for warn.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", s)
}

// Validate reports configuration errors without opening any file.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	r := c.Rotation
	if r.MaxSizeMB < 0 || r.MaxBackups < 0 || r.MaxAgeDays < 0 {
		return fmt.Errorf("logging: rotation values must not be negative")
	}
	return nil
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := ParseLevel(cfg.Level)
	if cfg.Development && strings.TrimSpace(cfg.Level) == "" {
		level = zapcore.DebugLevel
	}
	return zap.New(NewCore(cfg, level, zapcore.Lock(os.Stderr)), zap.AddCaller()), nil
}

// NewCore builds the core behind New with an explicit console sink, so
// tests can capture output.
func NewCore(cfg Config, level zapcore.Level, console zapcore.WriteSyncer) zapcore.Core {
	enc := EncoderConfig()
	var consoleEnc zapcore.Encoder
	if cfg.Development {
		dev := enc
		dev.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(dev)
	} else {
		consoleEnc = zapcore.NewJSONEncoder(enc)
	}
	core := zapcore.NewCore(consoleEnc, console, level)
	if cfg.File == "" {
		return core
	}
	file := zapcore.NewCore(zapcore.NewJSONEncoder(enc), FileWriter(cfg.File, cfg.Rotation), level)
	return zapcore.NewTee(core, file)
}

// EncoderConfig returns the field layout shared by every core.
func EncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// FileWriter returns a rotating writer for path.
func FileWriter(path string, r Rotation) zapcore.WriteSyncer {
	return zapcore.AddSync(rotator(path, r))
}

func rotator(path string, r Rotation) *lumberjack.Logger {
	if r.MaxSizeMB == 0 {
		r.MaxSizeMB = DefaultMaxSizeMB
	}
	if r.MaxBackups == 0 {
		r.MaxBackups = DefaultMaxBackups
	}
	if r.MaxAgeDays == 0 {
		r.MaxAgeDays = DefaultMaxAgeDays
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    r.MaxSizeMB,
		MaxBackups: r.MaxBackups,
		MaxAge:     r.MaxAgeDays,
		Compress:   r.Compress,
	}
}
