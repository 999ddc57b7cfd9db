// Package config resolves runtime settings from an optional .env file and
// the process environment. Command-line flags are applied on top by cmd/server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	EnvPort         = "OSG_PORT"
	EnvDBPath       = "OSG_DB_PATH"
	EnvKeywordsPath = "OSG_KEYWORDS_PATH"
	EnvMaxUploadMB  = "OSG_MAX_UPLOAD_MB"
	EnvLogLevel     = "OSG_LOG_LEVEL"
)

type Config struct {
	Port         int
	DBPath       string
	KeywordsPath string // empty means the built-in table
	MaxUploadMB  int64
	LogLevel     zapcore.Level
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:        8080,
		DBPath:      "osg.db",
		MaxUploadMB: 32,
		LogLevel:    zapcore.InfoLevel,
	}
}

// Load reads the given .env files (".env" when none are named) and then the
// environment. A missing .env file is not an error; variables already set
// in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv applies OSG_* variables over Default.
func FromEnv() (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		cfg.Port = port
	}
	if v, ok := lookup(EnvDBPath); ok {
		cfg.DBPath = v
	}
	if v, ok := lookup(EnvKeywordsPath); ok {
		cfg.KeywordsPath = v
	}
	if v, ok := lookup(EnvMaxUploadMB); ok {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil || mb <= 0 {
			return Config{}, fmt.Errorf("%s: invalid size %q", EnvMaxUploadMB, v)
		}
		cfg.MaxUploadMB = mb
	}
	if v, ok := lookup(EnvLogLevel); ok {
		level, err := zapcore.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// MaxUploadBytes is the request body limit for uploads.
func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
