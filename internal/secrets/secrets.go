// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets finds the ADS API token. Tokens live in a directory of
// plain-text files (one secret per file, filename as key), in environment
// variables, or in the legacy ~/.ads/dev_key file.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// TokenFile is the key file holding the ADS token inside the secrets directory.
const TokenFile = "ads-api-token"

// TokenEnvVars are consulted in order before any file.
var TokenEnvVars = []string{"ADS_API_TOKEN", "ADS_DEV_KEY"}

// Source names where a token came from.
type Source string

const (
	SourceNone   Source = ""
	SourceFlag   Source = "flag"
	SourceConfig Source = "config"
	SourceEnv    Source = "env"
	SourceFile   Source = "secrets"
	SourceDevKey Source = "dev_key"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Dotfiles, subdirectories
// and empty files are skipped; unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	found := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("Could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			found[name] = value
		}
	}
	return found, nil
}

// Resolver looks up the token from the places a user may have put it.
// Getenv and Home are injectable for tests.
type Resolver struct {
	Loaded map[string]string
	Getenv func(string) string
	Home   string
}

// Resolve returns the first non-empty token from, in order, the
// TokenEnvVars, the loaded TokenFile, and Home/.ads/dev_key.
func (r Resolver) Resolve() (string, Source) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range TokenEnvVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v, SourceEnv
		}
	}
	if v := r.Loaded[TokenFile]; v != "" {
		return v, SourceFile
	}
	if r.Home != "" {
		data, err := os.ReadFile(filepath.Join(r.Home, ".ads", "dev_key"))
		if err == nil {
			if v := strings.TrimSpace(string(data)); v != "" {
				return v, SourceDevKey
			}
		}
	}
	return "", SourceNone
}
