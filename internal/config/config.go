// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads sirseer-scout settings from YAML, applies environment
// overrides and validates the result before any request is issued.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
)

// LoadConfig reads configuration from configPath, or from the first default
// location that exists when configPath is empty.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.API.CredentialsFile = expandPath(cfg.API.CredentialsFile)
	cfg.Storage.StateDir = expandPath(cfg.Storage.StateDir)
	cfg.Storage.ReportDir = expandPath(cfg.Storage.ReportDir)
	cfg.Storage.CatalogPath = expandPath(cfg.Storage.CatalogPath)
	cfg.Logging.Dir = expandPath(cfg.Logging.Dir)

	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{
		".sirseer-scout.yaml",
		".sirseer-scout.yml",
	}
	if home, err := homedir.Dir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".sirseer", "scout.yaml"),
			filepath.Join(home, ".sirseer", "scout.yml"),
		)
	}
	return paths
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if baseURL := os.Getenv("SCOUT_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	if roots := os.Getenv("SCOUT_ROOTS"); roots != "" {
		cfg.Discovery.Roots = splitList(roots)
	}
	if depth := os.Getenv("SCOUT_MAX_DEPTH"); depth != "" {
		if d, err := parseNonNegativeInt(depth); err == nil {
			cfg.Discovery.MaxDepth = d
		}
	}

	if delay := os.Getenv("SCOUT_DELAY_MS"); delay != "" {
		if d, err := parseNonNegativeInt(delay); err == nil {
			cfg.RateLimit.DelayMs = d
		}
	}
	if timeout := os.Getenv("SCOUT_TIMEOUT_MS"); timeout != "" {
		if d, err := parseNonNegativeInt(timeout); err == nil {
			cfg.RateLimit.TimeoutMs = d
		}
	}
	if show := os.Getenv("SCOUT_SHOW_PROGRESS"); show != "" {
		cfg.RateLimit.ShowProgress = parseBool(show)
	}

	if stateDir := os.Getenv("SCOUT_STATE_DIR"); stateDir != "" {
		cfg.Storage.StateDir = stateDir
	}
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		// "~user/" forms are left alone
		expanded = path
	}
	return os.ExpandEnv(expanded)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseNonNegativeInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i < 0 {
		return 0, fmt.Errorf("value must not be negative, got: %d", i)
	}
	return i, nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// Delay is the pause after every successful request.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.RateLimit.DelayMs) * time.Millisecond
}

// Timeout bounds a single request.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RateLimit.TimeoutMs) * time.Millisecond
}

// Validate reports the first configuration problem found, wrapped in
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %v", scouterrors.ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url cannot be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url %q must be an absolute http(s) url", c.API.BaseURL)
	}
	if c.API.KeyHeader == "" {
		return fmt.Errorf("api key header cannot be empty")
	}
	if c.Discovery.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got: %d", c.Discovery.MaxDepth)
	}
	if c.RateLimit.DelayMs < 0 {
		return fmt.Errorf("delay must not be negative, got: %dms", c.RateLimit.DelayMs)
	}
	if c.RateLimit.TimeoutMs < 100 {
		return fmt.Errorf("timeout must be at least 100ms, got: %dms", c.RateLimit.TimeoutMs)
	}
	if c.Storage.StateDir == "" {
		return fmt.Errorf("state directory cannot be empty")
	}
	if len(c.Discovery.Roots) == 0 {
		return fmt.Errorf("at least one root node is required")
	}
	seen := make(map[string]bool, len(c.Discovery.Roots))
	for _, root := range c.Discovery.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("root node names cannot be empty")
		}
		if strings.ContainsAny(root, "./") {
			return fmt.Errorf("root node %q must not contain '.' or '/'", root)
		}
		if seen[root] {
			return fmt.Errorf("root node %q is listed twice", root)
		}
		seen[root] = true
	}
	return nil
}
