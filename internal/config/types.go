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

package config

// Config is the complete sirseer-scout configuration as read from YAML.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig describes how to reach and authenticate against the simulation API.
type APIConfig struct {
	BaseURL         string `yaml:"base_url"`
	KeyHeader       string `yaml:"key_header"`
	CredentialsFile string `yaml:"credentials_file"`
	KeyEnv          string `yaml:"key_env"`
}

// DiscoveryConfig controls the traversal.
type DiscoveryConfig struct {
	Roots    []string `yaml:"roots"`
	MaxDepth int      `yaml:"max_depth"`

	// RequireAllEndpoints keeps a path out of the completed set when any of
	// its endpoint fetches failed, so the next run retries them.
	RequireAllEndpoints bool `yaml:"require_all_endpoints"`

	// SkipRecordedEndpoints avoids re-fetching endpoints already present in
	// a resumed state document.
	SkipRecordedEndpoints bool `yaml:"skip_recorded_endpoints"`
}

// RateLimitConfig bounds the request rate against the simulation API.
type RateLimitConfig struct {
	DelayMs      int  `yaml:"delay_ms"`
	TimeoutMs    int  `yaml:"timeout_ms"`
	ShowProgress bool `yaml:"show_progress"`
}

// StorageConfig locates every file the tool writes.
type StorageConfig struct {
	StateDir    string `yaml:"state_dir"`
	ReportDir   string `yaml:"report_dir"`
	CatalogPath string `yaml:"catalog_path"`
}

// LoggingConfig mirrors logger.LogOptions.
type LoggingConfig struct {
	Verbose      bool   `yaml:"verbose"`
	ToFile       bool   `yaml:"to_file"`
	Dir          string `yaml:"dir"`
	DisableColor bool   `yaml:"disable_color"`
}

// DefaultRoots are the top-level nodes of the simulation API, discovered in
// this order when no roots are configured.
func DefaultRoots() []string {
	return []string{"aircraft", "environment", "simulation"}
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         "http://localhost:8111/api",
			KeyHeader:       "X-API-Key",
			CredentialsFile: "~/.sirseer/credentials.yaml",
			KeyEnv:          "SCOUT_API_KEY",
		},
		Discovery: DiscoveryConfig{
			Roots:                 DefaultRoots(),
			MaxDepth:              10,
			SkipRecordedEndpoints: true,
		},
		RateLimit: RateLimitConfig{
			DelayMs:      250,
			TimeoutMs:    5000,
			ShowProgress: true,
		},
		Storage: StorageConfig{
			StateDir:  "~/.sirseer/scout/state",
			ReportDir: "~/.sirseer/scout/reports",
		},
		Logging: LoggingConfig{
			Dir: "~/.sirseer/scout/logs",
		},
	}
}
