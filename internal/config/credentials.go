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

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
)

type credentialsFile struct {
	APIKey string `yaml:"api_key"`
}

// LoadCredential returns the shared API key. The environment variable named
// by api.key_env wins over the credentials file. A missing or empty key is
// fatal and wraps ErrMissingCredential.
func LoadCredential(cfg *Config) (string, error) {
	if cfg.API.KeyEnv != "" {
		if key := strings.TrimSpace(os.Getenv(cfg.API.KeyEnv)); key != "" {
			return key, nil
		}
	}

	if cfg.API.CredentialsFile == "" {
		return "", fmt.Errorf("%w: set %s or api.credentials_file", scouterrors.ErrMissingCredential, cfg.API.KeyEnv)
	}

	data, err := os.ReadFile(cfg.API.CredentialsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", scouterrors.ErrMissingCredential, cfg.API.CredentialsFile)
		}
		return "", fmt.Errorf("%w: failed to read %s: %v", scouterrors.ErrMissingCredential, cfg.API.CredentialsFile, err)
	}

	var creds credentialsFile
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("%w: failed to parse %s: %v", scouterrors.ErrMissingCredential, cfg.API.CredentialsFile, err)
	}

	key := strings.TrimSpace(creds.APIKey)
	if key == "" {
		return "", fmt.Errorf("%w: api_key is empty in %s", scouterrors.ErrMissingCredential, cfg.API.CredentialsFile)
	}
	return key, nil
}
