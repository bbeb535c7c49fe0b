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

package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
)

// Store reads and writes documents in a single directory.
type Store struct {
	Dir string

	now func() time.Time
}

// NewStore returns a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

// FilePath returns the location of target's document.
// Returns: <dir>/<target>.json with path separators replaced by dashes.
func (s *Store) FilePath(target string) string {
	safe := strings.NewReplacer("/", "-", "\\", "-").Replace(target)
	return filepath.Join(s.Dir, safe+".json")
}

// Load reads target's document and decides how the run should proceed.
// A document that cannot be trusted is set aside and reported as Absent;
// this is logged as a warning and is never fatal.
func (s *Store) Load(target string) (Outcome, *Document) {
	path := s.FilePath(target)
	log := logrus.WithFields(logrus.Fields{"target": target, "file": path})

	doc, err := s.Peek(target)
	switch {
	case err == nil && doc == nil:
		return Absent, nil
	case err != nil:
		log.Warnf("ignoring unusable state document, starting fresh: %v", err)
		s.quarantine(path, log)
		return Absent, nil
	case doc.Completed:
		return Completed, doc
	default:
		return Resumed, doc
	}
}

// Peek reads and validates target's document without side effects.
// It returns (nil, nil) when no document exists.
func (s *Store) Peek(target string) (*Document, error) {
	path := s.FilePath(target)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", scouterrors.ErrStateCorrupted, path, err)
	}

	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	if doc.TargetNode != target {
		return nil, fmt.Errorf("%w: document belongs to %q, not %q", scouterrors.ErrStateCorrupted, doc.TargetNode, target)
	}
	return doc, nil
}

// Save atomically replaces the document for doc.TargetNode.
// It uses a write-to-temp-and-rename pattern to ensure atomicity.
func (s *Store) Save(doc *Document) error {
	doc.Version = CurrentVersion
	doc.TotalEndpoints = len(doc.Endpoints)

	checksum, err := calculateChecksum(doc)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	doc.Checksum = checksum

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if mkdirErr := os.MkdirAll(s.Dir, 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create state directory: %w", mkdirErr)
	}

	return writeAtomic(s.FilePath(doc.TargetNode), data)
}

// Reset removes target's document. Removing a missing document is not an error.
func (s *Store) Reset(target string) error {
	err := os.Remove(s.FilePath(target))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}

func (s *Store) quarantine(path string, log *logrus.Entry) {
	aside := fmt.Sprintf("%s.corrupt-%d", path, s.now().Unix())
	if err := os.Rename(path, aside); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warnf("failed to set aside unusable state document: %v", err)
		}
		return
	}
	log.Infof("unusable state document moved to %s", aside)
}

func decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w (invalid JSON): %v", scouterrors.ErrStateCorrupted, err)
	}

	if doc.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: version %d is incompatible with current version %d",
			scouterrors.ErrStateVersion, doc.Version, CurrentVersion)
	}

	savedChecksum := doc.Checksum
	calculated, err := calculateChecksum(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}
	if savedChecksum != calculated {
		return nil, fmt.Errorf("%w (checksum mismatch)", scouterrors.ErrStateCorrupted)
	}

	return &doc, nil
}

func writeAtomic(path string, data []byte) error {
	tempFile := path + ".tmp"

	file, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	// Flush to disk before the rename makes it visible
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// calculateChecksum computes the SHA256 hash of the document content.
// The checksum field itself is excluded from the calculation.
func calculateChecksum(doc *Document) (string, error) {
	docCopy := *doc
	docCopy.Checksum = ""

	data, err := json.Marshal(docCopy)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
