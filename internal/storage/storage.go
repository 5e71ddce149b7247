// Package storage owns the authoritative local list of named TOTP
// secrets and its file persistence.
//
// The file is a JSON array of {"name","secret"} records in insertion
// order. Every mutation rewrites the whole file through a temp file and
// an atomic rename, so a crash mid-write never corrupts the previous
// contents. No cross-process locking is provided: the store assumes a
// single process per secrets file.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/liberfy/open2fa/internal/errs"
	"github.com/liberfy/open2fa/internal/models"
	"github.com/liberfy/open2fa/internal/totp"
)

// File and directory modes, owner-only per the persistence contract.
const (
	dirPerms  = 0o700
	filePerms = 0o600
)

// Store holds the ordered secret list backed by a JSON file.
type Store struct {
	path    string
	log     *zap.Logger
	secrets []models.Secret
}

// Open loads the store at path, creating the containing directory with
// owner-only permissions when absent. A missing file reads as an empty
// store.
func Open(path string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return nil, &errs.ConfigError{Reason: "create open2fa directory", Err: err}
	}
	s := &Store{path: path, log: log}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.secrets = []models.Secret{}
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(raw, &s.secrets); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	return nil
}

// Save rewrites the secrets file: marshal, write a 0600 temp file in
// the same directory, then rename over the target.
func (s *Store) Save() error {
	raw, err := json.Marshal(s.secrets)
	if err != nil {
		return fmt.Errorf("marshal secrets: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, filePerms); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Path returns the secrets file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of stored secrets.
func (s *Store) Len() int { return len(s.secrets) }

// List returns the secrets in insertion order. No deduplication is
// applied; duplicates are returned as stored.
func (s *Store) List() []models.Secret {
	out := make([]models.Secret, len(s.secrets))
	copy(out, s.secrets)
	return out
}

// Contains reports whether a secret with exactly this name and value is
// already present. The pull merge uses it to stay idempotent.
func (s *Store) Contains(name, value string) bool {
	for _, sec := range s.secrets {
		if sec.Name == name && sec.Secret == value {
			return true
		}
	}
	return false
}

// Add validates value as base32 and appends {name, value} to the list.
// Duplicate names and duplicate values are allowed. The caller persists
// with Save.
func (s *Store) Add(name, value string) (models.Secret, error) {
	if _, err := totp.DecodeSecret(value); err != nil {
		var de *errs.DecodeError
		if errors.As(err, &de) {
			de.Name = name
		}
		return models.Secret{}, err
	}
	sec := models.Secret{Name: name, Secret: value}
	s.secrets = append(s.secrets, sec)
	s.log.Info("secret added", zap.String("name", name), zap.Int("total", len(s.secrets)))
	return sec, nil
}

// Append adds already-validated secrets, used by the pull merge.
func (s *Store) Append(secrets ...models.Secret) {
	s.secrets = append(s.secrets, secrets...)
}

// Delete removes every secret matched by the selector and returns the
// removed count. The selector matches by name, by value, or, when both
// are given, only records matching both. Zero matches is a
// NotFoundError. When force is false, confirm is called once with the
// total match count and may cancel the whole batch (0 removed, nil
// error). The caller persists with Save.
func (s *Store) Delete(name, value string, force bool, confirm func(matches int) bool) (int, error) {
	matched := 0
	for _, sec := range s.secrets {
		if matches(sec, name, value) {
			matched++
		}
	}
	if matched == 0 {
		return 0, &errs.NotFoundError{Name: name, Value: value}
	}
	if !force && confirm != nil && !confirm(matched) {
		return 0, nil
	}

	kept := s.secrets[:0]
	for _, sec := range s.secrets {
		if !matches(sec, name, value) {
			kept = append(kept, sec)
		}
	}
	s.secrets = kept
	s.log.Info("secrets deleted", zap.Int("removed", matched), zap.Int("remaining", len(s.secrets)))
	return matched, nil
}

func matches(sec models.Secret, name, value string) bool {
	if name != "" && sec.Name != name {
		return false
	}
	if value != "" && sec.Secret != value {
		return false
	}
	return name != "" || value != ""
}
