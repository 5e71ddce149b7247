// Package identity owns the user's durable UUID and everything derived
// from it: the local encryption key and the RemoteID/RemoteSecret
// credential pair.
//
// All three derivations are independent HKDF-SHA256 expansions of the
// UUID bytes under distinct info strings. Knowing any derived value
// reveals neither the UUID nor the other derived values, and a fixed
// UUID always reproduces the same outputs. That determinism is what
// makes cross-device restore from the UUID alone possible.
package identity

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/hkdf"

	"github.com/liberfy/open2fa/internal/config"
	"github.com/liberfy/open2fa/internal/errs"
)

// Domain-separation contexts for the three derivations.
const (
	hkdfInfoKey          = "open2fa/enc-key/v1"
	hkdfInfoRemoteID     = "open2fa/remote-id/v1"
	hkdfInfoRemoteSecret = "open2fa/remote-secret/v1"
)

const (
	keyLen          = 32
	remoteIDLen     = 16
	remoteSecretLen = 32
)

// Identity is an initialized root of trust. All derived values are
// computed once at construction and cached for the process lifetime.
type Identity struct {
	id           uuid.UUID
	key          []byte
	remoteID     string
	remoteSecret string
}

// New builds an Identity and its derivations from a UUID.
func New(id uuid.UUID) (*Identity, error) {
	key, err := derive(id, hkdfInfoKey, keyLen)
	if err != nil {
		return nil, err
	}
	rid, err := derive(id, hkdfInfoRemoteID, remoteIDLen)
	if err != nil {
		return nil, err
	}
	rsec, err := derive(id, hkdfInfoRemoteSecret, remoteSecretLen)
	if err != nil {
		return nil, err
	}
	return &Identity{
		id:           id,
		key:          key,
		remoteID:     base58.Encode(rid),
		remoteSecret: base58.Encode(rsec),
	}, nil
}

// UUID returns the canonical string form of the identity UUID.
func (i *Identity) UUID() string { return i.id.String() }

// Key returns the 32-byte encryption key. It is never logged or shown.
func (i *Identity) Key() []byte { return i.key }

// RemoteID identifies the encrypted blob collection on the server.
func (i *Identity) RemoteID() string { return i.remoteID }

// RemoteSecret authenticates requests to the server.
func (i *Identity) RemoteSecret() string { return i.remoteSecret }

func derive(id uuid.UUID, info string, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, id[:], nil, []byte(info))
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("derive %s: %w", info, err)
	}
	return out, nil
}

// ErrUninitialized is returned by Load when no identity exists at all.
// Callers use it to tell "never initialized" apart from an identity
// file that exists but cannot be read or parsed.
var ErrUninitialized = &errs.ConfigError{
	Reason: "remote capabilities not initialized, run 'open2fa remote init' first",
}

// Load resolves the identity: the OPEN2FA_UUID override wins over the
// persisted file. When neither exists the client is uninitialized and
// every remote operation except init fails with ErrUninitialized.
func Load(cfg *config.Config) (*Identity, error) {
	raw := cfg.UUID
	if raw == "" {
		b, err := os.ReadFile(cfg.UUIDFile())
		if os.IsNotExist(err) {
			return nil, ErrUninitialized
		}
		if err != nil {
			return nil, &errs.ConfigError{Reason: "read identity file", Err: err}
		}
		raw = string(b)
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, &errs.ConfigError{Reason: "malformed identity UUID", Err: err}
	}
	return New(id)
}

// Init transitions an uninitialized client to initialized. When
// provided is empty a fresh UUID v4 is generated. Re-running Init over
// an existing identity is destructive: confirmReplace must approve the
// replacement, otherwise the existing identity is kept. The returned
// bool reports whether a new identity was written.
func Init(cfg *config.Config, provided string, confirmReplace func() bool) (*Identity, bool, error) {
	if cfg.UUID != "" {
		// The override variable takes precedence over any file; there
		// is nothing to create.
		id, err := Load(cfg)
		return id, false, err
	}

	if _, err := os.Stat(cfg.UUIDFile()); err == nil {
		if confirmReplace == nil || !confirmReplace() {
			id, err := Load(cfg)
			return id, false, err
		}
	} else if !os.IsNotExist(err) {
		return nil, false, &errs.ConfigError{Reason: "stat identity file", Err: err}
	}

	id := uuid.New()
	if provided != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(provided))
		if err != nil {
			return nil, false, &errs.ConfigError{Reason: "malformed provided UUID", Err: err}
		}
		id = parsed
	}

	if err := os.MkdirAll(filepath.Dir(cfg.UUIDFile()), 0o700); err != nil {
		return nil, false, &errs.ConfigError{Reason: "create open2fa directory", Err: err}
	}
	if err := os.WriteFile(cfg.UUIDFile(), []byte(id.String()+"\n"), 0o600); err != nil {
		return nil, false, &errs.ConfigError{Reason: "write identity file", Err: err}
	}

	ident, err := New(id)
	if err != nil {
		return nil, false, err
	}
	return ident, true, nil
}
