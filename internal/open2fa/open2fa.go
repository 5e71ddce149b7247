// Package open2fa is the single entry point coordinating the secret
// store, identity layer, crypto, and sync client for each user
// operation. It sequences and translates; the logic lives below it.
package open2fa

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/liberfy/open2fa/internal/client"
	"github.com/liberfy/open2fa/internal/config"
	"github.com/liberfy/open2fa/internal/identity"
	"github.com/liberfy/open2fa/internal/models"
	"github.com/liberfy/open2fa/internal/storage"
	"github.com/liberfy/open2fa/internal/totp"
)

// Open2FA sequences user operations over the core components.
type Open2FA struct {
	cfg   *config.Config
	store *storage.Store
	log   *zap.Logger
}

// New opens the local store and returns the facade.
func New(cfg *config.Config, log *zap.Logger) (*Open2FA, error) {
	store, err := storage.Open(cfg.SecretsFile(), log)
	if err != nil {
		return nil, err
	}
	return &Open2FA{cfg: cfg, store: store, log: log}, nil
}

// Secrets returns the local secrets in insertion order.
func (o *Open2FA) Secrets() []models.Secret {
	return o.store.List()
}

// AddSecret validates, appends, and persists a new secret.
func (o *Open2FA) AddSecret(name, value string) (models.Secret, error) {
	sec, err := o.store.Add(name, value)
	if err != nil {
		return models.Secret{}, err
	}
	if err := o.store.Save(); err != nil {
		return models.Secret{}, err
	}
	return sec, nil
}

// RemoveSecrets deletes every local secret matching the selector and
// persists the result. See storage.Store.Delete for the matching and
// confirmation rules.
func (o *Open2FA) RemoveSecrets(name, value string, force bool, confirm func(int) bool) (int, error) {
	removed, err := o.store.Delete(name, value, force, confirm)
	if err != nil || removed == 0 {
		return removed, err
	}
	if err := o.store.Save(); err != nil {
		return 0, err
	}
	return removed, nil
}

// CodeResult is the outcome of generating a code for one secret.
type CodeResult struct {
	Name string
	Code totp.Code
	Err  error
}

// GenerateCodes computes a code for every local secret at the given
// time. A malformed secret yields a per-item error; the rest of the
// batch is still generated.
func (o *Open2FA) GenerateCodes(at time.Time) []CodeResult {
	secrets := o.store.List()
	results := make([]CodeResult, 0, len(secrets))
	for _, sec := range secrets {
		code, err := totp.Generate(sec.Secret, at)
		results = append(results, CodeResult{Name: sec.Name, Code: code, Err: err})
	}
	return results
}

// Init ensures the identity exists, creating and persisting a new UUID
// when the client is uninitialized. When a fresh identity was written
// it is also registered remotely, best effort: the identity is local
// truth and a network failure does not undo it.
func (o *Open2FA) Init(ctx context.Context, provided string, confirmReplace func() bool) (*identity.Identity, bool, error) {
	ident, created, err := identity.Init(o.cfg, provided, confirmReplace)
	if err != nil {
		return nil, false, err
	}
	if created {
		if regErr := client.New(o.cfg, ident, o.log).Register(ctx); regErr != nil {
			o.log.Warn("remote registration failed, will register on first push", zap.Error(regErr))
		}
	}
	return ident, created, nil
}

// Info describes the client state for display. Identity fields are
// empty when the client is uninitialized; IdentityErr is set when an
// identity exists but cannot be loaded, so a corrupted identity file
// is never mistaken for a missing one.
type Info struct {
	Dir          string
	APIURL       string
	NumSecrets   int
	UUID         string
	RemoteID     string
	RemoteSecret string
	IdentityErr  error
}

// Info reports the current state. It never fails: an uninitialized
// identity leaves the remote fields blank, an unreadable one is
// surfaced through IdentityErr.
func (o *Open2FA) Info() Info {
	info := Info{
		Dir:        o.cfg.Dir,
		APIURL:     o.cfg.APIURL,
		NumSecrets: o.store.Len(),
	}
	switch ident, err := identity.Load(o.cfg); {
	case err == nil:
		info.UUID = ident.UUID()
		info.RemoteID = ident.RemoteID()
		info.RemoteSecret = ident.RemoteSecret()
	case !errors.Is(err, identity.ErrUninitialized):
		info.IdentityErr = err
	}
	return info
}

// remote loads the identity and builds a sync client, failing with a
// ConfigError before any network call when uninitialized.
func (o *Open2FA) remote() (*client.Client, error) {
	ident, err := identity.Load(o.cfg)
	if err != nil {
		return nil, err
	}
	return client.New(o.cfg, ident, o.log), nil
}

// Push uploads every local secret, encrypted, to the remote API.
func (o *Open2FA) Push(ctx context.Context) (*client.PushResult, error) {
	c, err := o.remote()
	if err != nil {
		return nil, err
	}
	return c.Push(ctx, o.store.List())
}

// Pull merges the remote secrets into the local store and returns how
// many were added. Repeated pulls against an unchanged remote add none.
func (o *Open2FA) Pull(ctx context.Context) (int, error) {
	c, err := o.remote()
	if err != nil {
		return 0, err
	}
	return c.Pull(ctx, o.store)
}

// RemoteList returns the decrypted remote secrets for display without
// writing anything locally.
func (o *Open2FA) RemoteList(ctx context.Context) ([]models.Secret, error) {
	c, err := o.remote()
	if err != nil {
		return nil, err
	}
	return c.List(ctx)
}

// RemoteDelete removes every remote secret with the given name and
// returns the count, zero when nothing matched.
func (o *Open2FA) RemoteDelete(ctx context.Context, name string) (int, error) {
	c, err := o.remote()
	if err != nil {
		return 0, err
	}
	return c.Delete(ctx, name)
}
