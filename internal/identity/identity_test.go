package identity

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/liberfy/open2fa/internal/config"
	"github.com/liberfy/open2fa/internal/errs"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{Dir: t.TempDir()}
}

func TestNew_Deterministic(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	a, err := New(id)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(id)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(a.Key(), b.Key()) {
		t.Error("Key not deterministic for a fixed UUID")
	}
	if a.RemoteID() != b.RemoteID() {
		t.Error("RemoteID not deterministic for a fixed UUID")
	}
	if a.RemoteSecret() != b.RemoteSecret() {
		t.Error("RemoteSecret not deterministic for a fixed UUID")
	}
}

func TestNew_DomainSeparation(t *testing.T) {
	a, err := New(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	if err != nil {
		t.Fatal(err)
	}
	if a.RemoteID() == a.RemoteSecret() {
		t.Error("RemoteID and RemoteSecret must be independent derivations")
	}
	if len(a.Key()) != 32 {
		t.Errorf("key length = %d; want 32", len(a.Key()))
	}

	b, err := New(uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479"))
	if err != nil {
		t.Fatal(err)
	}
	if a.RemoteID() == b.RemoteID() {
		t.Error("distinct UUIDs produced the same RemoteID")
	}
}

func TestLoad_Uninitialized(t *testing.T) {
	_, err := Load(testConfig(t))
	var ce *errs.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
	if !errors.Is(err, ErrUninitialized) {
		t.Errorf("want ErrUninitialized, got %v", err)
	}
}

func TestLoad_OverrideWinsOverFile(t *testing.T) {
	cfg := testConfig(t)
	fileUUID := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	overrideUUID := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	if err := os.WriteFile(cfg.UUIDFile(), []byte(fileUUID), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg.UUID = overrideUUID
	ident, err := Load(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if ident.UUID() != overrideUUID {
		t.Errorf("UUID = %s; want override %s", ident.UUID(), overrideUUID)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.UUIDFile(), []byte("not-a-uuid"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(cfg)
	var ce *errs.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestInit_CreatesAndPersists(t *testing.T) {
	cfg := testConfig(t)
	ident, created, err := Init(cfg, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected a new identity to be created")
	}
	if ident.id.Version() != 4 {
		t.Errorf("generated UUID version = %d; want 4", ident.id.Version())
	}

	fi, err := os.Stat(cfg.UUIDFile())
	if err != nil {
		t.Fatalf("identity file not written: %v", err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("identity file mode = %o; want 600", perm)
	}

	// Loading reproduces the same identity and derivations.
	loaded, err := Load(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.UUID() != ident.UUID() || loaded.RemoteID() != ident.RemoteID() {
		t.Error("loaded identity differs from the one Init returned")
	}
}

func TestInit_ProvidedUUID(t *testing.T) {
	cfg := testConfig(t)
	want := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	ident, created, err := Init(cfg, want, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !created || ident.UUID() != want {
		t.Errorf("Init(provided) = (%s, %v); want (%s, true)", ident.UUID(), created, want)
	}
}

func TestInit_ReplaceRequiresConfirmation(t *testing.T) {
	cfg := testConfig(t)
	first, _, err := Init(cfg, "", nil)
	if err != nil {
		t.Fatal(err)
	}

	// Refused: existing identity kept.
	kept, created, err := Init(cfg, "", func() bool { return false })
	if err != nil {
		t.Fatal(err)
	}
	if created || kept.UUID() != first.UUID() {
		t.Errorf("refused re-init must keep the identity; created=%v", created)
	}

	// Confirmed: identity replaced and prior derivations invalidated.
	replaced, created, err := Init(cfg, "", func() bool { return true })
	if err != nil {
		t.Fatal(err)
	}
	if !created || replaced.UUID() == first.UUID() {
		t.Error("confirmed re-init must write a fresh identity")
	}
	if replaced.RemoteID() == first.RemoteID() {
		t.Error("replaced identity kept the old RemoteID")
	}
}

func TestInit_OverrideShortCircuits(t *testing.T) {
	cfg := testConfig(t)
	cfg.UUID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	ident, created, err := Init(cfg, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("Init with the override variable set must not create a file")
	}
	if ident.UUID() != cfg.UUID {
		t.Errorf("UUID = %s; want override", ident.UUID())
	}
	if _, err := os.Stat(filepath.Join(cfg.Dir, config.UUIDFileName)); !os.IsNotExist(err) {
		t.Error("identity file written despite override")
	}
}
