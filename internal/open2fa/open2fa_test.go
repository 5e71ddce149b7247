package open2fa

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/liberfy/open2fa/internal/config"
	"github.com/liberfy/open2fa/internal/errs"
	"github.com/liberfy/open2fa/internal/remoteapi/apitest"
)

func testApp(t *testing.T, apiURL string) *Open2FA {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir(), APIURL: apiURL, Timeout: 5 * time.Second}
	app, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return app
}

func TestAddSecret_Persists(t *testing.T) {
	app := testApp(t, "")
	if _, err := app.AddSecret("abc123", "I65VU7K5ZQL7WB4E"); err != nil {
		t.Fatal(err)
	}

	// A fresh facade over the same directory sees the secret.
	reopened, err := New(app.cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	got := reopened.Secrets()
	if len(got) != 1 || got[0].Name != "abc123" {
		t.Fatalf("reopened store = %+v; want the added secret", got)
	}
}

func TestRemoveSecrets_Persists(t *testing.T) {
	app := testApp(t, "")
	_, _ = app.AddSecret("abc123", "I65VU7K5ZQL7WB4E")

	removed, err := app.RemoveSecrets("abc123", "", true, nil)
	if err != nil || removed != 1 {
		t.Fatalf("RemoveSecrets = (%d, %v); want (1, nil)", removed, err)
	}

	reopened, err := New(app.cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(reopened.Secrets()) != 0 {
		t.Error("deleted secret still present after reopen")
	}
}

func TestGenerateCodes_BestEffortBatch(t *testing.T) {
	app := testApp(t, "")
	// A malformed record can only arrive via a hand-edited file; Add
	// would reject it.
	raw := `[{"name":"good","secret":"JBSWY3DPEHPK3PXP"},{"name":"broken","secret":"!!!"},{"name":"also-good","secret":"I65VU7K5ZQL7WB4E"}]`
	if err := os.WriteFile(app.cfg.SecretsFile(), []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	app, err := New(app.cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	results := app.GenerateCodes(time.Unix(59, 0))
	if len(results) != 3 {
		t.Fatalf("got %d results; want one per secret", len(results))
	}
	var decodeErrs, codes int
	for _, r := range results {
		if r.Err != nil {
			var de *errs.DecodeError
			if !errors.As(r.Err, &de) {
				t.Errorf("item error for %q is %v; want DecodeError", r.Name, r.Err)
			}
			decodeErrs++
			continue
		}
		if len(r.Code.Value) != 6 {
			t.Errorf("code for %q is %q; want 6 digits", r.Name, r.Code.Value)
		}
		codes++
	}
	if decodeErrs != 1 || codes != 2 {
		t.Errorf("batch = %d errors / %d codes; want 1 / 2", decodeErrs, codes)
	}
}

func TestRemoteOps_Uninitialized(t *testing.T) {
	app := testApp(t, "")
	var ce *errs.ConfigError

	if _, err := app.Push(context.Background()); !errors.As(err, &ce) {
		t.Errorf("Push on uninitialized client = %v; want ConfigError", err)
	}
	if _, err := app.Pull(context.Background()); !errors.As(err, &ce) {
		t.Errorf("Pull on uninitialized client = %v; want ConfigError", err)
	}
	if _, err := app.RemoteList(context.Background()); !errors.As(err, &ce) {
		t.Errorf("RemoteList on uninitialized client = %v; want ConfigError", err)
	}
	if _, err := app.RemoteDelete(context.Background(), "x"); !errors.As(err, &ce) {
		t.Errorf("RemoteDelete on uninitialized client = %v; want ConfigError", err)
	}
}

func TestInitThenInfo_StableDerivations(t *testing.T) {
	srv := httptest.NewServer(apitest.New().Router())
	defer srv.Close()

	app := testApp(t, srv.URL)
	ident, created, err := app.Init(context.Background(), "", nil)
	if err != nil || !created {
		t.Fatalf("Init = (created=%v, err=%v); want a fresh identity", created, err)
	}

	first := app.Info()
	if first.UUID != ident.UUID() || first.RemoteID == "" || first.RemoteSecret == "" {
		t.Fatalf("Info after init = %+v; want populated identity fields", first)
	}
	for i := 0; i < 3; i++ {
		again := app.Info()
		if again.RemoteID != first.RemoteID || again.RemoteSecret != first.RemoteSecret {
			t.Fatal("derived credentials changed between Info calls without re-init")
		}
	}
}

func TestInfo_DistinguishesUnreadableIdentity(t *testing.T) {
	app := testApp(t, "")

	// Never initialized: blank fields, no error.
	info := app.Info()
	if info.UUID != "" || info.IdentityErr != nil {
		t.Fatalf("Info on uninitialized client = %+v; want blank fields and no error", info)
	}

	// A corrupted identity file is reported, not shown as missing.
	if err := os.WriteFile(app.cfg.UUIDFile(), []byte("not-a-uuid\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	info = app.Info()
	if info.IdentityErr == nil {
		t.Fatal("Info over a corrupted identity file reports no error")
	}
	if info.UUID != "" || info.RemoteID != "" || info.RemoteSecret != "" {
		t.Errorf("Info over a corrupted identity file = %+v; want blank identity fields", info)
	}
}

func TestPushPull_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(apitest.New().Router())
	defer srv.Close()

	// Device one: init, add, push.
	one := testApp(t, srv.URL)
	ident, _, err := one.Init(context.Background(), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := one.AddSecret("github", "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatal(err)
	}
	if _, err := one.Push(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Device two: same UUID via the override variable, empty store.
	cfg := &config.Config{Dir: t.TempDir(), APIURL: srv.URL, Timeout: 5 * time.Second, UUID: ident.UUID()}
	two, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	added, err := two.Pull(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Fatalf("pull on second device added %d; want 1", added)
	}
	got := two.Secrets()
	if len(got) != 1 || got[0].Secret != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("restored secrets = %+v", got)
	}
}
