// Package client implements the push/pull/list/delete synchronization
// protocol against the remote API. The local store is the source of
// truth: push never mutates it, pull only appends pairs not already
// present, and list never touches it at all.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/liberfy/open2fa/internal/config"
	"github.com/liberfy/open2fa/internal/crypto"
	"github.com/liberfy/open2fa/internal/errs"
	"github.com/liberfy/open2fa/internal/identity"
	"github.com/liberfy/open2fa/internal/models"
	"github.com/liberfy/open2fa/internal/remoteapi"
	"github.com/liberfy/open2fa/internal/storage"
	"github.com/liberfy/open2fa/internal/totp"
)

// Client talks to one remote API on behalf of one identity.
type Client struct {
	http    *http.Client
	baseURL string
	ident   *identity.Identity
	log     *zap.Logger
}

// New builds a Client. The HTTP timeout comes from the configuration;
// there is no retry or backoff, a failed call is reported and local
// state is left unchanged.
func New(cfg *config.Config, ident *identity.Identity, log *zap.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.APIURL,
		ident:   ident,
		log:     log,
	}
}

// PushItem reports the outcome for one secret in a push.
type PushItem struct {
	Name string
	Err  error
}

// PushResult itemizes a push: secrets accepted by the server and
// secrets skipped client-side. Partial failure is reported, never
// rolled back.
type PushResult struct {
	Pushed  []string
	Skipped []PushItem
}

// Register binds the derived credential pair on the server. It is
// idempotent and carries no payload.
func (c *Client) Register(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/register", nil)
	if err != nil {
		return &errs.NetworkError{Op: "register", Err: err}
	}
	defer resp.Body.Close()
	return c.checkStatus("register", resp)
}

// Push encrypts every local secret and uploads the batch in a single
// request, so a mid-request network failure is all-or-nothing for the
// uploadable set; the server itemizes the accepted names in its reply.
// A secret whose value is not valid base32 (possible through a
// hand-edited secrets file) is skipped and itemized, never uploaded,
// and does not abort the rest of the batch.
func (c *Client) Push(ctx context.Context, secrets []models.Secret) (*PushResult, error) {
	result := &PushResult{}
	req := remoteapi.PushRequest{}
	for _, sec := range secrets {
		if _, err := totp.DecodeSecret(sec.Secret); err != nil {
			var de *errs.DecodeError
			if errors.As(err, &de) {
				de.Name = sec.Name
			}
			result.Skipped = append(result.Skipped, PushItem{Name: sec.Name, Err: err})
			continue
		}
		bundle, err := crypto.Encrypt(sec.Secret, c.ident.Key())
		if err != nil {
			result.Skipped = append(result.Skipped, PushItem{Name: sec.Name, Err: err})
			continue
		}
		req.TOTPs = append(req.TOTPs, models.EncryptedSecret{Name: sec.Name, EncSecret: bundle})
	}
	if len(req.TOTPs) == 0 {
		return result, nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal push request: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/totps", body)
	if err != nil {
		return nil, &errs.NetworkError{Op: "push", Err: err}
	}
	defer resp.Body.Close()
	if err := c.checkStatus("push", resp); err != nil {
		return nil, err
	}

	var pushResp remoteapi.PushResponse
	if err := json.NewDecoder(resp.Body).Decode(&pushResp); err != nil {
		return nil, &errs.NetworkError{Op: "push", Err: err}
	}
	result.Pushed = pushResp.Accepted
	c.log.Info("pushed secrets", zap.Int("count", len(result.Pushed)), zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

// Pull fetches and decrypts all remote secrets and merges them into the
// store, skipping any (name, value) pair already present. Everything is
// decrypted before the store is touched, so a decryption failure leaves
// it unchanged. Returns the number of secrets added.
func (c *Client) Pull(ctx context.Context, store *storage.Store) (int, error) {
	fetched, err := c.fetch(ctx, "pull")
	if err != nil {
		return 0, err
	}

	added := 0
	for _, sec := range fetched {
		if store.Contains(sec.Name, sec.Secret) {
			continue
		}
		store.Append(sec)
		added++
	}
	if added > 0 {
		if err := store.Save(); err != nil {
			return 0, err
		}
	}
	c.log.Info("pulled secrets", zap.Int("fetched", len(fetched)), zap.Int("added", added))
	return added, nil
}

// List fetches and decrypts the remote secrets for display. It takes no
// store reference and performs no local writes under any circumstance.
func (c *Client) List(ctx context.Context) ([]models.Secret, error) {
	return c.fetch(ctx, "list")
}

// Delete removes every remote entry with the given name. Deleting a
// name with no matches succeeds with a zero count.
func (c *Client) Delete(ctx context.Context, name string) (int, error) {
	path := "/totps?name=" + url.QueryEscape(name)
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return 0, &errs.NetworkError{Op: "remote delete", Err: err}
	}
	defer resp.Body.Close()
	if err := c.checkStatus("remote delete", resp); err != nil {
		return 0, err
	}

	var delResp remoteapi.DeleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&delResp); err != nil {
		return 0, &errs.NetworkError{Op: "remote delete", Err: err}
	}
	c.log.Info("deleted remote secrets", zap.String("name", name), zap.Int("count", delResp.Deleted))
	return delResp.Deleted, nil
}

func (c *Client) fetch(ctx context.Context, op string) ([]models.Secret, error) {
	resp, err := c.do(ctx, http.MethodGet, "/totps", nil)
	if err != nil {
		return nil, &errs.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	if err := c.checkStatus(op, resp); err != nil {
		return nil, err
	}

	var listResp remoteapi.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, &errs.NetworkError{Op: op, Err: err}
	}

	secrets := make([]models.Secret, 0, len(listResp.TOTPs))
	for _, t := range listResp.TOTPs {
		plain, err := crypto.Decrypt(t.EncSecret, c.ident.Key())
		if err != nil {
			// A bundle this identity cannot open means the wrong key;
			// the whole operation fails rather than return a partial set.
			return nil, err
		}
		secrets = append(secrets, models.Secret{Name: t.Name, Secret: plain})
	}
	return secrets, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set(remoteapi.HeaderID, c.ident.RemoteID())
	req.Header.Set(remoteapi.HeaderSecret, c.ident.RemoteSecret())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

func (c *Client) checkStatus(op string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &errs.AuthenticationError{Op: op, Err: fmt.Errorf("server rejected credentials (%s)", resp.Status)}
	default:
		return &errs.NetworkError{Op: op, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
}
