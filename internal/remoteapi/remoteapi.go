// Package remoteapi defines the client-observable wire contract of the
// open2fa remote API. The server's own persistence is out of scope; the
// apitest subpackage provides an in-memory double of this contract for
// client tests.
//
// Every request carries the derived credential pair in headers: the
// RemoteID selects the encrypted blob collection, the RemoteSecret
// authenticates the request. The raw identity UUID is never sent.
//
// Endpoints under the API base URL:
//
//	POST   /register       bind the credential pair (idempotent)
//	POST   /totps          upload encrypted secrets; entries replace any
//	                       previously uploaded entries with the same name
//	GET    /totps          list all encrypted secrets for the RemoteID
//	DELETE /totps?name=N   delete every entry named N; deleting a name
//	                       with no matches succeeds with a zero count
package remoteapi

import "github.com/liberfy/open2fa/internal/models"

// Authentication headers.
const (
	HeaderID     = "X-Open2FA-ID"
	HeaderSecret = "X-Open2FA-Secret"
)

// PushRequest is the body of POST /totps.
type PushRequest struct {
	TOTPs []models.EncryptedSecret `json:"totps"`
}

// PushResponse reports the names the server accepted, itemized so the
// client can report partial results.
type PushResponse struct {
	Accepted []string `json:"accepted"`
}

// ListResponse is the body of GET /totps.
type ListResponse struct {
	TOTPs []models.EncryptedSecret `json:"totps"`
}

// DeleteResponse reports how many entries a DELETE removed. Zero is a
// success, not an error.
type DeleteResponse struct {
	Deleted int `json:"deleted"`
}
