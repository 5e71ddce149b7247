// Package models defines the core data structures shared between the
// local secret store and the remote sync client.
package models

// Secret is a named TOTP secret as it lives in the local store.
// Names are not unique: two entries may share a name, a value, or both.
type Secret struct {
	// Name is the user-chosen label for the secret (usually an org name).
	Name string `json:"name"`
	// Secret is the base32-encoded TOTP shared secret.
	Secret string `json:"secret"`
}

// EncryptedSecret is the remote-side view of a secret. The server only
// ever stores and returns this opaque form; the plaintext value never
// leaves the client.
type EncryptedSecret struct {
	// Name is the label of the secret, stored in the clear.
	Name string `json:"name"`
	// EncSecret is the base64-encoded nonce+ciphertext+tag bundle
	// produced by the crypto package.
	EncSecret string `json:"enc_secret"`
}
