// Package errs defines the error kinds surfaced by open2fa operations.
//
// Errors scoped to a single secret (DecodeError) are collected by batch
// operations so the remaining items are still processed. Errors scoped
// to a whole operation (AuthenticationError, NetworkError, ConfigError)
// abort it before any local file is mutated.
package errs

import "fmt"

// DecodeError reports a secret value that is not valid base32.
// It is always scoped to the one named secret.
type DecodeError struct {
	// Name is the label of the offending secret, if known.
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("secret %q is not valid base32: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("secret is not valid base32: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AuthenticationError reports a failed decryption or a remote credential
// rejection. It is fatal to the enclosing remote operation.
type AuthenticationError struct {
	// Op names the operation that failed ("decrypt", "push", ...).
	Op  string
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %v", e.Op, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// NetworkError reports a connectivity or timeout failure talking to the
// remote API. Local state is left unchanged.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NotFoundError reports a local delete selector that matched nothing.
// Remote delete of an absent name is not an error.
type NotFoundError struct {
	// Name and Value are the selector fields as given; either may be empty.
	Name  string
	Value string
}

func (e *NotFoundError) Error() string {
	switch {
	case e.Name != "" && e.Value != "":
		return fmt.Sprintf("no secret found with name %q and the given value", e.Name)
	case e.Name != "":
		return fmt.Sprintf("no secret found with name %q", e.Name)
	default:
		return "no secret found with the given value"
	}
}

// ConfigError reports an unusable configuration: an uninitialized
// identity, an unwritable directory, or a malformed UUID. It is raised
// before any network call or file mutation is attempted.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }
