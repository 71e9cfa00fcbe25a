package gateway

import "errors"

var (
	// ErrNoCredential means the call was attempted without an auth token.
	ErrNoCredential = errors.New("missing auth credential")

	// ErrNotFound maps the gateway's 404 responses.
	ErrNotFound = errors.New("resource not found at gateway")
)
