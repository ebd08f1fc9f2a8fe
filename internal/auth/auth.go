package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// HeaderAPIKey carries the shared secret on inbound requests.
const HeaderAPIKey = "x-api-key"

var (
	ErrMissingKey = errors.New("missing api key")
	ErrInvalidKey = errors.New("invalid api key")
)

type Authenticator interface {
	Authenticate(r *http.Request) error
}

// APIKeyAuthenticator accepts a request only when its x-api-key header equals
// the configured secret exactly. An empty secret accepts nothing.
type APIKeyAuthenticator struct {
	secret []byte
}

func NewAPIKeyAuthenticator(secret string) *APIKeyAuthenticator {
	return &APIKeyAuthenticator{secret: []byte(secret)}
}

func (a *APIKeyAuthenticator) Authenticate(r *http.Request) error {
	key := r.Header.Get(HeaderAPIKey)
	if key == "" {
		return ErrMissingKey
	}
	if len(a.secret) == 0 || subtle.ConstantTimeCompare([]byte(key), a.secret) != 1 {
		return ErrInvalidKey
	}
	return nil
}
