// Package auth maps API tokens to caller identities.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidToken = errors.New("invalid API token")

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

// Authenticator resolves a bearer token to the owner it acts as.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// StaticAuthenticator holds a fixed token-to-owner table loaded from
// configuration. Fine for single-tenant and small deployments.
type StaticAuthenticator struct {
	tokens map[string]string
}

// NewStaticAuthenticator parses "token:owner" pairs separated by commas,
// e.g. "s3cret:alice,t0ken:bob".
func NewStaticAuthenticator(pairs string) (*StaticAuthenticator, error) {
	tokens := make(map[string]string)

	for _, pair := range strings.Split(pairs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		token, owner, found := strings.Cut(pair, ":")
		if !found || token == "" || owner == "" {
			return nil, fmt.Errorf("invalid token pair %q, expected token:owner", pair)
		}

		tokens[token] = owner
	}

	return &StaticAuthenticator{tokens: tokens}, nil
}

func (a *StaticAuthenticator) Authenticate(token string) (string, error) {
	owner, ok := a.tokens[token]
	if !ok {
		return "", ErrInvalidToken
	}

	return owner, nil
}
