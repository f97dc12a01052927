// Package identity wraps the external auth provider boundary. The real
// provider lives outside this repo; the signed-in principal is used only
// to derive a default display identity for the join form.
package identity

import (
	"os"
	"strings"
)

// Principal is the signed-in user as reported by the provider.
type Principal struct {
	ID           string
	FirstName    string
	EmailAddress string
}

// Provider supplies the current principal, if any.
type Provider interface {
	Current() (Principal, bool)
}

// DefaultIdentity derives a join-form default from the principal:
// first name, else the local part of the email, else the fallback.
func DefaultIdentity(p Provider, fallback string) string {
	principal, ok := p.Current()
	if !ok {
		return fallback
	}
	if principal.FirstName != "" {
		return principal.FirstName
	}
	if at := strings.IndexByte(principal.EmailAddress, '@'); at > 0 {
		return principal.EmailAddress[:at]
	}
	return fallback
}

// EnvProvider reads the principal from the environment, standing in for
// a real identity provider during development.
type EnvProvider struct{}

func (EnvProvider) Current() (Principal, bool) {
	id := os.Getenv("CHAT_USER_ID")
	if id == "" {
		return Principal{}, false
	}
	return Principal{
		ID:           id,
		FirstName:    os.Getenv("CHAT_USER_NAME"),
		EmailAddress: os.Getenv("CHAT_USER_EMAIL"),
	}, true
}

// StaticProvider returns a fixed principal; used in tests.
type StaticProvider struct {
	Principal Principal
}

func (s StaticProvider) Current() (Principal, bool) {
	return s.Principal, s.Principal.ID != ""
}
