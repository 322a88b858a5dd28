package types

import (
	"github.com/google/uuid"
)

// URLToken is the opaque token embedded in a webhook callback URL. It identifies one
// subscription without revealing the team it belongs to.
type URLToken string

// NewURLToken creates a random UUIDv4 token. It must not encode creation time.
func NewURLToken() URLToken {
	return URLToken(uuid.NewString())
}

// String returns the string representation of URLToken
func (t URLToken) String() string {
	return string(t)
}

// IsValid checks if the token is non-empty and a parseable UUID
func (t URLToken) IsValid() bool {
	_, err := uuid.Parse(string(t))
	return err == nil
}
