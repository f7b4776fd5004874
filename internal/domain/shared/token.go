package shared

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenBytes is the entropy carried by every capability token. 16 bytes
// (128 bits) makes collisions and guessing infeasible; tokens act as
// credentials for anonymous carts and guest order lookup.
const TokenBytes = 16

// NewToken generates an unguessable opaque token from a cryptographically
// strong random source. It panics if the platform CSPRNG is unavailable,
// since issuing a guessable token would silently break the capability model.
func NewToken() string {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic("shared: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
