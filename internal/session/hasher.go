// Package session handles the anonymous per-client session identity.
// Clients mint a UUID once and send it as a header; the server never
// stores the raw identifier, only a salted hash used for vote
// de-duplication.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// HeaderName is the HTTP header carrying the client session identifier.
const HeaderName = "X-Session-ID"

// AnonymousSession substitutes for a missing session header.
const AnonymousSession = "anonymous-session"

const defaultSalt = "civiclens-session-salt"

// Hasher derives stable, non-reversible dedup keys from session ids.
type Hasher struct {
	salt string
}

// NewHasher constructs a Hasher. An empty salt falls back to the built-in
// default so demo deployments work without configuration.
func NewHasher(salt string) *Hasher {
	if strings.TrimSpace(salt) == "" {
		salt = defaultSalt
	}
	return &Hasher{salt: salt}
}

// Hash returns the hex SHA-256 of salt:sessionID. Empty identifiers map
// to the shared anonymous session.
func (h *Hasher) Hash(sessionID string) string {
	if strings.TrimSpace(sessionID) == "" {
		sessionID = AnonymousSession
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", h.salt, sessionID)))
	return hex.EncodeToString(sum[:])
}
