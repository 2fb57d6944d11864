// Package session holds the bearer token an adapter attaches to its requests.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Holder is the only mutable state of an adapter instance. A request reads the
// token once when it is built; login, refresh and logout write it.
type Holder struct {
	mu      sync.RWMutex
	access  string
	refresh string
	user    *domain.User
	now     func() time.Time
}

// New returns a holder seeded with an access token (may be empty).
func New(token string) *Holder {
	return &Holder{access: token, now: time.Now}
}

// Resume returns a holder seeded with both tokens of an existing session.
func Resume(access, refresh string) *Holder {
	return &Holder{access: access, refresh: refresh, now: time.Now}
}

// Store keeps the tokens returned by login or refresh. An empty refresh token
// keeps the previous one.
func (h *Holder) Store(tokens domain.AuthTokens) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.access = tokens.AccessToken
	if tokens.RefreshToken != "" {
		h.refresh = tokens.RefreshToken
	}
	u := tokens.User
	h.user = &u
}

// SetToken replaces the access token only.
func (h *Holder) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.access = token
}

func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.access = ""
	h.refresh = ""
	h.user = nil
}

func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.access
}

func (h *Holder) RefreshToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.refresh
}

// User is the user returned by the last login, if any.
func (h *Holder) User() (domain.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return domain.User{}, false
	}
	return *h.user, true
}

// Authenticated reports whether a token is held and, when it is a JWT carrying
// an exp claim, that it has not expired. Opaque tokens count as valid.
func (h *Holder) Authenticated() bool {
	token := h.Token()
	if token == "" {
		return false
	}
	exp, ok := Expiry(token)
	if !ok {
		return true
	}
	return h.now().Before(exp)
}

// Expiry reads the exp claim without verifying the signature; the backend
// verifies it on every call.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subject reads the sub claim without verifying the signature.
func Subject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// Fingerprint identifies a whole token without keeping it. Tokens that share
// a subject but differ in any byte get different fingerprints.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
