package attachstore

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrSignedURLDisabled is returned by Sign/Verify when no secret was
// configured (spec §6: "absent secret disables the feature").
var ErrSignedURLDisabled = errors.New("attachstore: signed url secret not configured")

// ErrSignedURLExpired is returned when expires has passed.
var ErrSignedURLExpired = errors.New("attachstore: signed url expired")

// ErrSignedURLInvalid is returned on signature mismatch.
var ErrSignedURLInvalid = errors.New("attachstore: signed url signature invalid")

// Scope is the permitted operation for a signed URL (spec §6).
type Scope string

const (
	ScopeDownload Scope = "download"
	ScopeHead     Scope = "head"
)

// Signer mints and verifies HMAC-signed query parameters over attachment
// downloads. A zero-value Signer (empty secret) always returns
// ErrSignedURLDisabled, matching spec §6's "absent secret disables the
// feature". A signature is bound to its expiry, not to a nonce, so the same
// signed URL verifies any number of times until it expires.
type Signer struct {
	secret []byte
}

// NewSigner returns a Signer using secret. An empty secret disables minting
// and verification.
func NewSigner(secret string) Signer {
	return Signer{secret: []byte(secret)}
}

// Enabled reports whether a non-empty secret was configured.
func (s Signer) Enabled() bool { return len(s.secret) > 0 }

// SignedParams is the query-string payload described in spec §6.
type SignedParams struct {
	Expires  time.Time
	Scope    Scope
	Download bool
	Filename string
}

func (s Signer) canonical(method, path, sha256hex string, p SignedParams) string {
	download := "0"
	if p.Download {
		download = "1"
	}
	return strings.Join([]string{
		method,
		path,
		strconv.FormatInt(p.Expires.Unix(), 10),
		sha256hex,
		download,
		p.Filename,
	}, "\n")
}

// Sign computes the base64url-encoded HMAC-SHA256 signature for a request
// described by method, path, the attachment's sha256, and p.
func (s Signer) Sign(method, path, sha256hex string, p SignedParams) (string, error) {
	if !s.Enabled() {
		return "", ErrSignedURLDisabled
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(s.canonical(method, path, sha256hex, p)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks sig against the expected signature for the given request,
// in constant time, and rejects expired signatures.
func (s Signer) Verify(method, path, sha256hex string, p SignedParams, now time.Time, sig string) error {
	if !s.Enabled() {
		return ErrSignedURLDisabled
	}
	if now.After(p.Expires) {
		return ErrSignedURLExpired
	}
	want, err := s.Sign(method, path, sha256hex, p)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(sig)) != 1 {
		return ErrSignedURLInvalid
	}
	return nil
}

// ParseScope validates a scope query value.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeDownload, ScopeHead:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("attachstore: unknown signed url scope %q", s)
	}
}
