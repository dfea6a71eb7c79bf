package attachstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s := NewSigner("topsecret")
	now := time.Unix(1_700_000_000, 0).UTC()
	p := SignedParams{Expires: now.Add(time.Hour), Scope: ScopeDownload, Download: true, Filename: "out.nc"}

	sig, err := s.Sign("GET", "/attachments/abc123", "abc123", p)
	require.NoError(t, err)

	err = s.Verify("GET", "/attachments/abc123", "abc123", p, now, sig)
	assert.NoError(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := NewSigner("topsecret")
	now := time.Unix(1_700_000_000, 0).UTC()
	p := SignedParams{Expires: now.Add(-time.Minute), Scope: ScopeDownload}

	sig, err := s.Sign("GET", "/attachments/abc123", "abc123", p)
	require.NoError(t, err)

	err = s.Verify("GET", "/attachments/abc123", "abc123", p, now, sig)
	assert.ErrorIs(t, err, ErrSignedURLExpired)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	s := NewSigner("topsecret")
	now := time.Unix(1_700_000_000, 0).UTC()
	p := SignedParams{Expires: now.Add(time.Hour), Scope: ScopeHead}

	err := s.Verify("GET", "/attachments/abc123", "abc123", p, now, "not-a-real-signature")
	assert.ErrorIs(t, err, ErrSignedURLInvalid)
}

func TestDisabledSignerRejectsEverything(t *testing.T) {
	s := NewSigner("")
	assert.False(t, s.Enabled())

	_, err := s.Sign("GET", "/x", "abc", SignedParams{})
	assert.ErrorIs(t, err, ErrSignedURLDisabled)

	err = s.Verify("GET", "/x", "abc", SignedParams{Expires: time.Now()}, time.Now(), "sig")
	assert.ErrorIs(t, err, ErrSignedURLDisabled)
}

func TestParseScopeRejectsUnknown(t *testing.T) {
	_, err := ParseScope("delete")
	assert.Error(t, err)
	scope, err := ParseScope("head")
	assert.NoError(t, err)
	assert.Equal(t, ScopeHead, scope)
}
