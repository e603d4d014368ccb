// Package capability mints short-lived lookup tokens for public search results. A
// token names one subject and can be redeemed offline by any holder of the lookup
// secret until it expires.
package capability

import (
	"errors"
	"time"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/token"
)

// DefaultTTL is how long a minted lookup token stays redeemable.
const DefaultTTL = 24 * time.Hour

// ErrCapabilityExpired is returned by Verify for a correctly signed token past its expiry.
var ErrCapabilityExpired = errors.New("capability: token expired")

// Header is the first segment of a lookup token.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// Claims is the signed body of a lookup token. Times are unix seconds.
type Claims struct {
	SubjectType  domain.LookupSubjectType `json:"subject_type"`
	SubjectID    string                   `json:"subject_id"`
	SubjectLabel string                   `json:"subject_label"`
	IssuedAt     int64                    `json:"issued_at"`
	ExpiresAt    int64                    `json:"expires_at"`
}

var lookupHeader = Header{Alg: "HS256", Typ: "lookup"}

// Minter signs lookup tokens with the lookup codec.
type Minter struct {
	codec *token.Codec
	now   func() time.Time
}

// NewMinter wraps a codec built from the lookup secret.
func NewMinter(codec *token.Codec) *Minter {
	return &Minter{codec: codec, now: time.Now}
}

// Mint signs a token for one subject. A non-positive ttl falls back to DefaultTTL.
func (m *Minter) Mint(subjectType domain.LookupSubjectType, subjectID, subjectLabel string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	issuedAt := m.now()
	expiresAt := issuedAt.Add(ttl)

	tok, err := m.codec.SignVersioned(token.Version1, lookupHeader, Claims{
		SubjectType:  subjectType,
		SubjectID:    subjectID,
		SubjectLabel: subjectLabel,
		IssuedAt:     issuedAt.Unix(),
		ExpiresAt:    expiresAt.Unix(),
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, time.Unix(expiresAt.Unix(), 0), nil
}

// Verify is the redeemer side: the signature is checked first, then expiry.
func Verify(codec *token.Codec, tok string, now time.Time) (*Claims, error) {
	var header Header
	var claims Claims
	if err := codec.VerifyVersioned(tok, token.Version1, &header, &claims); err != nil {
		return nil, err
	}
	if header.Typ != lookupHeader.Typ || header.Alg != lookupHeader.Alg {
		return nil, token.ErrInvalidToken
	}
	if claims.ExpiresAt <= now.Unix() {
		return nil, ErrCapabilityExpired
	}
	return &claims, nil
}
