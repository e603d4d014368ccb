package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

const delimiter = "."

// Version1 tags the four-segment versioned token layout.
const Version1 = "v1"

var (
	// ErrMissingSecret is returned when a codec is constructed without a secret.
	ErrMissingSecret = errors.New("token: signing secret not configured")
	// ErrInvalidToken covers bad signatures, wrong segment counts and malformed payloads.
	ErrInvalidToken = errors.New("token: invalid token")
)

var encoding = base64.RawURLEncoding.Strict()

// Codec signs and verifies compact HMAC-SHA256 tokens. Payloads are readable by
// anyone holding the token; only integrity is protected.
type Codec struct {
	secret []byte
}

// NewCodec builds a codec bound to a single secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Sign encodes payload as <base64url(json)>.<base64url(hmac)>.
func (c *Codec) Sign(payload any) (string, error) {
	segment, err := encodeSegment(payload)
	if err != nil {
		return "", err
	}
	return c.seal(segment)
}

// Verify checks the signature of a two-segment token and decodes its payload into out.
func (c *Codec) Verify(tok string, out any) error {
	segments, err := c.open(tok, 2)
	if err != nil {
		return err
	}
	return decodeSegment(segments[0], out)
}

// SignVersioned encodes <version>.<base64url(header)>.<base64url(body)>.<base64url(hmac)>.
func (c *Codec) SignVersioned(version string, header, body any) (string, error) {
	if version == "" || strings.Contains(version, delimiter) {
		return "", errors.New("token: invalid version tag")
	}
	headerSegment, err := encodeSegment(header)
	if err != nil {
		return "", err
	}
	bodySegment, err := encodeSegment(body)
	if err != nil {
		return "", err
	}
	return c.seal(version, headerSegment, bodySegment)
}

// VerifyVersioned checks a four-segment token carrying the expected version tag.
func (c *Codec) VerifyVersioned(tok, version string, header, body any) error {
	segments, err := c.open(tok, 4)
	if err != nil {
		return err
	}
	if segments[0] != version {
		return ErrInvalidToken
	}
	if err := decodeSegment(segments[1], header); err != nil {
		return err
	}
	return decodeSegment(segments[2], body)
}

func (c *Codec) seal(segments ...string) (string, error) {
	signingInput := strings.Join(segments, delimiter)
	sig, err := jwt.SigningMethodHS256.Sign(signingInput, c.secret)
	if err != nil {
		return "", err
	}
	return signingInput + delimiter + encoding.EncodeToString(sig), nil
}

// open verifies the trailing signature and returns the signed segments. Nothing in
// the payload is parsed until the signature matches.
func (c *Codec) open(tok string, want int) ([]string, error) {
	parts := strings.Split(tok, delimiter)
	if len(parts) != want {
		return nil, ErrInvalidToken
	}
	sig, err := encoding.DecodeString(parts[want-1])
	if err != nil {
		return nil, ErrInvalidToken
	}
	signingInput := tok[:strings.LastIndex(tok, delimiter)]
	// hmac.Equal under the hood: no early exit on the first differing byte.
	if err := jwt.SigningMethodHS256.Verify(signingInput, sig, c.secret); err != nil {
		return nil, ErrInvalidToken
	}
	return parts[:want-1], nil
}

func encodeSegment(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return encoding.EncodeToString(raw), nil
}

func decodeSegment(segment string, out any) error {
	raw, err := encoding.DecodeString(segment)
	if err != nil {
		return ErrInvalidToken
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return ErrInvalidToken
	}
	return nil
}
