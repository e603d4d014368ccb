package capability

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZYX-Studios/v0-nevha-sub002/internal/domain"
	"github.com/ZYX-Studios/v0-nevha-sub002/internal/token"
)

func newMinter(t *testing.T, secret string, now time.Time) (*Minter, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec(secret)
	require.NoError(t, err)
	m := NewMinter(codec)
	m.now = func() time.Time { return now }
	return m, codec
}

func TestMintAndVerify(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	m, codec := newMinter(t, "lookup-secret", issued)

	tok, exp, err := m.Mint(domain.LookupSubjectResident, "r-42", "Dela Cruz, Juan", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok, "v1."))
	assert.Len(t, strings.Split(tok, "."), 4)
	assert.Equal(t, issued.Add(24*time.Hour), exp)

	claims, err := Verify(codec, tok, issued.Add(23*time.Hour+59*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.LookupSubjectResident, claims.SubjectType)
	assert.Equal(t, "r-42", claims.SubjectID)
	assert.Equal(t, "Dela Cruz, Juan", claims.SubjectLabel)
	assert.Equal(t, issued.Unix(), claims.IssuedAt)
}

func TestVerifyExpiry(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	m, codec := newMinter(t, "lookup-secret", issued)

	tok, exp, err := m.Mint(domain.LookupSubjectHousehold, "h-7", "Block 3 Lot 12", time.Hour)
	require.NoError(t, err)

	_, err = Verify(codec, tok, exp.Add(-time.Second))
	require.NoError(t, err)

	_, err = Verify(codec, tok, exp)
	assert.ErrorIs(t, err, ErrCapabilityExpired)

	_, err = Verify(codec, tok, exp.Add(time.Second))
	assert.ErrorIs(t, err, ErrCapabilityExpired)
}

func TestVerifyChecksSignatureBeforeExpiry(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	m, _ := newMinter(t, "lookup-secret", issued)
	_, other := newMinter(t, "another-secret", issued)

	tok, exp, err := m.Mint(domain.LookupSubjectResident, "r-1", "Label", time.Hour)
	require.NoError(t, err)

	_, err = Verify(other, tok, exp.Add(time.Hour))
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyRejectsSessionShapedToken(t *testing.T) {
	_, codec := newMinter(t, "lookup-secret", time.Now())
	tok, err := codec.Sign(Claims{SubjectID: "r-1", ExpiresAt: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	_, err = Verify(codec, tok, time.Now())
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyRejectsForeignHeaderType(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	_, codec := newMinter(t, "lookup-secret", now)
	tok, err := codec.SignVersioned(token.Version1, Header{Alg: "HS256", Typ: "session"}, Claims{SubjectID: "r-1", ExpiresAt: now.Add(time.Hour).Unix()})
	require.NoError(t, err)

	_, err = Verify(codec, tok, now)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestMintDefaultsTTL(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	m, _ := newMinter(t, "lookup-secret", issued)
	_, exp, err := m.Mint(domain.LookupSubjectResident, "r-1", "Label", 0)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(DefaultTTL), exp)
}
