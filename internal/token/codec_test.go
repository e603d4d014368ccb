package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Issued  int64   `json:"issued"`
	Version *string `json:"version"`
}

func newTestCodec(t *testing.T, secret string) *Codec {
	t.Helper()
	codec, err := NewCodec(secret)
	require.NoError(t, err)
	return codec
}

func TestNewCodecRequiresSecret(t *testing.T) {
	codec, err := NewCodec("")
	require.ErrorIs(t, err, ErrMissingSecret)
	assert.Nil(t, codec)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	v1 := "v1"
	payloads := []samplePayload{
		{ID: "dept-1", Name: "Security", Issued: 1700000000, Version: &v1},
		{ID: "dept-2", Name: "Grounds & Gardens", Issued: 0},
		{ID: "ünïcødé", Name: strings.Repeat("x", 512), Issued: -5},
		{},
	}
	codec := newTestCodec(t, "session-secret")

	for _, p := range payloads {
		tok, err := codec.Sign(p)
		require.NoError(t, err)
		require.Equal(t, 2, len(strings.Split(tok, ".")))

		var got samplePayload
		require.NoError(t, codec.Verify(tok, &got))
		assert.Equal(t, p, got)
	}
}

func TestSignIsDeterministic(t *testing.T) {
	codec := newTestCodec(t, "session-secret")
	p := samplePayload{ID: "dept-1", Name: "Security", Issued: 42}

	first, err := codec.Sign(p)
	require.NoError(t, err)
	second, err := codec.Sign(p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestVerifyRejectsEveryBitFlip(t *testing.T) {
	codec := newTestCodec(t, "session-secret")
	tok, err := codec.Sign(samplePayload{ID: "dept-1", Name: "Security", Issued: 42})
	require.NoError(t, err)

	for i := 0; i < len(tok); i++ {
		for bit := 0; bit < 8; bit++ {
			tampered := []byte(tok)
			tampered[i] ^= 1 << bit

			var got samplePayload
			err := codec.Verify(string(tampered), &got)
			require.ErrorIsf(t, err, ErrInvalidToken, "byte %d bit %d accepted", i, bit)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer := newTestCodec(t, "secret-one")
	verifier := newTestCodec(t, "secret-two")

	tok, err := signer.Sign(samplePayload{ID: "dept-1"})
	require.NoError(t, err)

	var got samplePayload
	assert.ErrorIs(t, verifier.Verify(tok, &got), ErrInvalidToken)
}

func TestVerifyRejectsMalformedTokens(t *testing.T) {
	codec := newTestCodec(t, "session-secret")
	valid, err := codec.Sign(samplePayload{ID: "dept-1"})
	require.NoError(t, err)

	// A correctly signed segment that is not JSON.
	notJSON, err := codec.seal(encoding.EncodeToString([]byte("not json")))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          "",
		"single segment": strings.Split(valid, ".")[0],
		"three segments": valid + ".extra",
		"padded sig":     valid + "=",
		"not json":       notJSON,
		"swapped":        strings.Split(valid, ".")[1] + "." + strings.Split(valid, ".")[0],
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			var got samplePayload
			assert.ErrorIs(t, codec.Verify(tok, &got), ErrInvalidToken)
		})
	}
}

func TestVersionedRoundTrip(t *testing.T) {
	codec := newTestCodec(t, "lookup-secret")
	header := map[string]string{"alg": "HS256", "typ": "lookup"}
	body := samplePayload{ID: "resident-7", Name: "Dela Cruz"}

	tok, err := codec.SignVersioned(Version1, header, body)
	require.NoError(t, err)
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 4)
	assert.Equal(t, "v1", parts[0])

	var gotHeader map[string]string
	var gotBody samplePayload
	require.NoError(t, codec.VerifyVersioned(tok, Version1, &gotHeader, &gotBody))
	assert.Equal(t, header, gotHeader)
	assert.Equal(t, body, gotBody)
}

func TestVersionedRejectsWrongVersionAndTampering(t *testing.T) {
	codec := newTestCodec(t, "lookup-secret")
	tok, err := codec.SignVersioned("v2", map[string]string{"alg": "HS256"}, samplePayload{ID: "x"})
	require.NoError(t, err)

	var h map[string]string
	var b samplePayload
	assert.ErrorIs(t, codec.VerifyVersioned(tok, Version1, &h, &b), ErrInvalidToken)

	ok, err := codec.SignVersioned(Version1, map[string]string{"alg": "HS256"}, samplePayload{ID: "x"})
	require.NoError(t, err)
	relabelled := "v2" + strings.TrimPrefix(ok, "v1")
	assert.ErrorIs(t, codec.VerifyVersioned(relabelled, "v2", &h, &b), ErrInvalidToken)

	// Two-segment tokens are not accepted as versioned ones and vice versa.
	plain, err := codec.Sign(samplePayload{ID: "x"})
	require.NoError(t, err)
	assert.ErrorIs(t, codec.VerifyVersioned(plain, Version1, &h, &b), ErrInvalidToken)
	assert.ErrorIs(t, codec.Verify(ok, &b), ErrInvalidToken)
}

func TestSignVersionedRejectsBadVersionTag(t *testing.T) {
	codec := newTestCodec(t, "lookup-secret")
	_, err := codec.SignVersioned("", nil, nil)
	assert.Error(t, err)
	_, err = codec.SignVersioned("v.1", nil, nil)
	assert.Error(t, err)
}
