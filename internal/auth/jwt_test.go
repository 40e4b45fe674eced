package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"bdf-gateway/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, secret string) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{JWTSecret: secret})
	require.NoError(t, err)
	return m
}

// tamperLast swaps the final character of a token for a different one.
func tamperLast(tok string) string {
	last := tok[len(tok)-1]
	repl := byte('A')
	if last == 'A' {
		repl = 'B'
	}
	return tok[:len(tok)-1] + string(repl)
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(config.AuthConfig{})
	assert.ErrorIs(t, err, ErrEmptySigningKey)
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	m := newTestManager(t, "secret")

	cases := []struct {
		id, org string
		at      time.Time
	}{
		{"walter", "erste", time.Unix(1700000000, 0)},
		{"karl", "rbi", time.Unix(1, 0)},
		{"johannes", "oenb", time.Now()},
	}
	for _, tc := range cases {
		tok, issued, err := m.Issue(tc.at, tc.id, tc.org)
		require.NoError(t, err)

		claims, err := m.Verify(tok, tc.at.Add(time.Minute))
		require.NoError(t, err, tc.id)
		assert.Equal(t, tc.id, claims.ClientID)
		assert.Equal(t, tc.org, claims.Org)
		assert.Equal(t, int64(10800), claims.ExpiresAtUnix()-claims.IssuedAtUnix())
		assert.Equal(t, issued.IssuedAtUnix(), claims.IssuedAtUnix())
	}
}

func TestIssue_PayloadFields(t *testing.T) {
	m := newTestManager(t, "secret")
	tok, _, err := m.Issue(time.Unix(1700000000, 0), "walter", "erste")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, map[string]any{
		"client_id": "walter",
		"org":       "erste",
		"iat":       float64(1700000000),
		"exp":       float64(1700000000 + 10800),
	}, payload)
}

func TestVerify_ExpiryIsInclusive(t *testing.T) {
	m := newTestManager(t, "secret")
	issuedAt := time.Unix(1700000000, 0)
	tok, _, err := m.Issue(issuedAt, "walter", "erste")
	require.NoError(t, err)

	_, err = m.Verify(tok, issuedAt)
	assert.NoError(t, err, "valid at iat")
	_, err = m.Verify(tok, issuedAt.Add(TokenTTL))
	assert.NoError(t, err, "valid at exp")
	_, err = m.Verify(tok, issuedAt.Add(TokenTTL+500*time.Millisecond))
	assert.NoError(t, err, "still within the exp second")

	_, err = m.Verify(tok, issuedAt.Add(TokenTTL+time.Second))
	assert.ErrorIs(t, err, ErrInvalidToken, "expired one second after exp")
}

func TestVerify_RejectsHandBuiltPastExpiry(t *testing.T) {
	m := newTestManager(t, "secret")
	now := time.Now()
	claims := Claims{
		ClientID: "walter",
		Org:      "erste",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Verify(tok, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsIssuedInFuture(t *testing.T) {
	m := newTestManager(t, "secret")
	now := time.Unix(1700000000, 0)

	for _, ahead := range []time.Duration{time.Second, time.Hour} {
		tok, _, err := m.Issue(now.Add(ahead), "walter", "erste")
		require.NoError(t, err)
		_, err = m.Verify(tok, now)
		assert.ErrorIs(t, err, ErrInvalidToken, "iat %s ahead", ahead)
	}
}

func TestVerify_RejectsForeignKey(t *testing.T) {
	m := newTestManager(t, "secret")
	other := newTestManager(t, "other-secret")
	now := time.Now()

	tok, _, err := other.Issue(now, "walter", "erste")
	require.NoError(t, err)
	_, err = m.Verify(tok, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsTamperedPayload(t *testing.T) {
	m := newTestManager(t, "secret")
	now := time.Now()
	tok, _, err := m.Issue(now, "walter", "erste")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(raw), `"org":"erste"`, `"org":"oenb"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = m.Verify(strings.Join(parts, "."), now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsTamperedSignature(t *testing.T) {
	m := newTestManager(t, "secret")
	now := time.Now()
	tok, _, err := m.Issue(now, "walter", "erste")
	require.NoError(t, err)

	_, err = m.Verify(tamperLast(tok), now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	m := newTestManager(t, "secret")
	now := time.Now()
	claims := newClaims(now, "walter", "erste", "", "")

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{"HS512": hs512, "none": none} {
		_, err := m.Verify(tok, now)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestVerify_RejectsMalformedAndIncomplete(t *testing.T) {
	m := newTestManager(t, "secret")
	now := time.Now()

	noClient, err := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(now, "", "erste", "", "")).SignedString([]byte("secret"))
	require.NoError(t, err)
	noOrg, err := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(now, "walter", "", "", "")).SignedString([]byte("secret"))
	require.NoError(t, err)

	for _, tok := range []string{"", "abc", "a.b.c", noClient, noOrg} {
		_, err := m.Verify(tok, now)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestVerify_IssuerAndAudienceWhenConfigured(t *testing.T) {
	m, err := NewManager(config.AuthConfig{JWTSecret: "secret", JWTIssuer: "bdf", JWTAudience: "trade-api"})
	require.NoError(t, err)
	plain := newTestManager(t, "secret")
	now := time.Now()

	tok, _, err := m.Issue(now, "walter", "erste")
	require.NoError(t, err)
	_, err = m.Verify(tok, now)
	assert.NoError(t, err)

	unscoped, _, err := plain.Issue(now, "walter", "erste")
	require.NoError(t, err)
	_, err = m.Verify(unscoped, now)
	assert.ErrorIs(t, err, ErrInvalidToken, "token without iss/aud")
}

func TestSigningKey_NeverPrinted(t *testing.T) {
	k, err := NewSigningKey("super-secret")
	require.NoError(t, err)
	assert.NotContains(t, k.String(), "super-secret")
	assert.NotContains(t, k.LogValue().String(), "super-secret")
}
