package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing"

func newTestProvider(now time.Time) *ResetTokenProvider {
	p := NewResetTokenProvider(testSecret, "http://localhost:8080/", time.Hour)
	p.now = func() time.Time { return now }
	return p
}

func TestResetTokenProvider_IssueAndParse(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	p := newTestProvider(now)

	issued, err := p.Issue("user-123")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenString)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, "user-123", issued.UserID)
	assert.Equal(t, now.Add(time.Hour), issued.ExpiresAt)

	claims, err := p.Parse(issued.TokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, PurposePasswordReset, claims.Purpose)
}

func TestResetTokenProvider_UniqueIDs(t *testing.T) {
	p := newTestProvider(time.Now())

	first, err := p.Issue("user-123")
	require.NoError(t, err)
	second, err := p.Issue("user-123")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.TokenString, second.TokenString)
}

func TestResetTokenProvider_Expired(t *testing.T) {
	issuedAt := time.Now().Truncate(time.Second)
	p := newTestProvider(issuedAt)

	issued, err := p.Issue("user-123")
	require.NoError(t, err)

	p.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = p.Parse(issued.TokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestResetTokenProvider_WrongSecret(t *testing.T) {
	now := time.Now()
	issued, err := newTestProvider(now).Issue("user-123")
	require.NoError(t, err)

	other := NewResetTokenProvider("another-secret", "http://localhost:8080/", time.Hour)
	_, err = other.Parse(issued.TokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetTokenProvider_Malformed(t *testing.T) {
	p := newTestProvider(time.Now())

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := p.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

func TestResetTokenProvider_WrongPurpose(t *testing.T) {
	now := time.Now()
	p := newTestProvider(now)

	claims := ResetClaims{
		Purpose: "email_verification",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "id-1",
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = p.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetTokenProvider_RejectsNoneAlg(t *testing.T) {
	now := time.Now()
	p := newTestProvider(now)

	claims := ResetClaims{
		Purpose: PurposePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "id-1",
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHash(t *testing.T) {
	h := Hash("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, Hash("abc"))
	assert.NotEqual(t, h, Hash("abd"))
}
