package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PurposePasswordReset is the value of the "purpose" claim on reset tokens.
const PurposePasswordReset = "password_reset"

// ResetClaims are the claims carried by a password reset token.
type ResetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issued is a freshly signed reset token.
type Issued struct {
	TokenString string
	ID          string // jti, primary key of the PasswordReset row
	UserID      string
	ExpiresAt   time.Time
}

// ResetTokenProvider signs and verifies password reset links with HS256.
// Single use is enforced by the caller against stored PasswordReset rows.
type ResetTokenProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewResetTokenProvider(secret, issuer string, ttl time.Duration) *ResetTokenProvider {
	return &ResetTokenProvider{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a reset token for userID that expires after the configured TTL.
func (p *ResetTokenProvider) Issue(userID string) (*Issued, error) {
	now := p.now()
	expiresAt := now.Add(p.ttl)
	id := uuid.New().String()

	claims := ResetClaims{
		Purpose: PurposePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &Issued{
		TokenString: signed,
		ID:          id,
		UserID:      userID,
		ExpiresAt:   expiresAt,
	}, nil
}

// Parse verifies signature, expiry and purpose and returns the claims.
func (p *ResetTokenProvider) Parse(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return p.secret, nil
		},
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Purpose != PurposePasswordReset ||
		claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Hash returns the hex SHA-256 of a token string. Only the hash is stored.
func Hash(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(sum[:])
}
