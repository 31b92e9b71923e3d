package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"farmhith/models/user"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are carried by every access token.
type Claims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 access tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Sign returns an access token for u bound to sessionID, and its expiry.
func (t *TokenIssuer) Sign(u *user.User, sessionID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(t.accessTTL)
	claims := Claims{
		SessionID: sessionID,
		Role:      u.Role,
		Phone:     u.PhoneNumber(),
		Email:     u.EmailAddress(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    "farmhith",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies tokenString as of now.
func (t *TokenIssuer) Parse(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuer("farmhith"),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == "" || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// newRefreshToken returns an opaque token and the hash stored for it.
func newRefreshToken() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, hashRefreshToken(token), nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
