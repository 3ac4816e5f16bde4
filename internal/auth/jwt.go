// Package auth provides JWT token issuance/validation and password hashing
// for the todo API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers via POST /auth/ (bcrypt digest stored, never plaintext)
// 2. User logs in via POST /auth/token with username + password
// 3. Server verifies the credentials and issues a signed JWT access token
// 4. Client sends "Authorization: Bearer <token>" on every /todo request
// 5. Middleware validates the JWT and puts the Identity in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (user id, username, role, expiry) is inside
// the signed token. The signature ensures nobody can tamper with it without
// the secret key, and verification is pure in-memory computation: no store
// round trip per request.
//
// THE TRADE-OFF:
// Because claims are trusted for the token's whole lifetime, deactivating an
// account or changing a role does NOT revoke tokens that are already out
// there. We accept that window and keep the TTL short (20 minutes by default).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/arshkhan-pathan/todo-service/internal/model"
)

// DefaultTokenTTL matches the access-token lifetime used by the login
// endpoint unless configuration overrides it.
const DefaultTokenTTL = 20 * time.Minute

// Identity is the authenticated caller extracted from a valid token.
// It is what handlers see — they never touch the raw JWT.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// Claims is the JWT payload. It embeds jwt.RegisteredClaims, which covers
// the standard fields (sub, exp, iat, iss, jti), and adds our own.
//
// Claim names are part of the external contract:
//
//	sub  → username
//	id   → numeric user id
//	role → role tag
//	exp  → absolute expiry (UTC)
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and validates access tokens.
//
// It holds the HMAC secret used to sign and verify. The same secret must be
// used for both operations — issuer and verifier share it by construction,
// since both sides live in this one struct.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and default
// token lifetime. The secret should be at least 32 bytes of random data in
// production, e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: "todo-service",
		ttl:    ttl,
	}, nil
}

// Generate creates and signs an access token for the given user using the
// service's default TTL.
//
// Signing algorithm: HS256 (HMAC-SHA256)
//   - Symmetric: same key for signing and verifying
//   - Fast and simple — fine while issuer and verifier are the same process
func (s *TokenService) Generate(user *model.User) (string, error) {
	return s.GenerateWithTTL(user, s.ttl)
}

// GenerateWithTTL creates a token with a custom expiry duration. Used by
// tests to mint already-expired tokens.
//
// The expiry is absolute: issue time + ttl. The jti claim gets a fresh xid
// so every issued token is distinguishable even for the same user within
// the same second.
func (s *TokenService) GenerateWithTTL(user *model.User, ttl time.Duration) (string, error) {
	if user == nil {
		return "", errors.New("auth: user must not be nil")
	}

	now := time.Now()
	c := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    s.issuer,
			ID:        xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the Identity it
// encodes.
//
// VALIDATION CHECKS:
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired, and an expiry claim is present at all
//   - Issuer matches "todo-service" (rejects tokens minted by other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks — without
//     jwt.WithValidMethods an attacker could present an alg:"none" token)
//   - Subject (username) and user id claims are present
//
// Any failure is an error, never a silent empty identity.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Identity{}, fmt.Errorf("auth: token has no subject")
	}
	if c.UserID <= 0 {
		return Identity{}, fmt.Errorf("auth: token has no user id")
	}

	return Identity{
		UserID:   c.UserID,
		Username: c.Subject,
		Role:     c.Role,
	}, nil
}
