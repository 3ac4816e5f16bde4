package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. With a plain string key like
// "identity", ANY package that knows the string could read or shadow the
// value. A package-private key type means only this package can read or
// write identities in the context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It reads the bearer token from the Authorization header (with an
// access_token cookie as fallback for browser clients), validates it, and
// stores the Identity in the request context. If the token is missing or
// invalid, it returns 401 Unauthorized and stops the request chain.
//
// This gate runs BEFORE every todo handler — no ownership check ever
// executes for an anonymous request.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// ContextWithIdentity returns a context carrying the given identity. It is
// what RequireAuth uses after validating a token; tests for code behind the
// middleware can call it directly instead of minting real tokens.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the authenticated caller from the request
// context.
//
// Returns (Identity{}, false) if no valid token was presented. Handlers
// behind RequireAuth can rely on ok being true, but the check stays
// explicit — a handler accidentally mounted outside the middleware fails
// with 401 instead of acting as user 0.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID > 0
}

// extractIdentity pulls the token out of the request and validates it.
//
// TOKEN TRANSPORT:
// The primary transport is the standard header:
//
//	Authorization: Bearer eyJhbGciOi...
//
// Browser clients that keep the token in an HttpOnly cookie are also
// accepted; the cookie is only consulted when the header is absent.
func extractIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return Identity{}, errors.New("auth: malformed Authorization header")
		}
		return tokens.Validate(strings.TrimSpace(header[len(prefix):]))
	}

	cookie, err := r.Cookie("access_token")
	if err != nil {
		return Identity{}, err
	}
	return tokens.Validate(cookie.Value)
}
