// Package handler contains the HTTP layer: request parsing, response
// writing, and nothing else. Business rules live in the service package.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arshkhan-pathan/todo-service/internal/auth"
	"github.com/arshkhan-pathan/todo-service/internal/service"
)

// AuthHandler serves registration and login.
//
//	POST /auth/       → create an account            → 201
//	POST /auth/token  → exchange credentials for JWT → 200
//	GET  /auth/me     → the caller's account record  → 200
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// registerRequest is the JSON body of POST /auth/.
type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// tokenResponse is the body of a successful login. Field names are part of
// the external contract: access_token + token_type "bearer".
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HandleRegister creates a new user account.
//
// HTTP: POST /auth/
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		badRequest(w, "invalid JSON body")
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// model.User keeps the digest out of the body via its json:"-" tag.
	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and returns a bearer token.
//
// HTTP: POST /auth/token
//
// BODY FORMATS:
// Two encodings are accepted, switched on Content-Type:
//   - application/json: {"username": "...", "password": "..."}
//   - application/x-www-form-urlencoded: username=...&password=...
//     (the OAuth2 password-form convention — what CLI tools and older
//     clients send to a /token endpoint)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username, password, ok := h.readCredentials(r)
	if !ok {
		badRequest(w, "could not parse credentials")
		return
	}

	result, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
	})
}

// HandleMe returns the caller's own account record — the fields a client
// cannot read out of its token, like email and the is_active flag.
//
// HTTP: GET /auth/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// readCredentials extracts username/password from either supported body
// encoding. Returns ok=false only for unparseable bodies — empty
// credentials are passed through and fail verification like any other
// wrong pair.
func (h *AuthHandler) readCredentials(r *http.Request) (username, password string, ok bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
			return "", "", false
		}
		return body.Username, body.Password, true
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("invalid login form", slog.String("error", err.Error()))
		return "", "", false
	}
	return r.PostFormValue("username"), r.PostFormValue("password"), true
}
