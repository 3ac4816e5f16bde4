package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arshkhan-pathan/todo-service/internal/auth"
	"github.com/arshkhan-pathan/todo-service/internal/service"
)

// TodoHandler serves the owner-scoped todo CRUD endpoints. Every route is
// mounted behind auth.RequireAuth, so an identity is always present in the
// request context by the time these methods run — but each method still
// checks, so a mis-mounted route fails closed with 401 instead of acting
// as nobody.
//
//	GET    /todo/      → list the caller's todos  → 200
//	GET    /todo/{id}  → one todo, if owned       → 200 / 404
//	POST   /todo       → create                   → 201 / 422
//	PUT    /todo/{id}  → overwrite                → 204 / 404 / 422
//	DELETE /todo/{id}  → remove                   → 204 / 404
type TodoHandler struct {
	todos  *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a TodoHandler.
func NewTodoHandler(todos *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, logger: logger}
}

// todoRequest is the JSON body of create and update. Owner is never part
// of the body — it comes from the token.
type todoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
}

func (req todoRequest) toInput() service.TodoInput {
	return service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
	}
}

// HandleList returns all todos owned by the caller.
//
// HTTP: GET /todo/
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	todos, err := h.todos.List(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

// HandleGetByID returns a single todo if the caller owns it.
//
// HTTP: GET /todo/{id}
func (h *TodoHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	todo, err := h.todos.Get(r.Context(), id, identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// HandleCreate validates and persists a new todo owned by the caller.
//
// HTTP: POST /todo
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid todo JSON", slog.String("error", err.Error()))
		badRequest(w, "invalid JSON body")
		return
	}

	todo, err := h.todos.Create(r.Context(), identity.UserID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, todo)
}

// HandleUpdate overwrites the mutable fields of a todo the caller owns.
//
// HTTP: PUT /todo/{id} → 204 No Content on success
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid todo JSON", slog.String("error", err.Error()))
		badRequest(w, "invalid JSON body")
		return
	}

	if err := h.todos.Update(r.Context(), id, identity.UserID, req.toInput()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes a todo the caller owns.
//
// HTTP: DELETE /todo/{id} → 204 No Content on success
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.todos.Delete(r.Context(), id, identity.UserID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} URL parameter. Chi exposes it via r.PathValue.
// A non-numeric id is a malformed request (400); a numeric id <= 0 is a
// validation failure the service reports as 422.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(w, "id must be an integer")
		return 0, false
	}
	return id, true
}

// writeUnauthenticated sends the same 401 body RequireAuth uses.
func writeUnauthenticated(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: "valid authentication required",
	})
}
