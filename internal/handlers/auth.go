package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/devfolio/apiserver/internal/auth"
	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthHandler provides registration, login, and identity endpoints.
type AuthHandler struct {
	users *services.UserService
	authn *auth.Authenticator
}

func NewAuthHandler(users *services.UserService, authn *auth.Authenticator) *AuthHandler {
	return &AuthHandler{users: users, authn: authn}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, users *services.UserService, authn *auth.Authenticator) {
	handler := NewAuthHandler(users, authn)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(RequireAuth(authn)).Get("/me", handler.Me)
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a fresh token together with the account it
// identifies.
type AuthResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}

// Register creates a new user account and returns a signed token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		respondError(w, &store.ValidationError{Field: "email", Message: "must be a valid email address"})
		return
	case req.Name == "":
		respondError(w, &store.ValidationError{Field: "name", Message: "is required"})
		return
	case len(req.Password) < minPasswordLength:
		respondError(w, &store.ValidationError{Field: "password", Message: "must be at least 8 characters"})
		return
	}

	// The unique index is the backstop; this check just gives a clean
	// conflict without burning a bcrypt hash.
	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		respondError(w, &store.ConflictError{Constraint: "users_email_key", Message: "email already exists"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondError(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), types.User{
		Email:        req.Email,
		Name:         req.Name,
		Role:         types.RoleUser,
		PasswordHash: string(hashed),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.authn.Issue(user)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{Success: true, Token: token, User: user})
}

// Login verifies credentials and returns a signed token. A missing
// account and a wrong password read the same to the client.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respondError(w, &store.ValidationError{Field: "credentials", Message: "email and password are required"})
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, errInvalidCredentials)
			return
		}
		respondError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, errInvalidCredentials)
		return
	}

	token, err := h.authn.Issue(user)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Token: token, User: user})
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.GetByID(r.Context(), actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, auth.ErrUserNotFound)
			return
		}
		respondError(w, err)
		return
	}

	respondEntity(w, http.StatusOK, user)
}
