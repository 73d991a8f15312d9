package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devfolio/apiserver/internal/auth"
	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
)

// Stable error codes clients can branch on.
const (
	codeValidation         = "VALIDATION_ERROR"
	codeConflict           = "CONFLICT"
	codeNotFound           = "NOT_FOUND"
	codePermissionDenied   = "PERMISSION_DENIED"
	codeTokenMissing       = "AUTH_TOKEN_MISSING"
	codeTokenInvalid       = "AUTH_TOKEN_INVALID"
	codeAuthUserNotFound   = "AUTH_USER_NOT_FOUND"
	codeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	codeInternal           = "INTERNAL_ERROR"
)

var errInvalidCredentials = errors.New("invalid credentials")

// ErrorResponse is the uniform error envelope. Details is present only
// for validation failures.
type ErrorResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	ErrorCode string            `json:"error_code"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListResponse is the envelope for paginated collections.
type ListResponse struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// EntityResponse is the envelope for single-entity and message-only
// responses.
type EntityResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: code,
		Timestamp: time.Now().UTC(),
		Details:   details,
	})
}

// respondError maps domain errors onto the error envelope. Unclassified
// errors become a generic 500; their text never reaches the client.
func respondError(w http.ResponseWriter, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		details := map[string]string{ve.Field: ve.Message}
		writeError(w, http.StatusBadRequest, codeValidation, err.Error(), details)
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusBadRequest, codeConflict, err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "resource not found", nil)
	case errors.Is(err, services.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, codePermissionDenied, "you do not have permission to perform this action", nil)
	case errors.Is(err, auth.ErrTokenMissing):
		writeError(w, http.StatusUnauthorized, codeTokenMissing, "authentication token is missing", nil)
	case errors.Is(err, auth.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, codeTokenInvalid, "authentication token is invalid", nil)
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, codeAuthUserNotFound, "account no longer exists", nil)
	case errors.Is(err, errInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "invalid credentials", nil)
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "an unexpected error occurred", nil)
	}
}

func respondList(w http.ResponseWriter, data any, criteria store.Criteria, total int) {
	totalPages := 0
	if total > 0 {
		totalPages = (total + criteria.Limit - 1) / criteria.Limit
	}
	writeJSON(w, http.StatusOK, ListResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Page:       criteria.Page,
			Limit:      criteria.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func respondEntity(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, EntityResponse{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, EntityResponse{Success: true, Message: message})
}

// RequireAuth verifies the bearer token and injects the acting identity
// into the request context.
func RequireAuth(authn *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				respondError(w, err)
				return
			}
			actor, err := authn.Verify(r.Context(), token)
			if err != nil {
				respondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}

func actorFromRequest(r *http.Request) (types.Actor, error) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		return types.Actor{}, auth.ErrTokenMissing
	}
	return actor, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", auth.ErrTokenMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", auth.ErrTokenInvalid
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", auth.ErrTokenInvalid
	}
	return token, nil
}

// parseListCriteria reads the shared pagination and sort parameters.
// Range and allow-list checks happen in the query builder; only the
// integer parse is rejected here.
func parseListCriteria(r *http.Request) (store.Criteria, error) {
	q := r.URL.Query()
	criteria := store.Criteria{
		Sort:      strings.TrimSpace(q.Get("sort")),
		Direction: strings.TrimSpace(q.Get("order")),
		Page:      store.DefaultPage,
		Limit:     store.DefaultLimit,
	}

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return store.Criteria{}, &store.ValidationError{Field: "page", Message: "must be an integer"}
		}
		criteria.Page = page
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return store.Criteria{}, &store.ValidationError{Field: "limit", Message: "must be an integer"}
		}
		criteria.Limit = limit
	}

	return criteria, nil
}

// queryString returns a pointer to the named query parameter, or nil
// when it is absent or blank.
func queryString(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" {
		return nil
	}
	return &value
}

func queryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &store.ValidationError{Field: name, Message: "must be a boolean"}
	}
	return &value, nil
}

func decodeJSON(r *http.Request, value any) error {
	if err := json.NewDecoder(r.Body).Decode(value); err != nil {
		return &store.ValidationError{Field: "body", Message: "invalid JSON payload"}
	}
	return nil
}
