package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devfolio/apiserver/internal/auth"
	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byID    map[string]types.User
	byEmail map[string]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]types.User{}, byEmail: map[string]types.User{}}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	if _, exists := f.byEmail[user.Email]; exists {
		return types.User{}, &store.ConflictError{Constraint: "users_email_key", Message: "email already exists"}
	}
	user.ID = fmt.Sprintf("u%d", len(f.byID)+1)
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	if _, ok := f.byID[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	user, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.byEmail, user.Email)
	return nil
}

func newAuthTestServer(t *testing.T, repo *fakeUserRepo) *httptest.Server {
	t.Helper()

	authn := auth.NewAuthenticator(repo, "test-secret", time.Hour)
	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, services.NewUserService(repo), authn)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestRegisterIssuesToken(t *testing.T) {
	srv := newAuthTestServer(t, newFakeUserRepo())

	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", RegisterRequest{
		Email:    "dev@example.com",
		Name:     "Dev",
		Password: "longenough",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var envelope AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	_ = resp.Body.Close()

	if envelope.Token == "" {
		t.Fatalf("expected a token")
	}
	if envelope.User.Role != types.RoleUser {
		t.Fatalf("expected user role, got %q", envelope.User.Role)
	}
}

func TestRegisterNeverEchoesPasswordHash(t *testing.T) {
	srv := newAuthTestServer(t, newFakeUserRepo())

	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", RegisterRequest{
		Email:    "dev@example.com",
		Name:     "Dev",
		Password: "longenough",
	})
	defer resp.Body.Close()

	var buf map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	userPayload, _ := json.Marshal(buf["user"])
	if strings.Contains(string(userPayload), "password") {
		t.Fatalf("password material leaked in response: %s", userPayload)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	srv := newAuthTestServer(t, repo)

	first := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", RegisterRequest{
		Email: "dev@example.com", Name: "Dev", Password: "longenough",
	})
	_ = first.Body.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", RegisterRequest{
		Email: "dev@example.com", Name: "Other", Password: "longenough",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	envelope := decodeError(t, resp)
	if envelope.ErrorCode != codeConflict {
		t.Fatalf("expected %s, got %s", codeConflict, envelope.ErrorCode)
	}
	if envelope.Message != "email already exists" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	srv := newAuthTestServer(t, newFakeUserRepo())

	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", RegisterRequest{
		Email: "dev@example.com", Name: "Dev", Password: "short",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	envelope := decodeError(t, resp)
	if envelope.ErrorCode != codeValidation {
		t.Fatalf("expected %s, got %s", codeValidation, envelope.ErrorCode)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	_, _ = repo.Create(context.Background(), types.User{
		Email: "dev@example.com", Name: "Dev", Role: types.RoleUser, PasswordHash: string(hash),
	})
	srv := newAuthTestServer(t, repo)

	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", LoginRequest{
		Email: "dev@example.com", Password: "wrongpassword",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	envelope := decodeError(t, resp)
	if envelope.ErrorCode != codeInvalidCredentials {
		t.Fatalf("expected %s, got %s", codeInvalidCredentials, envelope.ErrorCode)
	}
}

func TestLoginUnknownEmailReadsLikeWrongPassword(t *testing.T) {
	srv := newAuthTestServer(t, newFakeUserRepo())

	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", LoginRequest{
		Email: "ghost@example.com", Password: "whatever123",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	envelope := decodeError(t, resp)
	if envelope.ErrorCode != codeInvalidCredentials {
		t.Fatalf("expected %s, got %s", codeInvalidCredentials, envelope.ErrorCode)
	}
}

func TestLoginThenMe(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	_, _ = repo.Create(context.Background(), types.User{
		Email: "dev@example.com", Name: "Dev", Role: types.RoleUser, PasswordHash: string(hash),
	})
	srv := newAuthTestServer(t, repo)

	resp := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", LoginRequest{
		Email: "dev@example.com", Password: "rightpassword",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var login AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	_ = resp.Body.Close()

	me := doJSON(t, http.MethodGet, srv.URL+"/auth/me", login.Token, nil)
	if me.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d", me.StatusCode)
	}
	var envelope struct {
		Success bool       `json:"success"`
		Data    types.User `json:"data"`
	}
	if err := json.NewDecoder(me.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	_ = me.Body.Close()

	if envelope.Data.Email != "dev@example.com" {
		t.Fatalf("unexpected identity: %+v", envelope.Data)
	}
}
