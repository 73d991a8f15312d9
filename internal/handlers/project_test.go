package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devfolio/apiserver/internal/auth"
	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

type fakeUserSource struct {
	users map[string]types.User
}

func (f *fakeUserSource) GetByID(ctx context.Context, id string) (types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

type fakeProjectRepo struct {
	projects  map[string]types.Project
	listItems []types.Project
	listTotal int
}

func newFakeProjectRepo(projects ...types.Project) *fakeProjectRepo {
	repo := &fakeProjectRepo{projects: map[string]types.Project{}}
	for _, p := range projects {
		repo.projects[p.ID] = p
	}
	return repo
}

func (f *fakeProjectRepo) List(ctx context.Context, filter store.ProjectFilter, criteria store.Criteria) ([]types.Project, int, error) {
	return f.listItems, f.listTotal, nil
}

func (f *fakeProjectRepo) Get(ctx context.Context, id string) (types.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return types.Project{}, store.ErrNotFound
	}
	return project, nil
}

func (f *fakeProjectRepo) GetBySlug(ctx context.Context, slug string) (types.Project, error) {
	for _, p := range f.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return types.Project{}, store.ErrNotFound
}

func (f *fakeProjectRepo) Create(ctx context.Context, project types.Project) (types.Project, error) {
	project.ID = fmt.Sprintf("p%d", len(f.projects)+1)
	f.projects[project.ID] = project
	return project, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, project types.Project) (types.Project, error) {
	if _, ok := f.projects[project.ID]; !ok {
		return types.Project{}, store.ErrNotFound
	}
	f.projects[project.ID] = project
	return project, nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

func newProjectTestServer(t *testing.T, repo *fakeProjectRepo, users ...types.User) (*httptest.Server, *auth.Authenticator) {
	t.Helper()

	source := &fakeUserSource{users: map[string]types.User{}}
	for _, u := range users {
		source.users[u.ID] = u
	}
	authn := auth.NewAuthenticator(source, "test-secret", time.Hour)

	router := chi.NewRouter()
	router.Route("/projects", func(r chi.Router) {
		ProjectRouter(r, services.NewProjectService(repo), RequireAuth(authn))
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, authn
}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var envelope ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	_ = resp.Body.Close()
	return envelope
}

func TestProjectUpdateNonOwnerForbidden(t *testing.T) {
	owner := types.User{ID: "u1", Email: "owner@example.com", Role: types.RoleUser}
	intruder := types.User{ID: "u2", Email: "other@example.com", Role: types.RoleUser}
	repo := newFakeProjectRepo(types.Project{ID: "p1", UserID: "u1", Title: "Mine", Slug: "mine"})

	srv, authn := newProjectTestServer(t, repo, owner, intruder)
	token, err := authn.Issue(intruder)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp := doJSON(t, http.MethodPut, srv.URL+"/projects/p1", token, ProjectRequest{Title: "Stolen", Slug: "mine"})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	envelope := decodeError(t, resp)
	if envelope.ErrorCode != codePermissionDenied {
		t.Fatalf("expected %s, got %s", codePermissionDenied, envelope.ErrorCode)
	}
	if envelope.Success {
		t.Fatalf("expected success=false")
	}
	if repo.projects["p1"].Title != "Mine" {
		t.Fatalf("project must not change on denied update")
	}
}

func TestProjectUpdateAdminAllowed(t *testing.T) {
	admin := types.User{ID: "a1", Email: "admin@example.com", Role: types.RoleAdmin}
	repo := newFakeProjectRepo(types.Project{ID: "p1", UserID: "u1", Title: "Mine", Slug: "mine"})

	srv, authn := newProjectTestServer(t, repo, admin)
	token, err := authn.Issue(admin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp := doJSON(t, http.MethodPut, srv.URL+"/projects/p1", token, ProjectRequest{Title: "Renamed", Slug: "mine"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool          `json:"success"`
		Data    types.Project `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	_ = resp.Body.Close()

	if envelope.Data.Title != "Renamed" {
		t.Fatalf("expected renamed project, got %q", envelope.Data.Title)
	}
	// Ownership never moves on update, even for admins.
	if envelope.Data.UserID != "u1" {
		t.Fatalf("expected owner unchanged, got %q", envelope.Data.UserID)
	}
}

func TestProjectCreateRequiresToken(t *testing.T) {
	srv, _ := newProjectTestServer(t, newFakeProjectRepo())

	resp := doJSON(t, http.MethodPost, srv.URL+"/projects", "", ProjectRequest{Title: "X", Slug: "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	envelope := decodeError(t, resp)
	if envelope.ErrorCode != codeTokenMissing {
		t.Fatalf("expected %s, got %s", codeTokenMissing, envelope.ErrorCode)
	}
}

func TestProjectMangledTokenRejected(t *testing.T) {
	srv, _ := newProjectTestServer(t, newFakeProjectRepo())

	resp := doJSON(t, http.MethodPost, srv.URL+"/projects", "not.a.jwt", ProjectRequest{Title: "X", Slug: "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	envelope := decodeError(t, resp)
	if envelope.ErrorCode != codeTokenInvalid {
		t.Fatalf("expected %s, got %s", codeTokenInvalid, envelope.ErrorCode)
	}
}

func TestProjectListPaginationEnvelope(t *testing.T) {
	repo := newFakeProjectRepo()
	for i := 0; i < 10; i++ {
		repo.listItems = append(repo.listItems, types.Project{ID: fmt.Sprintf("p%d", i), Title: fmt.Sprintf("Project %d", i)})
	}
	repo.listTotal = 25

	srv, _ := newProjectTestServer(t, repo)

	resp, err := http.Get(srv.URL + "/projects?page=1&limit=10")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var envelope struct {
		Success    bool            `json:"success"`
		Data       []types.Project `json:"data"`
		Pagination Pagination      `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	_ = resp.Body.Close()

	if len(envelope.Data) != 10 {
		t.Fatalf("expected 10 items, got %d", len(envelope.Data))
	}
	want := Pagination{Page: 1, Limit: 10, Total: 25, TotalPages: 3}
	if envelope.Pagination != want {
		t.Fatalf("unexpected pagination: %+v", envelope.Pagination)
	}
}

func TestProjectGetUnknownID(t *testing.T) {
	srv, _ := newProjectTestServer(t, newFakeProjectRepo())

	resp, err := http.Get(srv.URL + "/projects/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	envelope := decodeError(t, resp)
	if envelope.ErrorCode != codeNotFound {
		t.Fatalf("expected %s, got %s", codeNotFound, envelope.ErrorCode)
	}
}

func TestProjectListBadPageParam(t *testing.T) {
	srv, _ := newProjectTestServer(t, newFakeProjectRepo())

	resp, err := http.Get(srv.URL + "/projects?page=abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	envelope := decodeError(t, resp)
	if envelope.ErrorCode != codeValidation {
		t.Fatalf("expected %s, got %s", codeValidation, envelope.ErrorCode)
	}
	if envelope.Details["page"] == "" {
		t.Fatalf("expected page detail, got %v", envelope.Details)
	}
}
