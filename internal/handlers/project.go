package handlers

import (
	"net/http"
	"strings"

	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ProjectHandler provides HTTP handlers for portfolio projects.
type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ProjectRouter registers project routes on the given router. Reads are
// public; mutations go through the auth middleware.
func ProjectRouter(r chi.Router, projects *services.ProjectService, requireAuth func(http.Handler) http.Handler) {
	handler := NewProjectHandler(projects)

	r.Get("/", handler.List)
	r.Get("/slug/{slug}", handler.GetBySlug)
	r.With(requireAuth).Post("/", handler.Create)
	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(requireAuth).Put("/", handler.Update)
		r.With(requireAuth).Delete("/", handler.Delete)
	})
}

type ProjectRequest struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Technologies []string `json:"technologies"`
	DemoURL      string   `json:"demo_url"`
	RepoURL      string   `json:"repo_url"`
	Featured     bool     `json:"featured"`
}

func (req *ProjectRequest) validate() error {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Title == "" {
		return &store.ValidationError{Field: "title", Message: "is required"}
	}
	if req.Slug == "" {
		return &store.ValidationError{Field: "slug", Message: "is required"}
	}
	return nil
}

func (req ProjectRequest) toProject() types.Project {
	return types.Project{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		Category:     req.Category,
		Technologies: req.Technologies,
		DemoURL:      req.DemoURL,
		RepoURL:      req.RepoURL,
		Featured:     req.Featured,
	}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseListCriteria(r)
	if err != nil {
		respondError(w, err)
		return
	}

	featured, err := queryBool(r, "featured")
	if err != nil {
		respondError(w, err)
		return
	}
	filter := store.ProjectFilter{
		Category: queryString(r, "category"),
		Search:   queryString(r, "search"),
		Featured: featured,
		UserID:   queryString(r, "user_id"),
	}

	items, total, err := h.projects.List(r.Context(), filter, criteria)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, items, criteria, total)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, project)
}

func (h *ProjectHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, project)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req ProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, err)
		return
	}

	created, err := h.projects.Create(r.Context(), actor, req.toProject())
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusCreated, created)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req ProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, err)
		return
	}

	project := req.toProject()
	project.ID = chi.URLParam(r, "projectID")
	updated, err := h.projects.Update(r.Context(), actor, project)
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, updated)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.projects.Delete(r.Context(), actor, chi.URLParam(r, "projectID")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "project deleted")
}
