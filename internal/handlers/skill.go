package handlers

import (
	"net/http"
	"strings"

	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// SkillHandler provides HTTP handlers for the shared skill catalog.
type SkillHandler struct {
	skills *services.SkillService
}

func NewSkillHandler(skills *services.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// SkillRouter registers skill routes on the given router. The catalog
// is publicly readable; mutations require the admin role, enforced in
// the service.
func SkillRouter(r chi.Router, skills *services.SkillService, requireAuth func(http.Handler) http.Handler) {
	handler := NewSkillHandler(skills)

	r.Get("/", handler.List)
	r.With(requireAuth).Post("/", handler.Create)
	r.Route("/{skillID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(requireAuth).Put("/", handler.Update)
		r.With(requireAuth).Delete("/", handler.Delete)
	})
}

type SkillRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Proficiency int    `json:"proficiency"`
	Icon        string `json:"icon"`
}

func (req *SkillRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return &store.ValidationError{Field: "name", Message: "is required"}
	}
	if req.Proficiency < 1 || req.Proficiency > 100 {
		return &store.ValidationError{Field: "proficiency", Message: "must be between 1 and 100"}
	}
	return nil
}

func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseListCriteria(r)
	if err != nil {
		respondError(w, err)
		return
	}

	filter := store.SkillFilter{
		Category: queryString(r, "category"),
		Search:   queryString(r, "search"),
	}

	items, total, err := h.skills.List(r.Context(), filter, criteria)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, items, criteria, total)
}

func (h *SkillHandler) Get(w http.ResponseWriter, r *http.Request) {
	skill, err := h.skills.Get(r.Context(), chi.URLParam(r, "skillID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, skill)
}

func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req SkillRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, err)
		return
	}

	created, err := h.skills.Create(r.Context(), actor, types.Skill{
		Name:        req.Name,
		Category:    req.Category,
		Proficiency: req.Proficiency,
		Icon:        req.Icon,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusCreated, created)
}

func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req SkillRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.skills.Update(r.Context(), actor, types.Skill{
		ID:          chi.URLParam(r, "skillID"),
		Name:        req.Name,
		Category:    req.Category,
		Proficiency: req.Proficiency,
		Icon:        req.Icon,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, updated)
}

func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.skills.Delete(r.Context(), actor, chi.URLParam(r, "skillID")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "skill deleted")
}
