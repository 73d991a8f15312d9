package handlers

import (
	"net/http"
	"strings"

	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// EducationHandler provides HTTP handlers for education history entries.
type EducationHandler struct {
	education *services.EducationService
}

func NewEducationHandler(education *services.EducationService) *EducationHandler {
	return &EducationHandler{education: education}
}

// EducationRouter registers education routes on the given router.
func EducationRouter(r chi.Router, education *services.EducationService, requireAuth func(http.Handler) http.Handler) {
	handler := NewEducationHandler(education)

	r.Get("/", handler.List)
	r.With(requireAuth).Post("/", handler.Create)
	r.Route("/{educationID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(requireAuth).Put("/", handler.Update)
		r.With(requireAuth).Delete("/", handler.Delete)
	})
}

type EducationRequest struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description"`
}

func (req EducationRequest) toEducation() (types.Education, error) {
	institution := strings.TrimSpace(req.Institution)
	if institution == "" {
		return types.Education{}, &store.ValidationError{Field: "institution", Message: "is required"}
	}
	degree := strings.TrimSpace(req.Degree)
	if degree == "" {
		return types.Education{}, &store.ValidationError{Field: "degree", Message: "is required"}
	}

	start, err := parseDate(req.StartDate)
	if err != nil || start == nil {
		return types.Education{}, &store.ValidationError{Field: "start_date", Message: "must be a date (YYYY-MM-DD)"}
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return types.Education{}, &store.ValidationError{Field: "end_date", Message: "must be a date (YYYY-MM-DD)"}
	}

	return types.Education{
		Institution:  institution,
		Degree:       degree,
		FieldOfStudy: req.FieldOfStudy,
		StartDate:    *start,
		EndDate:      end,
		Description:  req.Description,
	}, nil
}

func (h *EducationHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseListCriteria(r)
	if err != nil {
		respondError(w, err)
		return
	}

	filter := store.EducationFilter{
		UserID: queryString(r, "user_id"),
		Search: queryString(r, "search"),
	}

	items, total, err := h.education.List(r.Context(), filter, criteria)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, items, criteria, total)
}

func (h *EducationHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.education.Get(r.Context(), chi.URLParam(r, "educationID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, entry)
}

func (h *EducationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req EducationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	entry, err := req.toEducation()
	if err != nil {
		respondError(w, err)
		return
	}

	created, err := h.education.Create(r.Context(), actor, entry)
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusCreated, created)
}

func (h *EducationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req EducationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	entry, err := req.toEducation()
	if err != nil {
		respondError(w, err)
		return
	}
	entry.ID = chi.URLParam(r, "educationID")

	updated, err := h.education.Update(r.Context(), actor, entry)
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, updated)
}

func (h *EducationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.education.Delete(r.Context(), actor, chi.URLParam(r, "educationID")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "education entry deleted")
}
