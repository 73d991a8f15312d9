package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ExperienceHandler provides HTTP handlers for work history entries.
type ExperienceHandler struct {
	experiences *services.ExperienceService
}

func NewExperienceHandler(experiences *services.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{experiences: experiences}
}

// ExperienceRouter registers experience routes on the given router.
func ExperienceRouter(r chi.Router, experiences *services.ExperienceService, requireAuth func(http.Handler) http.Handler) {
	handler := NewExperienceHandler(experiences)

	r.Get("/", handler.List)
	r.With(requireAuth).Post("/", handler.Create)
	r.Route("/{experienceID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(requireAuth).Put("/", handler.Update)
		r.With(requireAuth).Delete("/", handler.Delete)
	})
}

type ExperienceRequest struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (req ExperienceRequest) toExperience() (types.Experience, error) {
	company := strings.TrimSpace(req.Company)
	if company == "" {
		return types.Experience{}, &store.ValidationError{Field: "company", Message: "is required"}
	}
	position := strings.TrimSpace(req.Position)
	if position == "" {
		return types.Experience{}, &store.ValidationError{Field: "position", Message: "is required"}
	}

	start, err := parseDate(req.StartDate)
	if err != nil || start == nil {
		return types.Experience{}, &store.ValidationError{Field: "start_date", Message: "must be a date (YYYY-MM-DD)"}
	}

	var end *time.Time
	if !req.Current {
		end, err = parseDate(req.EndDate)
		if err != nil {
			return types.Experience{}, &store.ValidationError{Field: "end_date", Message: "must be a date (YYYY-MM-DD)"}
		}
	}

	return types.Experience{
		Company:     company,
		Position:    position,
		Location:    req.Location,
		StartDate:   *start,
		EndDate:     end,
		Current:     req.Current,
		Description: req.Description,
	}, nil
}

// parseDate accepts a bare date or a full RFC 3339 timestamp. Empty
// input yields nil without error.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, &store.ValidationError{Field: "date", Message: "unrecognized date format"}
}

func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseListCriteria(r)
	if err != nil {
		respondError(w, err)
		return
	}

	current, err := queryBool(r, "current")
	if err != nil {
		respondError(w, err)
		return
	}
	filter := store.ExperienceFilter{
		UserID:  queryString(r, "user_id"),
		Current: current,
		Search:  queryString(r, "search"),
	}

	items, total, err := h.experiences.List(r.Context(), filter, criteria)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, items, criteria, total)
}

func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
	experience, err := h.experiences.Get(r.Context(), chi.URLParam(r, "experienceID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, experience)
}

func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req ExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	experience, err := req.toExperience()
	if err != nil {
		respondError(w, err)
		return
	}

	created, err := h.experiences.Create(r.Context(), actor, experience)
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusCreated, created)
}

func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req ExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	experience, err := req.toExperience()
	if err != nil {
		respondError(w, err)
		return
	}
	experience.ID = chi.URLParam(r, "experienceID")

	updated, err := h.experiences.Update(r.Context(), actor, experience)
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, updated)
}

func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.experiences.Delete(r.Context(), actor, chi.URLParam(r, "experienceID")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "experience deleted")
}
