package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// SocialLinkHandler provides HTTP handlers for social profile links.
type SocialLinkHandler struct {
	links *services.SocialLinkService
}

func NewSocialLinkHandler(links *services.SocialLinkService) *SocialLinkHandler {
	return &SocialLinkHandler{links: links}
}

// SocialLinkRouter registers social link routes on the given router.
func SocialLinkRouter(r chi.Router, links *services.SocialLinkService, requireAuth func(http.Handler) http.Handler) {
	handler := NewSocialLinkHandler(links)

	r.Get("/", handler.List)
	r.With(requireAuth).Post("/", handler.Create)
	r.Route("/{linkID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(requireAuth).Put("/", handler.Update)
		r.With(requireAuth).Delete("/", handler.Delete)
	})
}

type SocialLinkRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

func (req *SocialLinkRequest) validate() error {
	req.Platform = strings.TrimSpace(req.Platform)
	req.URL = strings.TrimSpace(req.URL)
	if req.Platform == "" {
		return &store.ValidationError{Field: "platform", Message: "is required"}
	}
	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &store.ValidationError{Field: "url", Message: "must be an absolute URL"}
	}
	return nil
}

func (h *SocialLinkHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseListCriteria(r)
	if err != nil {
		respondError(w, err)
		return
	}

	filter := store.SocialLinkFilter{
		UserID:   queryString(r, "user_id"),
		Platform: queryString(r, "platform"),
	}

	items, total, err := h.links.List(r.Context(), filter, criteria)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, items, criteria, total)
}

func (h *SocialLinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.Get(r.Context(), chi.URLParam(r, "linkID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, link)
}

func (h *SocialLinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req SocialLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, err)
		return
	}

	created, err := h.links.Create(r.Context(), actor, types.SocialLink{
		Platform: req.Platform,
		URL:      req.URL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusCreated, created)
}

func (h *SocialLinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req SocialLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.links.Update(r.Context(), actor, types.SocialLink{
		ID:       chi.URLParam(r, "linkID"),
		Platform: req.Platform,
		URL:      req.URL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, updated)
}

func (h *SocialLinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.links.Delete(r.Context(), actor, chi.URLParam(r, "linkID")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "social link deleted")
}
