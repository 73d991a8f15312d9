package handlers

import (
	"net/http"
	"strings"

	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ContactHandler provides HTTP handlers for the contact form and the
// admin inbox.
type ContactHandler struct {
	contact *services.ContactService
}

func NewContactHandler(contact *services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// ContactRouter registers contact routes on the given router.
// Submitting is public; everything else is the admin inbox.
func ContactRouter(r chi.Router, contact *services.ContactService, requireAuth func(http.Handler) http.Handler) {
	handler := NewContactHandler(contact)

	r.Post("/", handler.Create)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", handler.List)
		r.Route("/{messageID}", func(r chi.Router) {
			r.Get("/", handler.Get)
			r.Post("/read", handler.MarkRead)
			r.Delete("/", handler.Delete)
		})
	})
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (req *ContactRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	if req.Name == "" {
		return &store.ValidationError{Field: "name", Message: "is required"}
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return &store.ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return &store.ValidationError{Field: "message", Message: "is required"}
	}
	return nil
}

// Create accepts a contact form submission. No auth; this is the
// public site form.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, err)
		return
	}

	created, err := h.contact.Create(r.Context(), types.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusCreated, created)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	criteria, err := parseListCriteria(r)
	if err != nil {
		respondError(w, err)
		return
	}

	read, err := queryBool(r, "read")
	if err != nil {
		respondError(w, err)
		return
	}
	filter := store.ContactFilter{
		Read:   read,
		Search: queryString(r, "search"),
	}

	items, total, err := h.contact.List(r.Context(), actor, filter, criteria)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, items, criteria, total)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	message, err := h.contact.Get(r.Context(), actor, chi.URLParam(r, "messageID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, message)
}

func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	message, err := h.contact.MarkRead(r.Context(), actor, chi.URLParam(r, "messageID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, message)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.contact.Delete(r.Context(), actor, chi.URLParam(r, "messageID")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "contact message deleted")
}
