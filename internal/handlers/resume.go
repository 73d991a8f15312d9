package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	maxMultipartMemory = 32 << 20
	maxResumeBytes     = 16 << 20

	formFieldFile      = "file"
	formFieldTitle     = "title"
	formFieldIsPrimary = "is_primary"
)

// ResumeHandler provides HTTP handlers for resume files.
type ResumeHandler struct {
	resumes *services.ResumeService
}

func NewResumeHandler(resumes *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

// ResumeRouter registers resume routes on the given router. Resumes are
// private except for the primary-resume download, which backs the
// public resume page.
func ResumeRouter(r chi.Router, resumes *services.ResumeService, requireAuth func(http.Handler) http.Handler) {
	handler := NewResumeHandler(resumes)

	r.Get("/primary", handler.Primary)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", handler.List)
		r.Post("/", handler.Upload)
		r.Route("/{resumeID}", func(r chi.Router) {
			r.Get("/", handler.Get)
			r.Get("/file", handler.Download)
			r.Put("/", handler.Update)
			r.Delete("/", handler.Delete)
		})
	})
}

type ResumeUpdateRequest struct {
	Title     string `json:"title"`
	IsPrimary bool   `json:"is_primary"`
}

func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
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

	primary, err := queryBool(r, "primary")
	if err != nil {
		respondError(w, err)
		return
	}
	filter := store.ResumeFilter{
		UserID:  queryString(r, "user_id"),
		Primary: primary,
	}

	items, total, err := h.resumes.List(r.Context(), actor, filter, criteria)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, items, criteria, total)
}

func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	resume, err := h.resumes.Get(r.Context(), actor, chi.URLParam(r, "resumeID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, resume)
}

// Upload accepts a multipart form with the resume file and its
// metadata. The file is streamed to object storage, not buffered.
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, &store.ValidationError{Field: "body", Message: "invalid multipart form"})
		return
	}

	title := strings.TrimSpace(r.FormValue(formFieldTitle))
	if title == "" {
		respondError(w, &store.ValidationError{Field: formFieldTitle, Message: "is required"})
		return
	}

	isPrimary := false
	if raw := strings.TrimSpace(r.FormValue(formFieldIsPrimary)); raw != "" {
		isPrimary, err = strconv.ParseBool(raw)
		if err != nil {
			respondError(w, &store.ValidationError{Field: formFieldIsPrimary, Message: "must be a boolean"})
			return
		}
	}

	fileHeader, err := singleFormFile(r.MultipartForm, formFieldFile, maxResumeBytes)
	if err != nil {
		respondError(w, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(w, err)
		return
	}
	defer file.Close()

	created, err := h.resumes.Upload(r.Context(), actor, services.ResumeUpload{
		Title:       title,
		FileName:    fileHeader.Filename,
		ContentType: fileContentType(fileHeader),
		Size:        fileHeader.Size,
		IsPrimary:   isPrimary,
		Body:        file,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusCreated, created)
}

func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	resume, body, err := h.resumes.Download(r.Context(), actor, chi.URLParam(r, "resumeID"))
	if err != nil {
		respondError(w, err)
		return
	}
	defer body.Close()

	serveFile(w, resume.FileName, resume.ContentType, body)
}

// Primary streams the primary resume of the requested user. No auth;
// this is the public resume page download.
func (h *ResumeHandler) Primary(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		respondError(w, &store.ValidationError{Field: "user_id", Message: "is required"})
		return
	}

	resume, body, err := h.resumes.Primary(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	defer body.Close()

	serveFile(w, resume.FileName, resume.ContentType, body)
}

func (h *ResumeHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req ResumeUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, &store.ValidationError{Field: "title", Message: "is required"})
		return
	}

	updated, err := h.resumes.Update(r.Context(), actor, types.Resume{
		ID:        chi.URLParam(r, "resumeID"),
		Title:     req.Title,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, updated)
}

func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.resumes.Delete(r.Context(), actor, chi.URLParam(r, "resumeID")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "resume deleted")
}

// singleFormFile returns the one file uploaded under the named field,
// enforcing the size limit before anything is read.
func singleFormFile(form *multipart.Form, field string, limit int64) (*multipart.FileHeader, error) {
	if form == nil {
		return nil, &store.ValidationError{Field: field, Message: "is required"}
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, &store.ValidationError{Field: field, Message: "is required"}
	}
	if len(files) > 1 {
		return nil, &store.ValidationError{Field: field, Message: "only one file is allowed"}
	}
	fileHeader := files[0]
	if fileHeader.Size > limit {
		return nil, &store.ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d bytes", limit)}
	}
	return fileHeader, nil
}

func fileContentType(fileHeader *multipart.FileHeader) string {
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}

func serveFile(w http.ResponseWriter, name, contentType string, body io.Reader) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = io.Copy(w, body)
}
