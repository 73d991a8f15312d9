package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/devfolio/apiserver/internal/services"
	"github.com/devfolio/apiserver/internal/store"
	"github.com/devfolio/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	maxGalleryImageBytes = 8 << 20

	formFieldProjectID = "project_id"
	formFieldCaption   = "caption"
	formFieldSortOrder = "sort_order"
)

// GalleryHandler provides HTTP handlers for project gallery images.
type GalleryHandler struct {
	gallery *services.GalleryService
}

func NewGalleryHandler(gallery *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// GalleryRouter registers gallery routes on the given router. Images
// are publicly viewable; mutations follow project ownership.
func GalleryRouter(r chi.Router, gallery *services.GalleryService, requireAuth func(http.Handler) http.Handler) {
	handler := NewGalleryHandler(gallery)

	r.Get("/", handler.List)
	r.With(requireAuth).Post("/", handler.Upload)
	r.Route("/{imageID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Get("/file", handler.Download)
		r.With(requireAuth).Put("/", handler.Update)
		r.With(requireAuth).Delete("/", handler.Delete)
	})
}

type GalleryUpdateRequest struct {
	Caption   string `json:"caption"`
	SortOrder int    `json:"sort_order"`
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseListCriteria(r)
	if err != nil {
		respondError(w, err)
		return
	}

	filter := store.GalleryFilter{
		ProjectID: queryString(r, "project_id"),
	}

	items, total, err := h.gallery.List(r.Context(), filter, criteria)
	if err != nil {
		respondError(w, err)
		return
	}
	respondList(w, items, criteria, total)
}

func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	image, err := h.gallery.Get(r.Context(), chi.URLParam(r, "imageID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, image)
}

// Upload accepts a multipart form with the image file, the target
// project, and display metadata.
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, &store.ValidationError{Field: "body", Message: "invalid multipart form"})
		return
	}

	projectID := strings.TrimSpace(r.FormValue(formFieldProjectID))
	if projectID == "" {
		respondError(w, &store.ValidationError{Field: formFieldProjectID, Message: "is required"})
		return
	}

	sortOrder := 0
	if raw := strings.TrimSpace(r.FormValue(formFieldSortOrder)); raw != "" {
		sortOrder, err = strconv.Atoi(raw)
		if err != nil {
			respondError(w, &store.ValidationError{Field: formFieldSortOrder, Message: "must be an integer"})
			return
		}
	}

	fileHeader, err := singleFormFile(r.MultipartForm, formFieldFile, maxGalleryImageBytes)
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

	created, err := h.gallery.Upload(r.Context(), actor, services.GalleryUpload{
		ProjectID:   projectID,
		Caption:     r.FormValue(formFieldCaption),
		FileName:    fileHeader.Filename,
		ContentType: fileContentType(fileHeader),
		Size:        fileHeader.Size,
		SortOrder:   sortOrder,
		Body:        file,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusCreated, created)
}

func (h *GalleryHandler) Download(w http.ResponseWriter, r *http.Request) {
	image, body, err := h.gallery.Download(r.Context(), chi.URLParam(r, "imageID"))
	if err != nil {
		respondError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", image.ContentType)
	_, _ = io.Copy(w, body)
}

func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req GalleryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.gallery.Update(r.Context(), actor, types.GalleryImage{
		ID:        chi.URLParam(r, "imageID"),
		Caption:   req.Caption,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondEntity(w, http.StatusOK, updated)
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.gallery.Delete(r.Context(), actor, chi.URLParam(r, "imageID")); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, "gallery image deleted")
}
