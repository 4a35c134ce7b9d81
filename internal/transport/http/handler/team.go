package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealer-api/internal/application/team"
	"github.com/dealer-api/internal/domain"
	"github.com/dealer-api/internal/pkg/validate"
)

// TeamHandler exposes the team-member CRUD endpoints.
type TeamHandler struct {
	svc team.Service
}

func NewTeamHandler(svc team.Service) *TeamHandler {
	return &TeamHandler{svc: svc}
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Team members retrieved successfully", members)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Team member retrieved successfully", m)
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, photo, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer closePhoto(photo)

	m, err := h.svc.Create(r.Context(), input, photo)
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Team member created successfully", m)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, photo, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer closePhoto(photo)

	m, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), input, photo)
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Team member updated successfully", m)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Team member deleted successfully", nil)
}

// parseForm decodes the multipart body into a validated member input plus
// the optional photo upload.
func (h *TeamHandler) parseForm(w http.ResponseWriter, r *http.Request) (domain.TeamMemberInput, *team.Photo, bool) {
	var input domain.TeamMemberInput

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid multipart form")
		return input, nil, false
	}

	input = domain.TeamMemberInput{
		Name:  r.FormValue("name"),
		Role:  r.FormValue("role"),
		Email: r.FormValue("email"),
		Phone: r.FormValue("phone"),
	}
	if err := validate.Struct(input); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return input, nil, false
	}

	var photo *team.Photo
	if headers := r.MultipartForm.File["image"]; len(headers) > 0 {
		fh := headers[0]
		if fh.Size > maxFileSize {
			writeFailure(w, http.StatusBadRequest, "Image exceeds the 10 MiB limit")
			return input, nil, false
		}
		f, err := fh.Open()
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "Could not read uploaded image")
			return input, nil, false
		}
		photo = &team.Photo{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		}
	}

	return input, photo, true
}

// closePhoto releases the photo part reader, if any.
func closePhoto(photo *team.Photo) {
	if photo == nil {
		return
	}
	if c, ok := photo.Reader.(io.Closer); ok {
		_ = c.Close()
	}
}
