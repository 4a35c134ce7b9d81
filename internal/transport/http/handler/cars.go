package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dealer-api/internal/application/listing"
	"github.com/dealer-api/internal/domain"
	"github.com/dealer-api/internal/pkg/validate"
)

const (
	maxMultipartMemory = 32 << 20 // 32 MiB
	maxFileSize        = 10 << 20 // 10 MiB per file
)

// CarsHandler exposes the car-listing CRUD endpoints.
type CarsHandler struct {
	svc listing.Service
}

func NewCarsHandler(svc listing.Service) *CarsHandler {
	return &CarsHandler{svc: svc}
}

func (h *CarsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	listings, pagination, err := h.svc.List(r.Context(), page, limit)
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Listings retrieved successfully", map[string]interface{}{
		"listings":   listings,
		"pagination": pagination,
	})
}

func (h *CarsHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Listing retrieved successfully", l)
}

func (h *CarsHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, images, attachments, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer closeUploads(images)
	defer closeUploads(attachments)

	l, err := h.svc.Create(r.Context(), input, images, attachments)
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Listing created successfully", l)
}

func (h *CarsHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, images, attachments, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	defer closeUploads(images)
	defer closeUploads(attachments)

	l, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), input, images, attachments)
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Listing updated successfully", l)
}

func (h *CarsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Listing deleted successfully", nil)
}

// parseForm decodes the multipart body into a validated listing input plus
// the gallery and attachment uploads. On failure it writes the error
// response and returns ok=false.
func (h *CarsHandler) parseForm(w http.ResponseWriter, r *http.Request) (domain.CarListingInput, []listing.Upload, []listing.Upload, bool) {
	var input domain.CarListingInput

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid multipart form")
		return input, nil, nil, false
	}

	input = domain.CarListingInput{
		Title:        r.FormValue("title"),
		Make:         r.FormValue("make"),
		Model:        r.FormValue("model"),
		Year:         formInt(r, "year"),
		Condition:    r.FormValue("condition"),
		Type:         r.FormValue("type"),
		Price:        formFloat(r, "price"),
		Color:        r.FormValue("color"),
		Mileage:      formFloat(r, "mileage"),
		Transmission: r.FormValue("transmission"),
		FuelType:     r.FormValue("fuel_type"),
		VideoLink:    r.FormValue("video_link"),
		DriveType:    r.FormValue("drive_type"),
		EngineSize:   formFloat(r, "engine_size"),
		Cylinders:    formInt(r, "cylinders"),
		Doors:        formInt(r, "doors"),
		VIN:          r.FormValue("vin"),
		Description:  r.FormValue("description"),
		Features:     r.MultipartForm.Value["features"],
		SafetyFeats:  r.MultipartForm.Value["safety_features"],
	}

	if err := validate.Struct(input); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return input, nil, nil, false
	}

	images, err := openUploads(r.MultipartForm.File["galleryImages"])
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return input, nil, nil, false
	}
	attachments, err := openUploads(r.MultipartForm.File["attachments"])
	if err != nil {
		closeUploads(images)
		writeFailure(w, http.StatusBadRequest, err.Error())
		return input, nil, nil, false
	}

	return input, images, attachments, true
}

func openUploads(headers []*multipart.FileHeader) ([]listing.Upload, error) {
	uploads := make([]listing.Upload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxFileSize {
			closeUploads(uploads)
			return nil, fmt.Errorf("file %q exceeds the 10 MiB limit: %w", fh.Filename, domain.ErrBadRequest)
		}
		f, err := fh.Open()
		if err != nil {
			closeUploads(uploads)
			return nil, err
		}
		uploads = append(uploads, listing.Upload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}
	return uploads, nil
}

// closeUploads releases the multipart part readers. Parts spooled to disk
// past the memory threshold hold an open file descriptor until closed.
func closeUploads(uploads []listing.Upload) {
	for _, up := range uploads {
		if c, ok := up.Reader.(io.Closer); ok {
			_ = c.Close()
		}
	}
}

func formInt(r *http.Request, key string) int {
	v, _ := strconv.Atoi(r.FormValue(key))
	return v
}

func formFloat(r *http.Request, key string) float64 {
	v, _ := strconv.ParseFloat(r.FormValue(key), 64)
	return v
}
