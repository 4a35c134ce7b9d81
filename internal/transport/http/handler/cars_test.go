package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dealer-api/internal/application/listing"
	"github.com/dealer-api/internal/application/team"
	"github.com/dealer-api/internal/domain"
)

type mockListingSvc struct{ mock.Mock }

func (m *mockListingSvc) List(ctx context.Context, page, limit int) ([]domain.CarListing, domain.Pagination, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]domain.CarListing), args.Get(1).(domain.Pagination), args.Error(2)
}

func (m *mockListingSvc) Get(ctx context.Context, listingID string) (*domain.CarListing, error) {
	args := m.Called(ctx, listingID)
	if l, _ := args.Get(0).(*domain.CarListing); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingSvc) Create(ctx context.Context, input domain.CarListingInput, images, attachments []listing.Upload) (*domain.CarListing, error) {
	args := m.Called(ctx, input, images, attachments)
	if l, _ := args.Get(0).(*domain.CarListing); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingSvc) Update(ctx context.Context, listingID string, input domain.CarListingInput, images, attachments []listing.Upload) (*domain.CarListing, error) {
	args := m.Called(ctx, listingID, input, images, attachments)
	if l, _ := args.Get(0).(*domain.CarListing); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingSvc) Delete(ctx context.Context, listingID string) error {
	return m.Called(ctx, listingID).Error(0)
}

// recordingCloser tracks whether Close was called on an upload reader.
type recordingCloser struct {
	strings.Reader
	closed bool
}

func (r *recordingCloser) Close() error {
	r.closed = true
	return nil
}

func multipartListingReq(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "2020 Corolla"))
	require.NoError(t, mw.WriteField("condition", "USED"))
	require.NoError(t, mw.WriteField("price", "15000"))
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("file-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/v1/cars", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestCreateListing_MultipartHappyPath(t *testing.T) {
	svc := &mockListingSvc{}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in domain.CarListingInput) bool {
		return in.Title == "2020 Corolla" && in.Condition == "USED" && in.Price == 15000
	}), mock.MatchedBy(func(images []listing.Upload) bool {
		return len(images) == 1 && images[0].Filename == "front.jpg"
	}), mock.MatchedBy(func(attachments []listing.Upload) bool {
		return len(attachments) == 0
	})).Return(&domain.CarListing{ListingID: "l1", Title: "2020 Corolla"}, nil)

	h := NewCarsHandler(svc)
	rr := httptest.NewRecorder()
	h.Create(rr, multipartListingReq(t, map[string]string{"galleryImages": "front.jpg"}))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, decodeEnvelope(t, rr).Success)
	svc.AssertExpectations(t)
}

func TestCreateListing_NotMultipart(t *testing.T) {
	h := NewCarsHandler(&mockListingSvc{})
	r := httptest.NewRequest(http.MethodPost, "/v1/cars", strings.NewReader("{}"))
	r.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Create(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOpenUploads_RejectsOversizedFile(t *testing.T) {
	_, err := openUploads([]*multipart.FileHeader{
		{Filename: "huge.jpg", Size: maxFileSize + 1},
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestCloseUploads_ClosesEveryReader(t *testing.T) {
	a := &recordingCloser{Reader: *strings.NewReader("a")}
	b := &recordingCloser{Reader: *strings.NewReader("b")}
	closeUploads([]listing.Upload{
		{Reader: a, Filename: "a.jpg"},
		{Reader: strings.NewReader("plain"), Filename: "plain.jpg"},
		{Reader: b, Filename: "b.jpg"},
	})
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestClosePhoto_ClosesReader(t *testing.T) {
	closePhoto(nil)

	rc := &recordingCloser{Reader: *strings.NewReader("png")}
	closePhoto(&team.Photo{Reader: rc, Filename: "bob.png"})
	assert.True(t, rc.closed)
}
