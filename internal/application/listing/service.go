package listing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dealer-api/internal/domain"
	s3infra "github.com/dealer-api/internal/infrastructure/s3"
	"github.com/dealer-api/internal/pkg/id"
)

// ListingStore is the record store for car listings.
type ListingStore interface {
	Put(ctx context.Context, l *domain.CarListing) error
	Get(ctx context.Context, listingID string) (*domain.CarListing, error)
	Scan(ctx context.Context) ([]domain.CarListing, error)
	Delete(ctx context.Context, listingID string) error
}

// MediaStore is the remote media host. Upload returns a durable URL; the
// key passed in doubles as the deletion handle.
type MediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Upload is one incoming multipart file destined for the media host.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Service handles car-listing CRUD with media upload.
type Service interface {
	List(ctx context.Context, page, limit int) ([]domain.CarListing, domain.Pagination, error)
	Get(ctx context.Context, listingID string) (*domain.CarListing, error)
	Create(ctx context.Context, input domain.CarListingInput, images, attachments []Upload) (*domain.CarListing, error)
	Update(ctx context.Context, listingID string, input domain.CarListingInput, images, attachments []Upload) (*domain.CarListing, error)
	Delete(ctx context.Context, listingID string) error
}

type service struct {
	repo  ListingStore
	media MediaStore
}

func NewService(repo ListingStore, media MediaStore) Service {
	return &service{repo: repo, media: media}
}

func (s *service) List(ctx context.Context, page, limit int) ([]domain.CarListing, domain.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	all, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	total := len(all)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return all[start:end], domain.Pagination{
		TotalItems:   total,
		TotalPages:   totalPages,
		CurrentPage:  page,
		ItemsPerPage: limit,
	}, nil
}

func (s *service) Get(ctx context.Context, listingID string) (*domain.CarListing, error) {
	return s.repo.Get(ctx, listingID)
}

func (s *service) Create(ctx context.Context, input domain.CarListingInput, images, attachments []Upload) (*domain.CarListing, error) {
	listingID := id.New()

	gallery, err := s.uploadAll(ctx, listingID, "car-images", images)
	if err != nil {
		return nil, err
	}
	atts, err := s.uploadAll(ctx, listingID, "car-attachments", attachments)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := fromInput(input)
	l.ListingID = listingID
	l.GalleryImages = gallery
	l.Attachments = atts
	l.CreatedAt = now
	l.UpdatedAt = now

	if err := s.repo.Put(ctx, l); err != nil {
		return nil, err
	}
	slog.Info("car listing created", "listing_id", l.ListingID, "title", l.Title)
	return l, nil
}

// Update replaces the listing's fields and media wholesale: old media host
// objects are deleted (best effort) and the newly uploaded set takes their
// place.
func (s *service) Update(ctx context.Context, listingID string, input domain.CarListingInput, images, attachments []Upload) (*domain.CarListing, error) {
	existing, err := s.repo.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}

	s.deleteAll(ctx, existing.GalleryImages)
	s.deleteAll(ctx, existing.Attachments)

	gallery, err := s.uploadAll(ctx, listingID, "car-images", images)
	if err != nil {
		return nil, err
	}
	atts, err := s.uploadAll(ctx, listingID, "car-attachments", attachments)
	if err != nil {
		return nil, err
	}

	l := fromInput(input)
	l.ListingID = listingID
	l.GalleryImages = gallery
	l.Attachments = atts
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = time.Now().UTC()

	if err := s.repo.Put(ctx, l); err != nil {
		return nil, err
	}
	slog.Info("car listing updated", "listing_id", listingID)
	return l, nil
}

func (s *service) Delete(ctx context.Context, listingID string) error {
	existing, err := s.repo.Get(ctx, listingID)
	if err != nil {
		return err
	}
	s.deleteAll(ctx, existing.GalleryImages)
	s.deleteAll(ctx, existing.Attachments)

	if err := s.repo.Delete(ctx, listingID); err != nil {
		return err
	}
	slog.Info("car listing deleted", "listing_id", listingID)
	return nil
}

func (s *service) uploadAll(ctx context.Context, listingID, folder string, uploads []Upload) ([]domain.MediaObject, error) {
	objects := make([]domain.MediaObject, 0, len(uploads))
	for _, up := range uploads {
		key := fmt.Sprintf("%s/%s/%s-%s", folder, listingID, id.New(), s3infra.SanitizeFilename(up.Filename))
		contentType := up.ContentType
		if contentType == "" {
			contentType = s3infra.ContentTypeFromName(up.Filename)
		}
		url, err := s.media.Upload(ctx, key, up.Reader, contentType)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", up.Filename, err)
		}
		objects = append(objects, domain.MediaObject{
			URL:          url,
			Key:          key,
			OriginalName: up.Filename,
		})
	}
	return objects, nil
}

// deleteAll removes media host objects best effort; a stale object is not
// worth failing the request over.
func (s *service) deleteAll(ctx context.Context, objects []domain.MediaObject) {
	for _, o := range objects {
		if o.Key == "" {
			continue
		}
		if err := s.media.Delete(ctx, o.Key); err != nil {
			slog.Warn("could not delete media object", "key", o.Key, "err", err)
		}
	}
}

func fromInput(in domain.CarListingInput) *domain.CarListing {
	return &domain.CarListing{
		Title:        in.Title,
		Make:         in.Make,
		Model:        in.Model,
		Year:         in.Year,
		Condition:    in.Condition,
		Type:         in.Type,
		Price:        in.Price,
		Color:        in.Color,
		Mileage:      in.Mileage,
		Transmission: in.Transmission,
		FuelType:     in.FuelType,
		VideoLink:    in.VideoLink,
		DriveType:    in.DriveType,
		EngineSize:   in.EngineSize,
		Cylinders:    in.Cylinders,
		Doors:        in.Doors,
		VIN:          in.VIN,
		Description:  in.Description,
		Features:     in.Features,
		SafetyFeats:  in.SafetyFeats,
	}
}
