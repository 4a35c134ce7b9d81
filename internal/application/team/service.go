package team

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dealer-api/internal/domain"
	s3infra "github.com/dealer-api/internal/infrastructure/s3"
	"github.com/dealer-api/internal/pkg/id"
)

// TeamStore is the record store for staff members.
type TeamStore interface {
	Put(ctx context.Context, m *domain.TeamMember) error
	Get(ctx context.Context, memberID string) (*domain.TeamMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.TeamMember, error)
	Scan(ctx context.Context) ([]domain.TeamMember, error)
	Delete(ctx context.Context, memberID string) error
}

// MediaStore mirrors the listing service's media host interface.
type MediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Photo is an incoming profile image upload.
type Photo struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Service handles team-member CRUD.
type Service interface {
	List(ctx context.Context) ([]domain.TeamMember, error)
	Get(ctx context.Context, memberID string) (*domain.TeamMember, error)
	Create(ctx context.Context, input domain.TeamMemberInput, photo *Photo) (*domain.TeamMember, error)
	Update(ctx context.Context, memberID string, input domain.TeamMemberInput, photo *Photo) (*domain.TeamMember, error)
	Delete(ctx context.Context, memberID string) error
}

type service struct {
	repo  TeamStore
	media MediaStore
}

func NewService(repo TeamStore, media MediaStore) Service {
	return &service{repo: repo, media: media}
}

func (s *service) List(ctx context.Context) ([]domain.TeamMember, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, memberID string) (*domain.TeamMember, error) {
	return s.repo.Get(ctx, memberID)
}

func (s *service) Create(ctx context.Context, input domain.TeamMemberInput, photo *Photo) (*domain.TeamMember, error) {
	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("a member with this email already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	memberID := id.New()
	image, err := s.uploadPhoto(ctx, memberID, photo)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &domain.TeamMember{
		MemberID:  memberID,
		Name:      input.Name,
		Role:      input.Role,
		Email:     input.Email,
		Phone:     input.Phone,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, err
	}
	slog.Info("team member created", "email", input.Email)
	return m, nil
}

func (s *service) Update(ctx context.Context, memberID string, input domain.TeamMemberInput, photo *Photo) (*domain.TeamMember, error) {
	existing, err := s.repo.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}

	image := existing.Image
	if photo != nil {
		if existing.Image != nil && existing.Image.Key != "" {
			if err := s.media.Delete(ctx, existing.Image.Key); err != nil {
				slog.Warn("could not delete old member photo", "key", existing.Image.Key, "err", err)
			}
		}
		image, err = s.uploadPhoto(ctx, memberID, photo)
		if err != nil {
			return nil, err
		}
	}

	m := &domain.TeamMember{
		MemberID:  memberID,
		Name:      input.Name,
		Role:      input.Role,
		Email:     input.Email,
		Phone:     input.Phone,
		Image:     image,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, err
	}
	slog.Info("team member updated", "member_id", memberID)
	return m, nil
}

func (s *service) Delete(ctx context.Context, memberID string) error {
	existing, err := s.repo.Get(ctx, memberID)
	if err != nil {
		return err
	}
	if existing.Image != nil && existing.Image.Key != "" {
		if err := s.media.Delete(ctx, existing.Image.Key); err != nil {
			slog.Warn("could not delete member photo", "key", existing.Image.Key, "err", err)
		}
	}
	if err := s.repo.Delete(ctx, memberID); err != nil {
		return err
	}
	slog.Info("team member deleted", "member_id", memberID)
	return nil
}

func (s *service) uploadPhoto(ctx context.Context, memberID string, photo *Photo) (*domain.MediaObject, error) {
	if photo == nil {
		return nil, nil
	}
	key := fmt.Sprintf("team/%s/%s-%s", memberID, id.New(), s3infra.SanitizeFilename(photo.Filename))
	contentType := photo.ContentType
	if contentType == "" {
		contentType = s3infra.ContentTypeFromName(photo.Filename)
	}
	url, err := s.media.Upload(ctx, key, photo.Reader, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	return &domain.MediaObject{URL: url, Key: key, OriginalName: photo.Filename}, nil
}
