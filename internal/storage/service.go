package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"backend-trailmeet/internal/db"
	"backend-trailmeet/internal/validation"

	"github.com/google/uuid"
)

// MaxCoverSize is the largest accepted cover photo, in bytes.
const MaxCoverSize = 5 << 20

const coverKind = "cover"

var (
	ErrNotImage  = errors.New("cover must be an image")
	ErrTooLarge  = errors.New("cover exceeds 5 MB")
	ErrInvalidID = errors.New("invalid object id")
	ErrNotFound  = errors.New("object not found")
)

var newObjectID = uuid.NewString

// CoverRequest describes a photo the client is about to upload.
type CoverRequest struct {
	FileName    string `json:"file_name" validate:"notblank,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"min=1"`
}

// Cover is a registered cover photo object.
type Cover struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

type Service struct {
	db      db.Querier
	baseURL string
	now     func() time.Time
}

func NewService(db db.Querier, baseURL string) *Service {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Service{db: db, baseURL: baseURL, now: time.Now}
}

// RegisterCover validates the photo, reserves an object path under covers/
// and records it for the user. The returned URL is where the file is served
// once uploaded.
func (s *Service) RegisterCover(ctx context.Context, userID string, req CoverRequest) (Cover, error) {
	if err := validation.Validate(ctx, req); err != nil {
		return Cover{}, err
	}
	if !strings.HasPrefix(strings.ToLower(req.ContentType), "image/") {
		return Cover{}, ErrNotImage
	}
	if req.Size > MaxCoverSize {
		return Cover{}, ErrTooLarge
	}

	id := newObjectID()
	path := fmt.Sprintf("covers/%d-%s.%s", s.now().UnixMilli(), shortID(id), extension(req))
	cover := Cover{ID: id, Path: path, URL: s.baseURL + path}

	if s.db != nil {
		if err := s.SaveObject(ctx, id, userID, cover.URL, coverKind); err != nil {
			return Cover{}, fmt.Errorf("record cover: %w", err)
		}
	}
	return cover, nil
}

func (s *Service) SaveObject(ctx context.Context, id, userID, url, kind string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, user_id, url, kind)
		VALUES ($1,$2,$3,$4)
	`, id, userID, url, kind)
	return err
}

// RemoveCover deletes a cover record owned by userID. Another user's cover
// reports ErrNotFound. Without a database nothing was recorded and removal
// succeeds.
func (s *Service) RemoveCover(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	if s.db == nil {
		return nil
	}
	tag, err := s.db.Exec(ctx, `
		DELETE FROM storage_objects WHERE id = $1 AND user_id = $2 AND kind = $3
	`, id, userID, coverKind)
	if err != nil {
		return fmt.Errorf("remove cover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// extension takes the file name's extension, falling back to the image
// subtype.
func extension(req CoverRequest) string {
	if ext := strings.TrimPrefix(filepath.Ext(req.FileName), "."); ext != "" {
		return strings.ToLower(ext)
	}
	sub := strings.TrimPrefix(strings.ToLower(req.ContentType), "image/")
	if i := strings.IndexAny(sub, "+;"); i >= 0 {
		sub = sub[:i]
	}
	if sub == "jpeg" {
		return "jpg"
	}
	return sub
}
