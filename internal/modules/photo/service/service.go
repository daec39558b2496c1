package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/modules/photo/repository"
	"anoa.com/mediannsp/pkg/apperror"
	"anoa.com/mediannsp/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
)

const (
	photoFolder = "photos"
	photoPrefix = "photo"
	sniffLen    = 3072
)

var (
	errPhotoNotFound     = apperror.NotFound("Photo not found")
	errPhotoFileNotFound = apperror.NotFound("Photo file not found")
	errBadEntityType     = apperror.BadRequest(`Entity type must be "device" or "component"`)
	errNotAnImage        = apperror.BadRequest("Only image files are allowed!")
)

// Upload is a photo file received from a client.
type Upload struct {
	EntityType string
	EntityID   uint
	FileName   string
	Reader     io.Reader
	UploadedBy *uint
}

type PhotoService interface {
	Upload(ctx context.Context, upload Upload) (*entity.Photo, error)
	ListByEntity(ctx context.Context, entityType string, entityID uint) ([]entity.Photo, error)
	Get(ctx context.Context, id uint) (*entity.Photo, error)
	// Open returns the photo and its file; the caller closes the file.
	Open(ctx context.Context, id uint) (*entity.Photo, *os.File, error)
	SetPrimary(ctx context.Context, id uint) (*entity.Photo, error)
	Delete(ctx context.Context, id uint) error
}

type photoService struct {
	repo    repository.PhotoRepository
	storage storage.ImageStorage
	logger  *slog.Logger
}

func NewPhotoService(repo repository.PhotoRepository, storage storage.ImageStorage, logger *slog.Logger) PhotoService {
	return &photoService{repo: repo, storage: storage, logger: logger}
}

func withURL(p *entity.Photo) *entity.Photo {
	p.URL = entity.PublicPrefix + p.FilePath
	return p
}

func (s *photoService) parseRef(entityType string, id uint) (entity.EntityRef, error) {
	ref, err := entity.NewEntityRef(entityType, id)
	if err != nil {
		return entity.EntityRef{}, errBadEntityType
	}
	return ref, nil
}

func (s *photoService) Upload(ctx context.Context, upload Upload) (*entity.Photo, error) {
	ref, err := s.parseRef(upload.EntityType, upload.EntityID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.EntityExists(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound(fmt.Sprintf("%s not found", entityLabel(ref.Type)))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, errNotAnImage
	}
	ext := mtype.Extension()
	if ext == "" {
		ext = filepath.Ext(upload.FileName)
	}

	key, size, err := s.storage.SaveImage(ctx, io.MultiReader(bytes.NewReader(head), upload.Reader), photoFolder, photoPrefix, ext)
	if err != nil {
		return nil, err
	}

	photo := &entity.Photo{
		EntityType: ref.Type,
		EntityID:   ref.ID,
		FilePath:   key,
		FileName:   filepath.Base(upload.FileName),
		FileSize:   size,
		MimeType:   mtype.String(),
		UploadedBy: upload.UploadedBy,
	}
	created, err := s.repo.Create(ctx, photo)
	if err != nil {
		if delErr := s.storage.DeleteImage(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove file of rejected photo", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "photo uploaded",
		slog.Uint64("photo_id", uint64(created.ID)),
		slog.String("entity", ref.String()),
		slog.Int64("size", size),
	)
	return withURL(created), nil
}

func entityLabel(t entity.EntityType) string {
	if t == entity.EntityComponent {
		return "Component"
	}
	return "Device"
}

func (s *photoService) ListByEntity(ctx context.Context, entityType string, entityID uint) ([]entity.Photo, error) {
	ref, err := s.parseRef(entityType, entityID)
	if err != nil {
		return nil, err
	}
	photos, err := s.repo.ListByEntity(ctx, ref)
	if err != nil {
		return nil, err
	}
	for i := range photos {
		withURL(&photos[i])
	}
	return photos, nil
}

func (s *photoService) Get(ctx context.Context, id uint) (*entity.Photo, error) {
	photo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, errPhotoNotFound
	}
	return withURL(photo), nil
}

func (s *photoService) Open(ctx context.Context, id uint) (*entity.Photo, *os.File, error) {
	photo, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.storage.Open(ctx, photo.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, nil, errPhotoFileNotFound
		}
		return nil, nil, err
	}
	return photo, f, nil
}

func (s *photoService) SetPrimary(ctx context.Context, id uint) (*entity.Photo, error) {
	photo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.SetAsPrimary(ctx, id, photo.Ref())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errPhotoNotFound
	}
	return withURL(updated), nil
}

func (s *photoService) Delete(ctx context.Context, id uint) error {
	photo, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errPhotoNotFound
	}

	if err := s.storage.DeleteImage(ctx, photo.FilePath); err != nil {
		// The row is gone; the cleanup job removes the stray file later.
		s.logger.WarnContext(ctx, "failed to delete photo file", slog.String("key", photo.FilePath), slog.Any("error", err))
	}
	return nil
}

// ErrFileTooLarge builds the error for an upload above limit bytes.
func ErrFileTooLarge(limit int64) error {
	return apperror.New(http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Maximum size is %d bytes", limit), apperror.ErrBadRequest)
}
