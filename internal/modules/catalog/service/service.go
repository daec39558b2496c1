package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/modules/catalog/dto"
	"anoa.com/mediannsp/internal/modules/catalog/repository"
	"anoa.com/mediannsp/pkg/apperror"
	"anoa.com/mediannsp/pkg/database"
)

type CatalogService[T repository.Item] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, req dto.CreateCatalogRequest) (*T, error)
	Update(ctx context.Context, id uint, req dto.UpdateCatalogRequest) (*T, error)
	Delete(ctx context.Context, id uint) error
}

type catalogService[T repository.Item] struct {
	repo  repository.CatalogRepository[T]
	label string
}

// NewCatalogService builds the service; label names the item in messages, e.g. "Device type".
func NewCatalogService[T repository.Item](repo repository.CatalogRepository[T], label string) CatalogService[T] {
	return &catalogService[T]{repo: repo, label: label}
}

func (s *catalogService[T]) notFound() error {
	return apperror.NotFound(s.label + " not found")
}

func (s *catalogService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.FindAll(ctx)
}

func (s *catalogService[T]) Get(ctx context.Context, id uint) (*T, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, s.notFound()
	}
	return item, nil
}

func (s *catalogService[T]) Create(ctx context.Context, req dto.CreateCatalogRequest) (*T, error) {
	item := T(entity.CatalogItem{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})

	created, err := s.repo.Create(ctx, &item)
	if err != nil {
		return nil, s.mapWriteError(err)
	}
	return created, nil
}

func (s *catalogService[T]) Update(ctx context.Context, id uint, req dto.UpdateCatalogRequest) (*T, error) {
	updated, err := s.repo.Update(ctx, id, req.Fields())
	if err != nil {
		return nil, s.mapWriteError(err)
	}
	if updated == nil {
		return nil, s.notFound()
	}
	return updated, nil
}

func (s *catalogService[T]) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.mapWriteError(err)
	}
	if affected == 0 {
		return s.notFound()
	}
	return nil
}

func (s *catalogService[T]) mapWriteError(err error) error {
	switch {
	case database.IsDuplicate(err):
		return apperror.New(http.StatusConflict, fmt.Sprintf("%s with this name already exists", s.label), apperror.ErrConflict)
	case database.IsForeignKeyViolation(err):
		return apperror.New(http.StatusConflict, fmt.Sprintf("%s is still in use", s.label), apperror.ErrConflict)
	default:
		return err
	}
}
