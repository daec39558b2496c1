package component

import (
	"context"
	"net/http"
	"strings"

	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/modules/component/dto"
	"anoa.com/mediannsp/internal/modules/component/repository"
	"anoa.com/mediannsp/pkg/apperror"
	"anoa.com/mediannsp/pkg/database"
	commonDto "anoa.com/mediannsp/pkg/dto"
)

var errComponentNotFound = apperror.NotFound("Component not found")

type ComponentService interface {
	List(ctx context.Context, query dto.ListComponentsQuery) (*commonDto.Page[entity.Component], error)
	Get(ctx context.Context, id uint) (*entity.Component, error)
	Create(ctx context.Context, req dto.CreateComponentRequest, userID *uint) (*entity.Component, error)
	Update(ctx context.Context, id uint, req dto.UpdateComponentRequest, userID *uint) (*entity.Component, error)
	Delete(ctx context.Context, id uint) error
}

type componentService struct {
	repo repository.ComponentRepository
}

func NewComponentService(repo repository.ComponentRepository) ComponentService {
	return &componentService{repo: repo}
}

func (s *componentService) List(ctx context.Context, query dto.ListComponentsQuery) (*commonDto.Page[entity.Component], error) {
	query.Normalize()
	return s.repo.List(ctx, repository.Filter{
		ListQuery:       query.ListQuery,
		ComponentTypeID: query.ComponentTypeID,
		Status:          query.Status,
	})
}

func (s *componentService) Get(ctx context.Context, id uint) (*entity.Component, error) {
	component, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, errComponentNotFound
	}
	return component, nil
}

func (s *componentService) Create(ctx context.Context, req dto.CreateComponentRequest, userID *uint) (*entity.Component, error) {
	specs, err := entity.NormalizeSpecifications(req.Specifications)
	if err != nil {
		return nil, apperror.BadRequest("Specifications must be a JSON object")
	}
	status := entity.StatusActive
	if req.Status != "" {
		status = entity.DeviceStatus(req.Status)
	}

	component := &entity.Component{
		Name:            strings.TrimSpace(req.Name),
		SerialNumber:    req.SerialNumber,
		ComponentTypeID: req.ComponentTypeID,
		Manufacturer:    req.Manufacturer,
		Model:           req.Model,
		Specifications:  specs,
		PurchaseDate:    req.PurchaseDate,
		WarrantyDate:    req.WarrantyDate,
		Status:          status,
		CreatedBy:       userID,
	}

	created, err := s.repo.Create(ctx, component)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return created, nil
}

func (s *componentService) Update(ctx context.Context, id uint, req dto.UpdateComponentRequest, userID *uint) (*entity.Component, error) {
	fields := req.Fields()
	if _, ok := fields["specifications"]; ok {
		specs, err := entity.NormalizeSpecifications(req.Specifications)
		if err != nil {
			return nil, apperror.BadRequest("Specifications must be a JSON object")
		}
		fields["specifications"] = specs
	}
	if userID != nil {
		fields["updated_by"] = *userID
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, mapWriteError(err)
	}
	if updated == nil {
		return nil, errComponentNotFound
	}
	return updated, nil
}

func (s *componentService) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errComponentNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case database.IsDuplicate(err):
		return apperror.New(http.StatusConflict, "Serial number already exists", apperror.ErrConflict)
	case database.IsForeignKeyViolation(err):
		return apperror.BadRequest("Component type not found")
	default:
		return err
	}
}
