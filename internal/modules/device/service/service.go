package device

import (
	"context"
	"net/http"
	"strings"

	"anoa.com/mediannsp/internal/entity"
	componentRepo "anoa.com/mediannsp/internal/modules/component/repository"
	contractRepo "anoa.com/mediannsp/internal/modules/contract/repository"
	"anoa.com/mediannsp/internal/modules/device/dto"
	"anoa.com/mediannsp/internal/modules/device/repository"
	"anoa.com/mediannsp/pkg/apperror"
	"anoa.com/mediannsp/pkg/database"
	commonDto "anoa.com/mediannsp/pkg/dto"
)

var (
	errDeviceNotFound    = apperror.NotFound("Device not found")
	errComponentNotFound = apperror.NotFound("Component not found")
	errLinkNotFound      = apperror.NotFound("Component not found in device or already removed")
	errContractRequired  = apperror.BadRequest("Contract ID is required when creating a device")
	errContractNotFound  = apperror.BadRequest("Contract not found")
)

type DeviceService interface {
	List(ctx context.Context, query dto.ListDevicesQuery) (*commonDto.Page[entity.Device], error)
	Get(ctx context.Context, id uint) (*entity.DeviceDetail, error)
	Create(ctx context.Context, req dto.CreateDeviceRequest, userID *uint) (*entity.DeviceDetail, error)
	Update(ctx context.Context, id uint, req dto.UpdateDeviceRequest, userID *uint) (*entity.DeviceDetail, error)
	Delete(ctx context.Context, id uint) error

	ListComponents(ctx context.Context, deviceID uint) ([]entity.Component, error)
	AddComponent(ctx context.Context, deviceID, componentID uint, userID *uint) (*entity.DeviceComponent, error)
	RemoveComponent(ctx context.Context, deviceID, componentID uint) error
}

type deviceService struct {
	repo       repository.DeviceRepository
	components componentRepo.ComponentRepository
	contracts  contractRepo.ContractRepository
}

func NewDeviceService(repo repository.DeviceRepository, components componentRepo.ComponentRepository, contracts contractRepo.ContractRepository) DeviceService {
	return &deviceService{repo: repo, components: components, contracts: contracts}
}

func (s *deviceService) List(ctx context.Context, query dto.ListDevicesQuery) (*commonDto.Page[entity.Device], error) {
	query.Normalize()
	return s.repo.List(ctx, repository.Filter{
		ListQuery:    query.ListQuery,
		DeviceTypeID: query.DeviceTypeID,
		Status:       query.Status,
		Location:     query.Location,
	})
}

func (s *deviceService) Get(ctx context.Context, id uint) (*entity.DeviceDetail, error) {
	device, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, errDeviceNotFound
	}
	return device, nil
}

func (s *deviceService) checkContract(ctx context.Context, id uint) error {
	contract, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if contract == nil {
		return errContractNotFound
	}
	return nil
}

func (s *deviceService) Create(ctx context.Context, req dto.CreateDeviceRequest, userID *uint) (*entity.DeviceDetail, error) {
	if req.ContractID == nil {
		return nil, errContractRequired
	}
	if err := s.checkContract(ctx, *req.ContractID); err != nil {
		return nil, err
	}

	specs, err := entity.NormalizeSpecifications(req.Specifications)
	if err != nil {
		return nil, apperror.BadRequest("Specifications must be a JSON object")
	}
	status := entity.StatusActive
	if req.Status != "" {
		status = entity.DeviceStatus(req.Status)
	}

	device := &entity.Device{
		Name:           strings.TrimSpace(req.Name),
		SerialNumber:   req.SerialNumber,
		DeviceTypeID:   req.DeviceTypeID,
		Manufacturer:   req.Manufacturer,
		Model:          req.Model,
		Specifications: specs,
		Location:       req.Location,
		PurchaseDate:   req.PurchaseDate,
		WarrantyDate:   req.WarrantyDate,
		Status:         status,
		ContractID:     req.ContractID,
		CreatedBy:      userID,
	}

	created, err := s.repo.Create(ctx, device)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return created, nil
}

func (s *deviceService) Update(ctx context.Context, id uint, req dto.UpdateDeviceRequest, userID *uint) (*entity.DeviceDetail, error) {
	if err := s.requireDevice(ctx, id); err != nil {
		return nil, err
	}

	fields := req.Fields()
	if _, ok := fields["specifications"]; ok {
		specs, err := entity.NormalizeSpecifications(req.Specifications)
		if err != nil {
			return nil, apperror.BadRequest("Specifications must be a JSON object")
		}
		fields["specifications"] = specs
	}
	if req.ContractID != nil {
		if err := s.checkContract(ctx, *req.ContractID); err != nil {
			return nil, err
		}
	}
	if userID != nil {
		fields["updated_by"] = *userID
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, mapWriteError(err)
	}
	if updated == nil {
		return nil, errDeviceNotFound
	}
	return updated, nil
}

func (s *deviceService) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errDeviceNotFound
	}
	return nil
}

func (s *deviceService) requireDevice(ctx context.Context, id uint) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errDeviceNotFound
	}
	return nil
}

func (s *deviceService) ListComponents(ctx context.Context, deviceID uint) ([]entity.Component, error) {
	if err := s.requireDevice(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.repo.ListComponents(ctx, deviceID)
}

func (s *deviceService) AddComponent(ctx context.Context, deviceID, componentID uint, userID *uint) (*entity.DeviceComponent, error) {
	if err := s.requireDevice(ctx, deviceID); err != nil {
		return nil, err
	}
	component, err := s.components.FindByID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, errComponentNotFound
	}

	return s.repo.AddComponent(ctx, deviceID, componentID, userID)
}

func (s *deviceService) RemoveComponent(ctx context.Context, deviceID, componentID uint) error {
	if err := s.requireDevice(ctx, deviceID); err != nil {
		return err
	}

	affected, err := s.repo.RemoveComponent(ctx, deviceID, componentID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errLinkNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case database.IsDuplicate(err):
		return apperror.New(http.StatusConflict, "Serial number already exists", apperror.ErrConflict)
	case database.IsForeignKeyViolation(err):
		return apperror.BadRequest("Device type not found")
	default:
		return err
	}
}
