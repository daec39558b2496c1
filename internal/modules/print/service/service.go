package printing

import (
	"context"
	"time"

	"anoa.com/mediannsp/internal/entity"
	componentRepo "anoa.com/mediannsp/internal/modules/component/repository"
	deviceRepo "anoa.com/mediannsp/internal/modules/device/repository"
	"anoa.com/mediannsp/internal/modules/print/dto"
	"anoa.com/mediannsp/pkg/apperror"
)

var (
	ErrBatchRequest = apperror.BadRequest("Entity type and a non-empty array of IDs are required")
	errEntityType   = apperror.BadRequest(`Entity type must be "device" or "component"`)
)

type PrintService interface {
	Device(ctx context.Context, id uint, printedBy string) (*dto.DeviceDocument, error)
	Component(ctx context.Context, id uint, printedBy string) (*dto.ComponentDocument, error)
	// Batch collects the records of ids in order, skipping ids that do not exist.
	Batch(ctx context.Context, req dto.BatchRequest, printedBy string) (*dto.BatchDocument, error)
}

type printService struct {
	devices    deviceRepo.DeviceRepository
	components componentRepo.ComponentRepository
	now        func() time.Time
}

func NewPrintService(devices deviceRepo.DeviceRepository, components componentRepo.ComponentRepository) PrintService {
	return &printService{devices: devices, components: components, now: time.Now}
}

func (s *printService) findDevice(ctx context.Context, id uint) (*entity.DeviceDetail, error) {
	device, err := s.devices.FindByID(ctx, id)
	if err != nil || device == nil {
		return nil, err
	}
	if device.Components == nil {
		device.Components = []entity.Component{}
	}
	return device, nil
}

func (s *printService) Device(ctx context.Context, id uint, printedBy string) (*dto.DeviceDocument, error) {
	device, err := s.findDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, apperror.NotFound("Device not found")
	}
	return &dto.DeviceDocument{
		Type:         string(entity.EntityDevice),
		DeviceDetail: device,
		PrintDate:    s.now().UTC(),
		PrintedBy:    printedBy,
	}, nil
}

func (s *printService) Component(ctx context.Context, id uint, printedBy string) (*dto.ComponentDocument, error) {
	component, err := s.components.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, apperror.NotFound("Component not found")
	}
	return &dto.ComponentDocument{
		Type:      string(entity.EntityComponent),
		Component: component,
		PrintDate: s.now().UTC(),
		PrintedBy: printedBy,
	}, nil
}

func (s *printService) Batch(ctx context.Context, req dto.BatchRequest, printedBy string) (*dto.BatchDocument, error) {
	if req.EntityType == "" || len(req.IDs) == 0 {
		return nil, ErrBatchRequest
	}
	entityType, err := entity.ParseEntityType(req.EntityType)
	if err != nil {
		return nil, errEntityType
	}

	var entities any
	switch entityType {
	case entity.EntityDevice:
		devices := []*entity.DeviceDetail{}
		for _, id := range req.IDs {
			device, err := s.findDevice(ctx, id)
			if err != nil {
				return nil, err
			}
			if device != nil {
				devices = append(devices, device)
			}
		}
		entities = devices
	case entity.EntityComponent:
		components := []*entity.Component{}
		for _, id := range req.IDs {
			component, err := s.components.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if component != nil {
				components = append(components, component)
			}
		}
		entities = components
	}

	return &dto.BatchDocument{
		Type:       "batch",
		EntityType: string(entityType),
		Entities:   entities,
		PrintDate:  s.now().UTC(),
		PrintedBy:  printedBy,
	}, nil
}
