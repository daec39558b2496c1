package repository

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/mediannsp/internal/entity"
	componentRepo "anoa.com/mediannsp/internal/modules/component/repository"
	"anoa.com/mediannsp/pkg/apperror"
	"anoa.com/mediannsp/pkg/database"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"gorm.io/gorm"
)

var ErrComponentAlreadyAttached = apperror.New(http.StatusBadRequest, "Component is already added to this device", apperror.ErrBadRequest)

// Filter narrows a device list. Zero values are ignored.
type Filter struct {
	commonDto.ListQuery
	DeviceTypeID uint
	Status       string
	Location     string
}

type DeviceRepository interface {
	List(ctx context.Context, filter Filter) (*commonDto.Page[entity.Device], error)
	// FindByID loads the device with its active components.
	FindByID(ctx context.Context, id uint) (*entity.DeviceDetail, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, device *entity.Device) (*entity.DeviceDetail, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*entity.DeviceDetail, error)
	Delete(ctx context.Context, id uint) (int64, error)

	ListComponents(ctx context.Context, deviceID uint) ([]entity.Component, error)
	AddComponent(ctx context.Context, deviceID, componentID uint, installedBy *uint) (*entity.DeviceComponent, error)
	// RemoveComponent deactivates the active link and reports rows changed.
	RemoveComponent(ctx context.Context, deviceID, componentID uint) (int64, error)
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

const labelColumns = "devices.*, device_types.name AS device_type_name, " +
	"creators.username AS created_by_username, updaters.username AS updated_by_username, " +
	"contracts.contract_number AS contract_number"

func withLabels(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.Device{}).
		Joins("LEFT JOIN device_types ON device_types.id = devices.device_type_id").
		Joins("LEFT JOIN users AS creators ON creators.id = devices.created_by").
		Joins("LEFT JOIN users AS updaters ON updaters.id = devices.updated_by").
		Joins("LEFT JOIN contracts ON contracts.id = devices.contract_id")
}

func filtered(f Filter) database.Scope {
	return func(db *gorm.DB) *gorm.DB {
		db = database.MatchAny(f.Search,
			"devices.name", "devices.serial_number", "devices.manufacturer", "devices.model")(db)
		if f.DeviceTypeID != 0 {
			db = db.Where("devices.device_type_id = ?", f.DeviceTypeID)
		}
		if f.Status != "" {
			db = db.Where("devices.status = ?", f.Status)
		}
		return database.MatchAny(f.Location, "devices.location")(db)
	}
}

func (r *deviceRepository) List(ctx context.Context, f Filter) (*commonDto.Page[entity.Device], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Device{}).Scopes(filtered(f)).Count(&total).Error; err != nil {
		return nil, err
	}

	var devices []entity.Device
	if err := r.db.WithContext(ctx).
		Scopes(withLabels, filtered(f), database.Paginate(f.Page, f.Limit)).
		Select(labelColumns).
		Order("devices.created_at DESC").Order("devices.id DESC").
		Find(&devices).Error; err != nil {
		return nil, err
	}

	return commonDto.NewPage(devices, total, f.Page, f.Limit), nil
}

func findOne(db *gorm.DB, id uint) (*entity.DeviceDetail, error) {
	var device entity.Device
	err := db.Scopes(withLabels).Select(labelColumns).Where("devices.id = ?", id).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	components, err := listComponents(db, id)
	if err != nil {
		return nil, err
	}
	return &entity.DeviceDetail{Device: device, Components: components}, nil
}

func listComponents(db *gorm.DB, deviceID uint) ([]entity.Component, error) {
	components := []entity.Component{}
	err := db.Scopes(componentRepo.WithLabels).
		Select(componentRepo.LabelColumns).
		Joins("JOIN device_components ON device_components.component_id = components.id").
		Where("device_components.device_id = ? AND device_components.is_active = ?", deviceID, true).
		Order("device_components.installed_at ASC").Order("device_components.id ASC").
		Find(&components).Error
	if err != nil {
		return nil, err
	}
	return components, nil
}

func (r *deviceRepository) FindByID(ctx context.Context, id uint) (*entity.DeviceDetail, error) {
	return findOne(r.db.WithContext(ctx), id)
}

func (r *deviceRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Device{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *deviceRepository) Create(ctx context.Context, device *entity.Device) (*entity.DeviceDetail, error) {
	if err := r.db.WithContext(ctx).Create(device).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, device.ID)
}

func (r *deviceRepository) Update(ctx context.Context, id uint, fields map[string]any) (*entity.DeviceDetail, error) {
	fields["updated_at"] = time.Now()

	var updated *entity.DeviceDetail
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Device{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}

		var err error
		updated, err = findOne(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *deviceRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Device{})
	return result.RowsAffected, result.Error
}

func (r *deviceRepository) ListComponents(ctx context.Context, deviceID uint) ([]entity.Component, error) {
	return listComponents(r.db.WithContext(ctx), deviceID)
}

func (r *deviceRepository) AddComponent(ctx context.Context, deviceID, componentID uint, installedBy *uint) (*entity.DeviceComponent, error) {
	link := &entity.DeviceComponent{
		DeviceID:    deviceID,
		ComponentID: componentID,
		InstalledBy: installedBy,
		IsActive:    true,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&entity.DeviceComponent{}).
			Where("device_id = ? AND component_id = ? AND is_active = ?", deviceID, componentID, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrComponentAlreadyAttached
		}
		return tx.Create(link).Error
	})
	if database.IsDuplicate(err) {
		return nil, ErrComponentAlreadyAttached
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *deviceRepository) RemoveComponent(ctx context.Context, deviceID, componentID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.DeviceComponent{}).
		Where("device_id = ? AND component_id = ? AND is_active = ?", deviceID, componentID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
