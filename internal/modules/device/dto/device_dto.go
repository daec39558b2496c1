package dto

import (
	"anoa.com/mediannsp/internal/entity"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"gorm.io/datatypes"
)

type ListDevicesQuery struct {
	commonDto.ListQuery
	DeviceTypeID uint   `form:"device_type_id" binding:"omitempty,gt=0"`
	Status       string `form:"status" binding:"omitempty,oneof=active inactive in_repair disposed"`
	Location     string `form:"location"`
}

type CreateDeviceRequest struct {
	Name           string         `json:"name" binding:"required,max=25"`
	SerialNumber   *string        `json:"serial_number" binding:"omitempty,max=255"`
	DeviceTypeID   uint           `json:"device_type_id" binding:"required,gt=0"`
	Manufacturer   *string        `json:"manufacturer" binding:"omitempty,max=255"`
	Model          *string        `json:"model" binding:"omitempty,max=255"`
	Specifications datatypes.JSON `json:"specifications"`
	Location       *string        `json:"location" binding:"omitempty,max=25"`
	PurchaseDate   *entity.Date   `json:"purchase_date"`
	WarrantyDate   *entity.Date   `json:"warranty_date"`
	Status         string         `json:"status" binding:"omitempty,oneof=active inactive in_repair disposed"`
	ContractID     *uint          `json:"contract_id" binding:"omitempty,gt=0"`
}

type UpdateDeviceRequest struct {
	Name           *string        `json:"name" binding:"omitempty,min=1,max=25"`
	SerialNumber   *string        `json:"serial_number" binding:"omitempty,max=255"`
	DeviceTypeID   *uint          `json:"device_type_id" binding:"omitempty,gt=0"`
	Manufacturer   *string        `json:"manufacturer" binding:"omitempty,max=255"`
	Model          *string        `json:"model" binding:"omitempty,max=255"`
	Specifications datatypes.JSON `json:"specifications"`
	Location       *string        `json:"location" binding:"omitempty,max=25"`
	PurchaseDate   *entity.Date   `json:"purchase_date"`
	WarrantyDate   *entity.Date   `json:"warranty_date"`
	Status         *string        `json:"status" binding:"omitempty,oneof=active inactive in_repair disposed"`
	ContractID     *uint          `json:"contract_id" binding:"omitempty,gt=0"`
}

// Fields returns the columns present in the request.
func (r UpdateDeviceRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.SerialNumber != nil {
		fields["serial_number"] = *r.SerialNumber
	}
	if r.DeviceTypeID != nil {
		fields["device_type_id"] = *r.DeviceTypeID
	}
	if r.Manufacturer != nil {
		fields["manufacturer"] = *r.Manufacturer
	}
	if r.Model != nil {
		fields["model"] = *r.Model
	}
	if len(r.Specifications) > 0 {
		fields["specifications"] = r.Specifications
	}
	if r.Location != nil {
		fields["location"] = *r.Location
	}
	if r.PurchaseDate != nil {
		fields["purchase_date"] = *r.PurchaseDate
	}
	if r.WarrantyDate != nil {
		fields["warranty_date"] = *r.WarrantyDate
	}
	if r.Status != nil {
		fields["status"] = *r.Status
	}
	if r.ContractID != nil {
		fields["contract_id"] = *r.ContractID
	}
	return fields
}

type AddComponentRequest struct {
	ComponentID uint `json:"component_id" binding:"required,gt=0"`
}

type DeviceComponentURI struct {
	ID          uint `uri:"id" binding:"required,gt=0"`
	ComponentID uint `uri:"componentId" binding:"required,gt=0"`
}
