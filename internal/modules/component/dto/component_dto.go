package dto

import (
	"anoa.com/mediannsp/internal/entity"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"gorm.io/datatypes"
)

type ListComponentsQuery struct {
	commonDto.ListQuery
	ComponentTypeID uint   `form:"component_type_id" binding:"omitempty,gt=0"`
	Status          string `form:"status" binding:"omitempty,oneof=active inactive in_repair disposed"`
}

type CreateComponentRequest struct {
	Name            string         `json:"name" binding:"required,max=255"`
	SerialNumber    *string        `json:"serial_number" binding:"omitempty,max=255"`
	ComponentTypeID uint           `json:"component_type_id" binding:"required,gt=0"`
	Manufacturer    *string        `json:"manufacturer" binding:"omitempty,max=255"`
	Model           *string        `json:"model" binding:"omitempty,max=255"`
	Specifications  datatypes.JSON `json:"specifications"`
	PurchaseDate    *entity.Date   `json:"purchase_date"`
	WarrantyDate    *entity.Date   `json:"warranty_date"`
	Status          string         `json:"status" binding:"omitempty,oneof=active inactive in_repair disposed"`
}

type UpdateComponentRequest struct {
	Name            *string        `json:"name" binding:"omitempty,min=1,max=255"`
	SerialNumber    *string        `json:"serial_number" binding:"omitempty,max=255"`
	ComponentTypeID *uint          `json:"component_type_id" binding:"omitempty,gt=0"`
	Manufacturer    *string        `json:"manufacturer" binding:"omitempty,max=255"`
	Model           *string        `json:"model" binding:"omitempty,max=255"`
	Specifications  datatypes.JSON `json:"specifications"`
	PurchaseDate    *entity.Date   `json:"purchase_date"`
	WarrantyDate    *entity.Date   `json:"warranty_date"`
	Status          *string        `json:"status" binding:"omitempty,oneof=active inactive in_repair disposed"`
}

// Fields returns the columns present in the request. Specifications are
// validated by the caller.
func (r UpdateComponentRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.SerialNumber != nil {
		fields["serial_number"] = *r.SerialNumber
	}
	if r.ComponentTypeID != nil {
		fields["component_type_id"] = *r.ComponentTypeID
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
	if r.PurchaseDate != nil {
		fields["purchase_date"] = *r.PurchaseDate
	}
	if r.WarrantyDate != nil {
		fields["warranty_date"] = *r.WarrantyDate
	}
	if r.Status != nil {
		fields["status"] = *r.Status
	}
	return fields
}
