package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DeviceStatus is the lifecycle state shared by devices and components.
type DeviceStatus string

const (
	StatusActive   DeviceStatus = "active"
	StatusInactive DeviceStatus = "inactive"
	StatusInRepair DeviceStatus = "in_repair"
	StatusDisposed DeviceStatus = "disposed"
)

func ParseDeviceStatus(s string) (DeviceStatus, error) {
	switch DeviceStatus(s) {
	case StatusActive, StatusInactive, StatusInRepair, StatusDisposed:
		return DeviceStatus(s), nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// CatalogItem is the shape shared by reference data such as device and component types.
type CatalogItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}

type DeviceType CatalogItem

type ComponentType CatalogItem

type Contract struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ContractNumber string    `gorm:"size:100;not null" json:"contract_number"`
	ContractDate   Date      `gorm:"type:date;not null" json:"contract_date"`
	UserID         uint      `gorm:"not null" json:"user_id"`
	UserName       *string   `gorm:"->" json:"user_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Device struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"size:25;not null" json:"name"`
	SerialNumber      *string        `gorm:"size:255;uniqueIndex" json:"serial_number"`
	DeviceTypeID      uint           `gorm:"not null" json:"device_type_id"`
	DeviceTypeName    *string        `gorm:"->" json:"device_type_name"`
	Manufacturer      *string        `json:"manufacturer"`
	Model             *string        `json:"model"`
	Specifications    datatypes.JSON `gorm:"not null" json:"specifications"`
	Location          *string        `gorm:"size:25" json:"location"`
	PurchaseDate      *Date          `gorm:"type:date" json:"purchase_date"`
	WarrantyDate      *Date          `gorm:"type:date" json:"warranty_date"`
	Status            DeviceStatus   `gorm:"size:20;not null" json:"status"`
	ContractID        *uint          `json:"contract_id"`
	ContractNumber    *string        `gorm:"->" json:"contract_number"`
	CreatedBy         *uint          `json:"created_by"`
	CreatedByUsername *string        `gorm:"->" json:"created_by_username"`
	UpdatedBy         *uint          `json:"updated_by"`
	UpdatedByUsername *string        `gorm:"->" json:"updated_by_username"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// DeviceDetail is a device together with its actively installed components.
type DeviceDetail struct {
	Device
	Components []Component `json:"components"`
}

type Component struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	SerialNumber      *string        `gorm:"size:255;uniqueIndex" json:"serial_number"`
	ComponentTypeID   uint           `gorm:"not null" json:"component_type_id"`
	ComponentTypeName *string        `gorm:"->" json:"component_type_name"`
	Manufacturer      *string        `json:"manufacturer"`
	Model             *string        `json:"model"`
	Specifications    datatypes.JSON `gorm:"not null" json:"specifications"`
	PurchaseDate      *Date          `gorm:"type:date" json:"purchase_date"`
	WarrantyDate      *Date          `gorm:"type:date" json:"warranty_date"`
	Status            DeviceStatus   `gorm:"size:20;not null" json:"status"`
	CreatedBy         *uint          `json:"created_by"`
	CreatedByUsername *string        `gorm:"->" json:"created_by_username"`
	UpdatedBy         *uint          `json:"updated_by"`
	UpdatedByUsername *string        `gorm:"->" json:"updated_by_username"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// DeviceComponent links a component to a device. Removal deactivates the row.
type DeviceComponent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DeviceID    uint      `gorm:"not null" json:"device_id"`
	ComponentID uint      `gorm:"not null" json:"component_id"`
	InstalledAt time.Time `gorm:"autoCreateTime" json:"installed_at"`
	InstalledBy *uint     `json:"installed_by"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
}

// EmptySpecifications is stored when a record is created without specifications.
var EmptySpecifications = datatypes.JSON(`{}`)

var ErrSpecificationsNotObject = errors.New("specifications must be a JSON object")

// NormalizeSpecifications maps an absent or null document to EmptySpecifications
// and rejects anything that is not a JSON object.
func NormalizeSpecifications(raw datatypes.JSON) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return EmptySpecifications, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, ErrSpecificationsNotObject
	}
	return datatypes.JSON(trimmed), nil
}
