package entity

import (
	"fmt"
	"time"
)

// EntityType tags the owner of a polymorphic reference such as a photo.
type EntityType string

const (
	EntityDevice    EntityType = "device"
	EntityComponent EntityType = "component"
)

// ParseEntityType accepts only the known owner tags.
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntityDevice, EntityComponent:
		return EntityType(s), nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// Table is the relational table holding rows of this entity type.
func (t EntityType) Table() string {
	switch t {
	case EntityDevice:
		return "devices"
	case EntityComponent:
		return "components"
	default:
		return ""
	}
}

// EntityRef points at a single device or component.
type EntityRef struct {
	Type EntityType
	ID   uint
}

func DeviceRef(id uint) EntityRef    { return EntityRef{Type: EntityDevice, ID: id} }
func ComponentRef(id uint) EntityRef { return EntityRef{Type: EntityComponent, ID: id} }

func NewEntityRef(entityType string, id uint) (EntityRef, error) {
	t, err := ParseEntityType(entityType)
	if err != nil {
		return EntityRef{}, err
	}
	return EntityRef{Type: t, ID: id}, nil
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

type Photo struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EntityType EntityType `gorm:"size:20;not null" json:"entity_type"`
	EntityID   uint       `gorm:"not null" json:"entity_id"`
	FilePath   string     `gorm:"not null" json:"file_path"`
	FileName   string     `gorm:"not null" json:"file_name"`
	FileSize   int64      `json:"file_size"`
	MimeType   string     `json:"mime_type"`
	IsPrimary  bool       `gorm:"not null" json:"is_primary"`
	UploadedAt time.Time  `gorm:"autoCreateTime" json:"uploaded_at"`
	UploadedBy *uint      `json:"uploaded_by"`
	URL        string     `gorm:"-" json:"url"`
}

// PublicPrefix is the URL path under which stored files are served.
const PublicPrefix = "/uploads/"

func (p *Photo) Ref() EntityRef {
	return EntityRef{Type: p.EntityType, ID: p.EntityID}
}
