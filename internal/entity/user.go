package entity

import "time"

type Role CatalogItem

const (
	RoleAdmin  = "admin"
	RoleWriter = "writer"
	RoleReader = "reader"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	RoleID       uint      `gorm:"not null" json:"role_id"`
	RoleName     string    `gorm:"->" json:"role_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Can reports whether the user's role grants perm.
func (u *User) Can(perm Permission) bool {
	return RoleHas(u.RoleName, perm)
}
