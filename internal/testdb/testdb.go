// Package testdb provides migrated SQLite databases and fixtures for tests.
package testdb

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"anoa.com/mediannsp/internal/config"
	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/pkg/database"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New returns a fresh database file with every migration applied.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DBConfig{
		Driver:   config.DriverSQLite,
		Filename: filepath.Join(t.TempDir(), "test.sqlite"),
	}
	if err := database.Migrate(cfg, Logger()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	db, err := database.Open(cfg, Logger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// RoleID looks up a seeded role.
func RoleID(t testing.TB, db *gorm.DB, name string) uint {
	t.Helper()
	var role entity.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		t.Fatalf("find role %s: %v", name, err)
	}
	return role.ID
}

// CreateUser inserts a user whose password equals its username.
func CreateUser(t testing.TB, db *gorm.DB, username, role string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(username), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		RoleID:       RoleID(t, db, role),
		RoleName:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func CreateContract(t testing.TB, db *gorm.DB, number string, userID uint) *entity.Contract {
	t.Helper()
	contract := &entity.Contract{
		ContractNumber: number,
		ContractDate:   entity.NewDate(2024, time.January, 1),
		UserID:         userID,
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("create contract %s: %v", number, err)
	}
	return contract
}

func CreateDevice(t testing.TB, db *gorm.DB, name string, contractID uint) *entity.Device {
	t.Helper()
	device := &entity.Device{
		Name:           name,
		DeviceTypeID:   1,
		Specifications: entity.EmptySpecifications,
		Status:         entity.StatusActive,
		ContractID:     &contractID,
	}
	if err := db.Create(device).Error; err != nil {
		t.Fatalf("create device %s: %v", name, err)
	}
	return device
}

func CreateComponent(t testing.TB, db *gorm.DB, name string) *entity.Component {
	t.Helper()
	component := &entity.Component{
		Name:            name,
		ComponentTypeID: 1,
		Specifications:  entity.EmptySpecifications,
		Status:          entity.StatusActive,
	}
	if err := db.Create(component).Error; err != nil {
		t.Fatalf("create component %s: %v", name, err)
	}
	return component
}
