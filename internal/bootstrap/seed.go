package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"anoa.com/mediannsp/internal/config"
	"anoa.com/mediannsp/internal/entity"
	userRepo "anoa.com/mediannsp/internal/modules/user/repository"
	"gorm.io/gorm"
)

var defaultRoles = []entity.Role{
	{Name: entity.RoleAdmin, Description: stringPtr("Full access including user and role management")},
	{Name: entity.RoleWriter, Description: stringPtr("Can create and edit inventory records")},
	{Name: entity.RoleReader, Description: stringPtr("Read-only access")},
}

// SeedRoles makes sure the built-in roles exist. Existing rows are left untouched.
func SeedRoles(ctx context.Context, db *gorm.DB) error {
	for _, role := range defaultRoles {
		var count int64
		if err := db.WithContext(ctx).Model(&entity.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.WithContext(ctx).Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates the first administrator from configuration. It does
// nothing when an admin already exists or no credentials are configured.
func SeedAdminUser(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	users := userRepo.NewUserRepository(db)

	admins, err := users.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if admins > 0 {
		logger.DebugContext(ctx, "admin user already exists, skipping seed")
		return nil
	}

	if !cfg.HasAdminBootstrap() {
		logger.WarnContext(ctx, "no admin user exists and ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD are not all set")
		return nil
	}

	var adminRole entity.Role
	if err := db.WithContext(ctx).Where("name = ?", entity.RoleAdmin).First(&adminRole).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("admin role is missing; seed roles first")
		}
		return err
	}

	admin, err := users.Create(ctx, &entity.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		RoleID:   adminRole.ID,
	}, cfg.AdminPassword)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "admin user seeded",
		slog.Uint64("user_id", uint64(admin.ID)),
		slog.String("username", admin.Username),
	)
	return nil
}

func stringPtr(s string) *string {
	return &s
}
