package database

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"anoa.com/mediannsp/internal/config"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sqliteConfig(t *testing.T) config.DBConfig {
	t.Helper()
	return config.DBConfig{
		Driver:   config.DriverSQLite,
		Filename: filepath.Join(t.TempDir(), "migrate.sqlite"),
	}
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestMigrateSQLiteSeedsReferenceData(t *testing.T) {
	cfg := sqliteConfig(t)
	log := discardLogger()

	if err := Migrate(cfg, log); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// Second run is a no-op.
	if err := Migrate(cfg, log); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}

	version, dirty, err := Version(cfg)
	if err != nil || dirty || version != 2 {
		t.Fatalf("Version = %d dirty=%v err=%v, want 2 clean", version, dirty, err)
	}

	db, err := Open(cfg, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer Close(db)

	if n := countRows(t, db, "roles"); n != 3 {
		t.Errorf("roles = %d, want 3", n)
	}
	if n := countRows(t, db, "device_types"); n != 12 {
		t.Errorf("device_types = %d, want 12", n)
	}
	if n := countRows(t, db, "component_types"); n != 7 {
		t.Errorf("component_types = %d, want 7", n)
	}
}

func TestMigrateStepsDownAndUp(t *testing.T) {
	cfg := sqliteConfig(t)
	log := discardLogger()

	if err := Migrate(cfg, log); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := MigrateSteps(cfg, -1, log); err != nil {
		t.Fatalf("MigrateSteps(-1): %v", err)
	}
	if v, _, _ := Version(cfg); v != 1 {
		t.Fatalf("version after one step down = %d, want 1", v)
	}
	if err := MigrateDown(cfg, log); err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}
	if v, _, _ := Version(cfg); v != 0 {
		t.Fatalf("version after full rollback = %d, want 0", v)
	}
	if err := MigrateSteps(cfg, 2, log); err != nil {
		t.Fatalf("MigrateSteps(2): %v", err)
	}
	if err := MigrateSteps(cfg, 0, log); err == nil {
		t.Fatal("zero steps should be rejected")
	}
}

func TestPartialUniqueIndexes(t *testing.T) {
	cfg := sqliteConfig(t)
	log := discardLogger()
	if err := Migrate(cfg, log); err != nil {
		t.Fatal(err)
	}
	db, err := Open(cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	defer Close(db)

	mustExec := func(sql string, args ...any) {
		t.Helper()
		if err := db.Exec(sql, args...).Error; err != nil {
			t.Fatalf("%s: %v", sql, err)
		}
	}

	mustExec(`INSERT INTO devices (name, device_type_id) VALUES ('srv', 1)`)
	mustExec(`INSERT INTO components (name, component_type_id) VALUES ('cpu', 1)`)

	mustExec(`INSERT INTO device_components (device_id, component_id, is_active) VALUES (1, 1, 1)`)
	err = db.Exec(`INSERT INTO device_components (device_id, component_id, is_active) VALUES (1, 1, 1)`).Error
	if !IsDuplicate(err) {
		t.Fatalf("second active link: got %v, want duplicate key", err)
	}
	mustExec(`UPDATE device_components SET is_active = 0`)
	mustExec(`INSERT INTO device_components (device_id, component_id, is_active) VALUES (1, 1, 1)`)

	mustExec(`INSERT INTO photos (entity_type, entity_id, file_path, file_name, is_primary) VALUES ('device', 1, 'a', 'a', 1)`)
	err = db.Exec(`INSERT INTO photos (entity_type, entity_id, file_path, file_name, is_primary) VALUES ('device', 1, 'b', 'b', 1)`).Error
	if !IsDuplicate(err) {
		t.Fatalf("second primary photo: got %v, want duplicate key", err)
	}

	err = db.Exec(`INSERT INTO devices (name, device_type_id) VALUES ('bad', 999)`).Error
	if !IsForeignKeyViolation(err) {
		t.Fatalf("unknown device type: got %v, want foreign key violation", err)
	}
}

func TestMigrationURL(t *testing.T) {
	u, err := migrationURL(config.DBConfig{
		Driver: config.DriverPostgres, Host: "db", Port: "5432",
		User: "app", Password: "p@ss/word", Name: "inventory", SSLMode: "disable",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "pgx5://app:p%40ss%2Fword@db:5432/inventory?sslmode=disable"
	if u != want {
		t.Fatalf("migrationURL = %q, want %q", u, want)
	}

	if _, err := migrationURL(config.DBConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
