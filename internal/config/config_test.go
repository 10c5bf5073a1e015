package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Directory.DefaultPageSize != 12 {
		t.Errorf("Expected default page size 12, got %d", cfg.Directory.DefaultPageSize)
	}
	if cfg.Directory.MaxPageSize != 100 {
		t.Errorf("Expected max page size 100, got %d", cfg.Directory.MaxPageSize)
	}
	if cfg.Directory.AccurateRatingSort {
		t.Error("Expected accurate rating sort disabled by default")
	}
	if cfg.Retention.ActionLogDays != 365 {
		t.Errorf("Expected 365 day action log retention, got %d", cfg.Retention.ActionLogDays)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "directory_test")
	t.Setenv("DIRECTORY_ACCURATE_RATING_SORT", "true")
	t.Setenv("RETENTION_CLEANUP_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.DBName != "directory_test" {
		t.Errorf("Expected database directory_test, got %s", cfg.Database.DBName)
	}
	if !cfg.Directory.AccurateRatingSort {
		t.Error("Expected accurate rating sort enabled")
	}
	if cfg.Retention.CleanupEnabled {
		t.Error("Expected cleanup disabled")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "directory")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "directory_db")
	t.Setenv("DB_SSLMODE", "require")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := "host=db.internal port=5433 user=directory password=secret dbname=directory_db sslmode=require"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Errorf("Expected DSN %q, got %q", want, got)
	}
}

func TestIsProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	cfg, _ := Load()
	if !cfg.IsProduction() {
		t.Error("Expected IsProduction for APP_ENV=production")
	}

	t.Setenv("APP_ENV", "development")
	cfg, _ = Load()
	if cfg.IsProduction() {
		t.Error("Expected not IsProduction for APP_ENV=development")
	}
	if !cfg.IsDevelopment() {
		t.Error("Expected IsDevelopment for APP_ENV=development")
	}
}
