package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.DBName != "choirdinated" {
		t.Errorf("Database.DBName = %q, want %q", cfg.Database.DBName, "choirdinated")
	}
	if cfg.JWT.AccessTokenExpiration != "1h" {
		t.Errorf("JWT.AccessTokenExpiration = %q, want %q", cfg.JWT.AccessTokenExpiration, "1h")
	}
	if cfg.Registry.Timeout != "10s" {
		t.Errorf("Registry.Timeout = %q, want %q", cfg.Registry.Timeout, "10s")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() expected error for missing JWT secret")
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: "9090"
database:
  dbname: fromfile
jwt:
  secret: file-secret
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("DB_NAME", "fromenv")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "9090")
	}
	if cfg.Database.DBName != "fromenv" {
		t.Errorf("Database.DBName = %q, want env override %q", cfg.Database.DBName, "fromenv")
	}
	if cfg.JWT.Secret != "file-secret" {
		t.Errorf("JWT.Secret = %q, want %q", cfg.JWT.Secret, "file-secret")
	}
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5432"
	cfg.Database.DBName = "choirdinated"

	want := "postgres://app:pw@db:5432/choirdinated?sslmode=disable"
	if got := cfg.GetPostgresConnectionString(); got != want {
		t.Errorf("GetPostgresConnectionString() = %q, want %q", got, want)
	}
}
