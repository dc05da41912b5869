package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./shopcore.db",
		"server.port":   8000,
	}
	cfg, err := LoadConfig[Config](nil, defaults, nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Type != "sqlite" || cfg.Database.DSN != "./shopcore.db" {
		t.Errorf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Redis.Enabled {
		t.Error("redis must be disabled by default")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopcore.yaml")
	content := `debug: true
server:
  port: 9001
database:
  type: postgres
  dsn: postgres://shop:pw@localhost/shop
redis:
  enabled: true
  addr: cache:6379
  ttl_seconds: 120
auth:
  secret_key: file-secret
  access_ttl_minutes: 15
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig[Config](nil, map[string]any{"server.port": 8000}, &path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Debug {
		t.Error("debug must come from the file")
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("port = %d, want 9001", cfg.Server.Port)
	}
	if cfg.Database.Type != "postgres" || cfg.Database.DSN == "" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" || cfg.Redis.TTLSeconds != 120 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Auth.SecretKey != "file-secret" || cfg.Auth.AccessTTLMinutes != 15 {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopcore.yaml")
	if err := os.WriteFile(path, []byte("database:\n  type: sqlite\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("SHOPCORE_DATABASE_TYPE", "mysql")

	cfg, err := LoadConfig[Config](nil, nil, &path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Type != "mysql" {
		t.Errorf("type = %q, environment must win over the file", cfg.Database.Type)
	}
}

func TestWriteConfigFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("user config dir override relies on XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Config{
		Debug:    true,
		Server:   ServerConfig{Port: 9100},
		Database: DatabaseConfig{Type: "postgres", DSN: "postgres://shop:pw@localhost/shop"},
		Auth:     AuthConfig{SecretKey: "written-secret"},
	}
	if err := WriteConfigFile(&cfg, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := getConfigPath(false)
	if err != nil {
		t.Fatalf("getConfigPath failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("written file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file permissions = %o, want 600", perm)
	}

	// The written file round-trips through the loader.
	got, err := LoadConfig[Config](nil, nil, &path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !got.Debug || got.Server.Port != 9100 {
		t.Errorf("unexpected reloaded config: %+v", got)
	}
	if got.Database.Type != "postgres" || got.Auth.SecretKey != "written-secret" {
		t.Errorf("unexpected reloaded config: %+v", got)
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopcore.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml ["), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadConfig[Config](nil, nil, &path); err == nil {
		t.Fatal("expected an error for a malformed config file")
	}
}
