package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestGetConfigDir validates config directory access
func TestGetConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	configDir := GetConfigDir()
	if configDir == "" {
		t.Fatal("Config directory should not be empty")
	}

	if _, err := os.Stat(configDir); err != nil {
		t.Errorf("Config directory should exist: %v", err)
	}
}

// TestInitWithCustomPath validates custom config path
func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	if err := Init(customConfigPath); err != nil {
		t.Fatalf("Failed to initialize with custom path: %v", err)
	}

	expectedDir := filepath.Join(tempDir, "custom", "path")
	if GetConfigDir() != expectedDir {
		t.Errorf("Expected config dir %s, got %s", expectedDir, GetConfigDir())
	}
	if GetConfigFilePath() != customConfigPath {
		t.Errorf("Expected config file %s, got %s", customConfigPath, GetConfigFilePath())
	}
}

// TestCookiesPathStructure validates the cookie store lives under the config dir
func TestCookiesPathStructure(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	cookies := GetCookiesPath()
	if !filepath.IsAbs(cookies) {
		t.Error("Cookies path should be absolute")
	}
	if filepath.Dir(cookies) != GetConfigDir() {
		t.Errorf("Cookies path %s should be under config dir %s", cookies, GetConfigDir())
	}
}

func TestDefaults(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetString("api.base_url"); got != "http://localhost:8080" {
		t.Errorf("Expected default base URL 'http://localhost:8080', got '%s'", got)
	}
	if got := GetInt("api.timeout"); got != 10 {
		t.Errorf("Expected default timeout 10, got %d", got)
	}
	if got := GetDuration("session.redirect_delay"); got != 2*time.Second {
		t.Errorf("Expected default redirect delay 2s, got %s", got)
	}
	if got := GetString("session.access_cookie"); got != "accessToken" {
		t.Errorf("Expected default access cookie 'accessToken', got '%s'", got)
	}
	if got := GetString("output.format"); got != "text" {
		t.Errorf("Expected default format 'text', got '%s'", got)
	}
	if got := GetString("log.level"); got != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", got)
	}
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")
	content := "[api]\nbase_url = \"https://journal.example.com\"\ntimeout = 3\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetString("api.base_url"); got != "https://journal.example.com" {
		t.Errorf("Expected base URL from file, got '%s'", got)
	}
	if got := GetInt("api.timeout"); got != 3 {
		t.Errorf("Expected timeout 3 from file, got %d", got)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("JOURNAL_API_BASE_URL", "http://env.example.com/api")

	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := GetString("api.base_url"); got != "http://env.example.com/api" {
		t.Errorf("Expected base URL from environment, got '%s'", got)
	}
}

func TestSetStringPersists(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")
	if err := Init(path); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if err := SetString("output.format", "json"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Re-init failed: %v", err)
	}
	if got := GetString("output.format"); got != "json" {
		t.Errorf("Expected persisted format 'json', got '%s'", got)
	}
}

// TestMultipleInitCalls validates multiple initialization calls
func TestMultipleInitCalls(t *testing.T) {
	tempDir := t.TempDir()
	path1 := filepath.Join(tempDir, "config1", "config.toml")
	path2 := filepath.Join(tempDir, "config2", "config.toml")

	if err := Init(path1); err != nil {
		t.Fatalf("First init failed: %v", err)
	}
	firstDir := GetConfigDir()

	if err := Init(path2); err != nil {
		t.Fatalf("Second init failed: %v", err)
	}

	if firstDir == GetConfigDir() {
		t.Errorf("Config dir should change after re-init, both were %s", firstDir)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/logs/journal.log"); got != filepath.Join(home, "logs/journal.log") {
		t.Errorf("expandPath: got %s", got)
	}
	if got := expandPath("/var/log/journal.log"); got != "/var/log/journal.log" {
		t.Errorf("absolute path should be untouched, got %s", got)
	}
}
