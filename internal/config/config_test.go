package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "papan") {
		t.Errorf("GetConfigDir() = %v, should contain 'papan'", configDir)
	}

	switch runtime.GOOS {
	case "darwin", "linux":
		if os.Getenv("XDG_CONFIG_HOME") == "" && !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, DriverFile)
	}
	if !cfg.Discovery.Enabled {
		t.Error("Discovery should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("missing file should yield defaults, got port %d", cfg.Server.Port)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Server.Port = 9100
	cfg.Storage.Driver = DriverSQLite
	cfg.Logging.File = "/tmp/papan.log"
	cfg.Discovery.Instance = "Lobby Board"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100", loaded.Server.Port)
	}
	if loaded.Storage.Driver != DriverSQLite {
		t.Errorf("Driver = %q, want sqlite", loaded.Storage.Driver)
	}
	if loaded.Discovery.Instance != "Lobby Board" {
		t.Errorf("Instance = %q, want 'Lobby Board'", loaded.Discovery.Instance)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "version: 1\nserver:\n  port: 7000\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("Driver = %q, want default file", cfg.Storage.Driver)
	}
	if cfg.Limits.Burst != Default().Limits.Burst {
		t.Errorf("Burst = %d, want default", cfg.Limits.Burst)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong version", "version: 2\n"},
		{"bad driver", "version: 1\nstorage:\n  driver: redis\n"},
		{"bad port", "version: 1\nserver:\n  port: 70000\n"},
		{"not yaml", "version: [1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = "/srv/papan"

	dir, err := cfg.ResolveDataDir()
	if err != nil {
		t.Fatalf("ResolveDataDir() error = %v", err)
	}
	if dir != "/srv/papan" {
		t.Errorf("ResolveDataDir() = %q, want /srv/papan", dir)
	}

	cfg.Storage.DataDir = ""
	dir, err = cfg.ResolveDataDir()
	if err != nil {
		t.Fatalf("ResolveDataDir() error = %v", err)
	}
	if filepath.Base(dir) != "data" {
		t.Errorf("default data dir = %q, want .../data", dir)
	}
}

func TestAddr(t *testing.T) {
	cfg := Default()
	if got := cfg.Addr(); got != ":8080" {
		t.Errorf("Addr() = %q, want :8080", got)
	}
	cfg.Server.Host = "127.0.0.1"
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}
