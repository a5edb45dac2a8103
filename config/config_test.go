package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ConfigFileIsDirectory(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("GRIDCALC_CONFIG_DIR", tmp)

	cfgPath := filepath.Join(tmp, "config.yaml")
	if err := os.Mkdir(cfgPath, 0o755); err != nil {
		t.Fatalf("setup config dir: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatalf("expected read error when config file is a directory")
	} else if os.IsNotExist(err) {
		t.Fatalf("expected non-ENOENT error, got %v", err)
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv("GRIDCALC_CONFIG_DIR", t.TempDir())
	t.Setenv("GRIDCALC_API_KEY", "")
	t.Setenv("GRIDCALC_API_URL", "")
	t.Setenv("GRIDCALC_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load() = %+v, want %+v", cfg, Default())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("GRIDCALC_CONFIG_DIR", filepath.Join(t.TempDir(), "nested"))
	t.Setenv("GRIDCALC_API_KEY", "")
	t.Setenv("GRIDCALC_API_URL", "")
	t.Setenv("GRIDCALC_LOG_LEVEL", "")

	want := Config{
		Viewport: Viewport{Height: 5, Width: 20},
		Server:   Server{Addr: "127.0.0.1:9000", APIKey: "secret", URL: "http://localhost:9000"},
		LogLevel: "debug",
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}

	p, _ := Path()
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestLoad_PartialFileAndEnvOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("GRIDCALC_CONFIG_DIR", tmp)
	t.Setenv("GRIDCALC_API_KEY", "from-env")
	t.Setenv("GRIDCALC_API_URL", "")
	t.Setenv("GRIDCALC_LOG_LEVEL", "warn")

	data := []byte("viewport:\n  height: 4\nserver:\n  api_key: from-file\n")
	if err := os.WriteFile(filepath.Join(tmp, "config.yaml"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Viewport.Height != 4 || cfg.Viewport.Width != DefaultWindow {
		t.Errorf("viewport = %+v, want height 4 and default width", cfg.Viewport)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Server.APIKey != "from-env" {
		t.Errorf("api key = %q, want from-env", cfg.Server.APIKey)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q, want warn", cfg.LogLevel)
	}

	raw, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if raw.Server.APIKey != "from-file" || raw.LogLevel != "" {
		t.Errorf("LoadFile() = %+v, want file contents only", raw)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("GRIDCALC_CONFIG_DIR", tmp)
	if err := os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("viewport: [1, 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDelete(t *testing.T) {
	t.Setenv("GRIDCALC_CONFIG_DIR", t.TempDir())
	if err := Delete(); err != nil {
		t.Fatalf("Delete with no file: %v", err)
	}
	if err := Save(Default()); err != nil {
		t.Fatal(err)
	}
	if err := Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	p, _ := Path()
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("config file still exists: %v", err)
	}
}

func TestDir_XDGFallback(t *testing.T) {
	t.Setenv("GRIDCALC_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "gridcalc", "config.yaml"); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}
