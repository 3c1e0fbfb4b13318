package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/syringe/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Playground.Port != DefaultPort {
		t.Errorf("Playground.Port = %d, want %d", cfg.Playground.Port, DefaultPort)
	}
	if cfg.Playground.Host != DefaultHost {
		t.Errorf("Playground.Host = %q, want %q", cfg.Playground.Host, DefaultHost)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
	if cfg.Fixtures.Dir != DefaultFixturesDir {
		t.Errorf("Fixtures.Dir = %q, want %q", cfg.Fixtures.Dir, DefaultFixturesDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E120") {
		t.Fatalf("Load() on empty dir error = %v, want E120", err)
	}

	configJSON := `{
  "logLevel": "debug",
  "parallel": true,
  "playground": {"host": "0.0.0.0", "port": 8080},
  "metrics": {"subsystem": "web"},
  "fixtures": {"dir": "testdata", "s3": {"endpoint": "http://localhost:9000", "pathStyle": true}},
  "render": {"pretty": true}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PlaygroundAddress() != "0.0.0.0:8080" {
		t.Errorf("PlaygroundAddress() = %q", cfg.PlaygroundAddress())
	}
	if !cfg.Parallel || !cfg.Render.Pretty {
		t.Error("booleans not loaded")
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
	if cfg.Metrics.Namespace != DefaultNamespace || cfg.Metrics.Subsystem != "web" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if !cfg.Fixtures.S3.PathStyle || cfg.Fixtures.S3.Region != "us-east-1" {
		t.Errorf("Fixtures.S3 = %+v", cfg.Fixtures.S3)
	}
	if cfg.FixturesPath() != filepath.Join(tmpDir, "testdata") {
		t.Errorf("FixturesPath() = %q", cfg.FixturesPath())
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
	}{
		{"bad json", `{"playground": `, "E121"},
		{"bad port", `{"playground": {"port": 70000}}`, "E122"},
		{"bad level", `{"logLevel": "loud"}`, "E122"},
		{"bad metrics path", `{"metrics": {"path": "metrics"}}`, "E122"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("LoadFile() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := New()
	cfg.Name = "demo"
	cfg.Playground.Port = 9000

	if err := cfg.Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Name != "demo" || loaded.Playground.Port != 9000 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindProjectRoot(nested); !errors.HasCode(err, "E120") {
		t.Errorf("FindProjectRoot() without config error = %v", err)
	}

	if err := New().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
}
