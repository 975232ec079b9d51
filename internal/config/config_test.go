package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/sprout/internal/errors"
)

func noEnv(string) (string, bool) { return "", false }

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var se *errors.SproutError
	if !stderrors.As(err, &se) {
		t.Fatalf("error %v is not a SproutError", err)
	}
	return se.Code
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Export.Dir != DefaultExportDir {
		t.Errorf("Export.Dir = %q, want %q", cfg.Export.Dir, DefaultExportDir)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvHost, "")
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if code := codeOf(t, err); code != "E141" {
		t.Errorf("code = %s, want E141", code)
	}

	configJSON := `{
  "name": "counter",
  "dev": {
    "port": 3000,
    "host": "0.0.0.0"
  },
  "render": {
    "keyed": true
  },
  "server": {
    "readTimeout": "30s",
    "maxSessions": 10
  },
  "export": {
    "s3": {"bucket": "site", "prefix": "v1"}
  }
}
`
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := Config{
		Name:   "counter",
		Dev:    DevConfig{Port: 3000, Host: "0.0.0.0"},
		Render: RenderConfig{Keyed: true},
		Server: ServerConfig{ReadTimeout: "30s", MaxSessions: 10},
		Export: ExportConfig{
			Dir: DefaultExportDir,
			S3:  S3Config{Bucket: "site", Prefix: "v1"},
		},
		Metrics: MetricsConfig{Namespace: DefaultNamespace},
	}
	if diff := cmp.Diff(want, *cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
	if !cfg.ExportsToS3() {
		t.Error("ExportsToS3() should be true with a bucket")
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvHost, "")
	tmpDir := t.TempDir()

	configYAML := `name: todo
dev:
  port: 9000
render:
  pretty: true
server:
  heartbeatInterval: 15s
metrics:
  enabled: true
  namespace: todo
`
	if err := os.WriteFile(filepath.Join(tmpDir, "sprout.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "todo" || cfg.Dev.Port != 9000 || cfg.Dev.Host != DefaultHost {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Render.Pretty || cfg.Render.Keyed {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "todo" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if got := Duration(cfg.Server.HeartbeatInterval); got != 15*time.Second {
		t.Errorf("heartbeat = %v, want 15s", got)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "sprout.yaml"), []byte("name: yaml\n"), 0644)
	os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(`{"name":"json"}`), 0644)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "json" {
		t.Errorf("Name = %q, want json", cfg.Name)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		code    string
	}{
		{"bad json", "sprout.json", "{not json", "E120"},
		{"bad yaml", "sprout.yml", "dev: [1, 2", "E120"},
		{"unknown format", "sprout.toml", "name = 'x'", "E121"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := codeOf(t, err); code != tt.code {
				t.Errorf("code = %s, want %s", code, tt.code)
			}
		})
	}

	_, err := LoadFile(filepath.Join(tmpDir, "missing.json"))
	if code := codeOf(t, err); code != "E141" {
		t.Errorf("missing file code = %s, want E141", code)
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(`{"dev":{"port":3000}}`), 0644)

	t.Setenv(EnvPort, "4321")
	t.Setenv(EnvHost, "127.0.0.1")
	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DevAddress() != "127.0.0.1:4321" {
		t.Errorf("DevAddress() = %q", cfg.DevAddress())
	}

	t.Setenv(EnvPort, "eighty")
	if _, err := Load(tmpDir); err == nil || codeOf(t, err) != "E122" {
		t.Errorf("bad %s: err = %v, want E122", EnvPort, err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	if err := cfg.ApplyEnv(noEnv); err != nil {
		t.Fatal(err)
	}
	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want default", cfg.Dev.Port)
	}

	env := map[string]string{EnvPort: "9999"}
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dev.Port != 9999 || cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev = %+v", cfg.Dev)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvHost, "")

	for _, name := range []string{"sprout.json", "sprout.yaml"} {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfg := New()
			cfg.Name = "showcase"
			cfg.Render.Keyed = true
			cfg.Server.WriteTimeout = "5s"
			cfg.Export.S3.Region = "eu-west-1"

			path := filepath.Join(tmpDir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}

			loaded, err := Load(tmpDir)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
				t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
			}

			loaded.Dev.Port = 7000
			if err := loaded.Save(); err != nil {
				t.Fatalf("Save error: %v", err)
			}
			again, _ := LoadFile(path)
			if again.Dev.Port != 7000 {
				t.Errorf("Dev.Port = %d, want 7000", again.Dev.Port)
			}
		})
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestSavedJSONEndsWithNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := New().SaveTo(path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasSuffix(string(data), "}\n") {
		t.Errorf("saved config should end with a newline: %q", data)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"valid", func(*Config) {}, ""},
		{"port too high", func(c *Config) { c.Dev.Port = 70000 }, "E122"},
		{"negative port", func(c *Config) { c.Dev.Port = -1 }, "E122"},
		{"bad duration", func(c *Config) { c.Server.ReadTimeout = "soon" }, "E123"},
		{"negative duration", func(c *Config) { c.Server.ShutdownTimeout = "-1s" }, "E123"},
		{"good durations", func(c *Config) {
			c.Server.ReadTimeout = "1m"
			c.Server.HeartbeatInterval = "250ms"
		}, ""},
		{"negative sessions", func(c *Config) { c.Server.MaxSessions = -5 }, "E124"},
		{"negative message size", func(c *Config) { c.Server.MaxMessageSize = -1 }, "E124"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want %s", tt.code)
			}
			if code := codeOf(t, err); code != tt.code {
				t.Errorf("code = %s, want %s", code, tt.code)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"":     0,
		"2s":   2 * time.Second,
		"1m":   time.Minute,
		"nope": 0,
		"-3s":  0,
	}
	for in, want := range tests {
		if got := Duration(in); got != want {
			t.Errorf("Duration(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	cfg.Dev.Host = "0.0.0.0"
	cfg.Dev.Port = 3000

	if got := cfg.DevAddress(); got != "0.0.0.0:3000" {
		t.Errorf("DevAddress() = %q, want %q", got, "0.0.0.0:3000")
	}
	if got := cfg.DevURL(); got != "http://0.0.0.0:3000" {
		t.Errorf("DevURL() = %q, want %q", got, "http://0.0.0.0:3000")
	}
}

func TestExportPath(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := New()
	if err := cfg.SaveTo(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	if got, want := cfg.ExportPath(), filepath.Join(tmpDir, DefaultExportDir); got != want {
		t.Errorf("ExportPath() = %q, want %q", got, want)
	}

	abs := filepath.Join(tmpDir, "elsewhere")
	cfg.Export.Dir = abs
	if got := cfg.ExportPath(); got != abs {
		t.Errorf("ExportPath() = %q, want %q", got, abs)
	}
	if cfg.ExportsToS3() {
		t.Error("ExportsToS3() should be false without a bucket")
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(tmpDir) {
		t.Error("Exists should return false for empty dir")
	}

	os.WriteFile(filepath.Join(tmpDir, "sprout.yml"), []byte("{}"), 0644)

	if !Exists(tmpDir) {
		t.Error("Exists should return true after creating sprout.yml")
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()

	// Create nested directories
	nested := filepath.Join(tmpDir, "a", "b", "c")
	os.MkdirAll(nested, 0755)

	// Create config at root
	os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0644)

	// Find from nested directory
	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}

	// Resolve symlinks for comparison (macOS /var -> /private/var)
	expectedRoot, _ := filepath.EvalSymlinks(tmpDir)
	actualRoot, _ := filepath.EvalSymlinks(root)

	if actualRoot != expectedRoot {
		t.Errorf("FindProjectRoot = %q, want %q", actualRoot, expectedRoot)
	}
}

func TestFindProjectRoot_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := FindProjectRoot(tmpDir)
	if err == nil {
		t.Error("Expected error when config not found")
	}
}
