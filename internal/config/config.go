package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/sprout/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "sprout.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultExportDir is the default export output directory.
	DefaultExportDir = "dist"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "sprout"

	// EnvPort overrides Dev.Port when set.
	EnvPort = "SPROUT_PORT"

	// EnvHost overrides Dev.Host when set.
	EnvHost = "SPROUT_HOST"
)

// FileNames lists the configuration files Load looks for, in order.
var FileNames = []string{ConfigFileName, "sprout.yaml", "sprout.yml"}

// Config represents the complete sprout configuration.
type Config struct {
	// Name is the project name, used as the page title.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Dev contains server address settings.
	Dev DevConfig `json:"dev,omitempty" yaml:"dev,omitempty"`

	// Render contains driver and renderer settings.
	Render RenderConfig `json:"render,omitempty" yaml:"render,omitempty"`

	// Server contains WebSocket session settings.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Export contains static export settings.
	Export ExportConfig `json:"export,omitempty" yaml:"export,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains the address the server listens on.
type DevConfig struct {
	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
}

// RenderConfig contains rendering settings.
type RenderConfig struct {
	// Keyed enables keyed reconciliation of children.
	Keyed bool `json:"keyed,omitempty" yaml:"keyed,omitempty"`

	// Pretty indents server-rendered and exported HTML.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`
}

// ServerConfig contains session settings. Durations are strings such as
// "30s".
type ServerConfig struct {
	ReadTimeout       string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout      string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
	HeartbeatInterval string `json:"heartbeatInterval,omitempty" yaml:"heartbeatInterval,omitempty"`
	ShutdownTimeout   string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// MaxSessions limits concurrent sessions (0 = no limit).
	MaxSessions int `json:"maxSessions,omitempty" yaml:"maxSessions,omitempty"`

	// MaxMessageSize limits incoming WebSocket messages in bytes.
	MaxMessageSize int64 `json:"maxMessageSize,omitempty" yaml:"maxMessageSize,omitempty"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	// Dir is the output directory for disk exports.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// S3 selects an S3 bucket instead of Dir when Bucket is set.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config locates an S3 bucket.
type S3Config struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory, using the first
// of FileNames that exists.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No sprout.json or sprout.yaml found in " + dir)
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension. Environment overrides are applied after parsing.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML")
		}
	default:
		return nil, errors.New("E121").WithDetail("Unsupported extension " + ext)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, as YAML for .yaml and .yml
// files and as JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// ApplyEnv applies SPROUT_PORT and SPROUT_HOST through lookup, which is
// os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E122").
				WithDetail(EnvPort + " must be a number, got " + strconv.Quote(v))
		}
		c.Dev.Port = port
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Dev.Host = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Dev.Port))
	}
	for _, d := range []struct{ name, value string }{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
		{"server.heartbeatInterval", c.Server.HeartbeatInterval},
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
	} {
		if d.value == "" {
			continue
		}
		if v, err := time.ParseDuration(d.value); err != nil || v < 0 {
			return errors.New("E123").
				WithDetail(d.name + ": " + strconv.Quote(d.value) + " is not a valid duration")
		}
	}
	if c.Server.MaxSessions < 0 || c.Server.MaxMessageSize < 0 {
		return errors.New("E124")
	}
	return nil
}

// Duration parses one of the server duration fields, returning 0 when it
// is empty or invalid. Validate reports invalid values.
func Duration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// DevAddress returns the address string for the server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the full URL for the server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// ExportPath returns the absolute path to the export directory.
func (c *Config) ExportPath() string {
	if filepath.IsAbs(c.Export.Dir) {
		return c.Export.Dir
	}
	return filepath.Join(c.Dir(), c.Export.Dir)
}

// ExportsToS3 reports whether exports go to S3.
func (c *Config) ExportsToS3() bool {
	return c.Export.S3.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No sprout.json or sprout.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or the nearest parent that has one.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
