package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/syringe/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "syringe.json"

	// DefaultPort is the default playground port.
	DefaultPort = 7070

	// DefaultHost is the default playground host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where the playground exposes Prometheus metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace prefixes every metric name.
	DefaultNamespace = "syringe"

	// DefaultFixturesDir is the default fixture directory.
	DefaultFixturesDir = "fixtures"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents the syringe.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Parallel processes wrapper children on separate goroutines.
	Parallel bool `json:"parallel,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty"`

	Playground PlaygroundConfig `json:"playground,omitempty"`
	Metrics    MetricsConfig    `json:"metrics,omitempty"`
	Tracing    TracingConfig    `json:"tracing,omitempty"`
	Fixtures   FixturesConfig   `json:"fixtures,omitempty"`
	Render     RenderConfig     `json:"render,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PlaygroundConfig contains playground server settings.
type PlaygroundConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Live enables the /live WebSocket endpoint.
	Live bool `json:"live,omitempty"`

	// AllowedOrigins lists origins accepted by /live. Empty means same
	// origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`
	Path      string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// FixturesConfig locates fixture documents.
type FixturesConfig struct {
	// Dir is the local fixture directory.
	Dir string `json:"dir,omitempty"`

	// S3 configures s3:// fixture locations.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config configures the S3 fixture source. Credentials come from the
// standard AWS environment variables.
type S3Config struct {
	Region string `json:"region,omitempty"`

	// Endpoint overrides the service endpoint (MinIO, LocalStack).
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style bucket addressing.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// RenderConfig contains HTML output settings.
type RenderConfig struct {
	Pretty bool   `json:"pretty,omitempty"`
	Indent string `json:"indent,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Playground: PlaygroundConfig{
			Host: DefaultHost,
			Port: DefaultPort,
			Live: true,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			TracerName: "syringe",
		},
		Fixtures: FixturesConfig{
			Dir: DefaultFixturesDir,
			S3:  S3Config{Region: "us-east-1"},
		},
		Render: RenderConfig{
			Indent: "  ",
		},
	}
}

// Load reads syringe.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E120").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("E121").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E121").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
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

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E141").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E141").Wrap(err)
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
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Playground.Host == "" {
		c.Playground.Host = DefaultHost
	}
	if c.Playground.Port == 0 {
		c.Playground.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "syringe"
	}
	if c.Fixtures.Dir == "" {
		c.Fixtures.Dir = DefaultFixturesDir
	}
	if c.Render.Indent == "" {
		c.Render.Indent = "  "
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Playground.Port < 0 || c.Playground.Port > 65535 {
		return errors.New("E122").
			WithDetail("playground.port must be between 0 and 65535")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("E122").
			WithDetailf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E122").
			WithDetailf("metrics.path %q must start with /", c.Metrics.Path)
	}
	return nil
}

// PlaygroundAddress returns the host:port the playground listens on.
func (c *Config) PlaygroundAddress() string {
	return c.Playground.Host + ":" + strconv.Itoa(c.Playground.Port)
}

// Level returns LogLevel as a slog level; unknown values map to info.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// FixturesPath returns the absolute path to the fixture directory.
func (c *Config) FixturesPath() string {
	if filepath.IsAbs(c.Fixtures.Dir) {
		return c.Fixtures.Dir
	}
	return filepath.Join(c.Dir(), c.Fixtures.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing syringe.json, or an error if not found.
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
			return "", errors.New("E120").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest project root,
// falling back to defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if errors.HasCode(err, "E120") {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(root)
}
