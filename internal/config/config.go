package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/pathmatch"
)

const (
	// DefaultAddr is the default server address.
	DefaultAddr = ":3000"

	// DefaultExportDir is the default static export directory.
	DefaultExportDir = "dist"

	// DefaultMetricsPath is where metrics are served when enabled.
	DefaultMetricsPath = "/metrics"

	// DefaultServiceName names the service in traces.
	DefaultServiceName = "vroute"
)

// FileNames are the configuration file names Load looks for, in order.
var FileNames = []string{"vroute.yaml", "vroute.yml", "vroute.json"}

// Config represents the complete vroute configuration.
type Config struct {
	// Name is the project name.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	Server    ServerConfig    `yaml:"server" json:"server"`
	Dev       DevConfig       `yaml:"dev" json:"dev"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing" json:"tracing"`
	RateLimit RateLimitConfig `yaml:"rateLimit" json:"rateLimit"`
	Export    ExportConfig    `yaml:"export" json:"export"`
	Matcher   MatcherConfig   `yaml:"matcher" json:"matcher"`
	Static    StaticConfig    `yaml:"static" json:"static"`
	Site      SiteConfig      `yaml:"site" json:"site"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr" json:"addr"`

	// Basename is the URL prefix the site is mounted under.
	Basename string `yaml:"basename,omitempty" json:"basename,omitempty"`

	ReadTimeout     Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	WriteTimeout    Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`

	// TrustedProxies are IPs or CIDRs whose forwarding headers are believed.
	TrustedProxies []string `yaml:"trustedProxies,omitempty" json:"trustedProxies,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Enabled turns on live reload.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Watch contains paths to watch for changes.
	Watch []string `yaml:"watch,omitempty" json:"watch,omitempty"`

	// Debounce coalesces bursts of file events.
	Debounce Duration `yaml:"debounce,omitempty" json:"debounce,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is text or json.
	Format string `yaml:"format" json:"format"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Endpoint is the OTLP/HTTP collector, host:port. Empty uses the
	// exporter default.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure,omitempty" json:"insecure,omitempty"`

	ServiceName string `yaml:"serviceName,omitempty" json:"serviceName,omitempty"`

	// SampleRatio is the fraction of traces sampled, 0 < r <= 1.
	SampleRatio float64 `yaml:"sampleRatio,omitempty" json:"sampleRatio,omitempty"`
}

// RateLimitConfig contains per-client rate limiting settings. Zero
// RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"rps" json:"rps"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	// Dir is the output directory.
	Dir string `yaml:"dir" json:"dir"`

	// Paths are rendered in addition to the static site routes.
	Paths []string `yaml:"paths,omitempty" json:"paths,omitempty"`

	// S3 uploads the export when Bucket is set.
	S3 S3Config `yaml:"s3,omitempty" json:"s3,omitempty"`
}

// S3Config contains the S3-compatible export destination.
type S3Config struct {
	Bucket   string `yaml:"bucket" json:"bucket"`
	Prefix   string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Region   string `yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// PathStyle addresses the bucket in the path, for S3-compatible stores.
	PathStyle bool `yaml:"pathStyle,omitempty" json:"pathStyle,omitempty"`
}

// MatcherConfig contains path matcher settings.
type MatcherConfig struct {
	// CacheLimit bounds the compiled pattern cache. Negative disables it.
	CacheLimit int `yaml:"cacheLimit" json:"cacheLimit"`
}

// StaticConfig contains static file serving settings.
type StaticConfig struct {
	// Dir is served next to the routes. Relative paths are resolved against
	// the config file's directory. Empty disables static serving.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// Prefix is the URL prefix files are served under.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	// Cache is none, no-store or production.
	Cache string `yaml:"cache,omitempty" json:"cache,omitempty"`

	// Manifest is a JSON file mapping asset names to fingerprinted names.
	// Without one, fingerprinted files in Dir are found by scanning.
	Manifest string `yaml:"manifest,omitempty" json:"manifest,omitempty"`

	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// SiteConfig is a route table served without Go code.
type SiteConfig struct {
	Title  string      `yaml:"title,omitempty" json:"title,omitempty"`
	Lang   string      `yaml:"lang,omitempty" json:"lang,omitempty"`
	Routes []SiteRoute `yaml:"routes,omitempty" json:"routes,omitempty"`
}

// SiteRoute is one route of the site table. It renders Body, or redirects to
// Redirect. A route without Path always matches.
type SiteRoute struct {
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
	Exact     bool   `yaml:"exact,omitempty" json:"exact,omitempty"`
	Strict    bool   `yaml:"strict,omitempty" json:"strict,omitempty"`
	Sensitive bool   `yaml:"sensitive,omitempty" json:"sensitive,omitempty"`

	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Body   string `yaml:"body,omitempty" json:"body,omitempty"`
	Status int    `yaml:"status,omitempty" json:"status,omitempty"`

	Redirect string `yaml:"redirect,omitempty" json:"redirect,omitempty"`
	Push     bool   `yaml:"push,omitempty" json:"push,omitempty"`

	Routes []SiteRoute `yaml:"routes,omitempty" json:"routes,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(30 * time.Second),
		},
		Dev: DevConfig{
			Watch:    []string{"."},
			Debounce: Duration(100 * time.Millisecond),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Path:      DefaultMetricsPath,
			Namespace: "vroute",
		},
		Tracing: TracingConfig{
			ServiceName: DefaultServiceName,
			SampleRatio: 1,
		},
		Export: ExportConfig{
			Dir: DefaultExportDir,
		},
		Matcher: MatcherConfig{
			CacheLimit: pathmatch.DefaultCacheLimit,
		},
	}
}

// Load reads configuration from dir, trying each of FileNames.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("R021").
		WithDetail("No " + strings.Join(FileNames, ", ") + " found in " + dir).
		WithSuggestion("Run 'vroute init' to create one")
}

// LoadFile reads configuration from path. The format follows the extension:
// .yaml and .yml are YAML, .json is JSON. ${VAR} references are replaced by
// environment variables before parsing.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R021").WithDetail("No config file at " + path)
		}
		return nil, errors.New("R020").Wrap(err)
	}

	cfg := New()
	if err := unmarshal(path, []byte(expandEnvVars(string(data))), cfg); err != nil {
		return nil, err
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.New("R020").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return errors.New("R020").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	default:
		return errors.New("R020").WithDetail("Unsupported config file extension " + ext)
	}
	return nil
}

var envVarRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the environment variable. Unset
// variables are left as written.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path, in the format its extension names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New("R020").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R020").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Resolve returns p relative to the config file's directory. Absolute
// paths and configs without a file are returned unchanged.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.configPath == "" {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for fields a file cleared.
func (c *Config) applyDefaults() {
	defaults := New()

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}

	if len(c.Dev.Watch) == 0 {
		c.Dev.Watch = defaults.Dev.Watch
	}
	if c.Dev.Debounce == 0 {
		c.Dev.Debounce = defaults.Dev.Debounce
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = defaults.Metrics.Path
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = defaults.Metrics.Namespace
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = defaults.Tracing.ServiceName
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = defaults.Tracing.SampleRatio
	}

	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = max(1, int(c.RateLimit.RequestsPerSecond))
	}

	if c.Export.Dir == "" {
		c.Export.Dir = defaults.Export.Dir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("R020").WithDetail("server.addr must not be empty")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return errors.New("R020").WithDetail("log.level must be debug, info, warn or error, got " + c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("R020").WithDetail("log.format must be text or json, got " + c.Log.Format)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("R020").WithDetail("metrics.path must start with /")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return errors.New("R020").WithDetail("tracing.sampleRatio must be between 0 and 1")
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return errors.New("R020").WithDetail("rateLimit.rps and rateLimit.burst must not be negative")
	}
	switch c.Static.Cache {
	case "", "none", "no-store", "production":
	default:
		return errors.New("R020").WithDetail("static.cache must be none, no-store or production, got " + c.Static.Cache)
	}
	if c.Static.Prefix != "" && !strings.HasPrefix(c.Static.Prefix, "/") {
		return errors.New("R020").WithDetail("static.prefix must start with /")
	}
	return validateRoutes(c.Site.Routes)
}

func validateRoutes(routes []SiteRoute) error {
	for _, r := range routes {
		if r.Body != "" && r.Redirect != "" {
			return errors.New("R022").
				WithRoute(r.Path).
				WithDetail("A site route renders a body or redirects, not both.")
		}
		if r.Status != 0 && (r.Status < 100 || r.Status > 599) {
			return errors.New("R022").
				WithRoute(r.Path).
				WithDetail("status must be a valid HTTP status code")
		}
		if r.Path != "" {
			if _, err := pathmatch.Default().Compile(r.Path, pathmatch.CompileOptions{}); err != nil {
				return errors.New("R022").WithRoute(r.Path).Wrap(err)
			}
		}
		if err := validateRoutes(r.Routes); err != nil {
			return err
		}
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
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
			return "", errors.New("R021").
				WithDetail("No config file found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'vroute init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent holding a config file.
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
