package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vango-dev/waypoint/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "waypoint.json"

	// DefaultRoutes is the default route file, relative to the config directory.
	DefaultRoutes = "routes.yaml"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "waypoint"

	// DefaultNavigationTimeout bounds a single navigation.
	DefaultNavigationTimeout = "5s"

	// DefaultManifestTimeout bounds a single manifest fetch.
	DefaultManifestTimeout = "10s"

	// DefaultMaxRedirects is how many redirects resolve follows.
	DefaultMaxRedirects = 10
)

// Config represents the complete waypoint.json configuration.
type Config struct {
	// Routes is the path to the route file (YAML or JSON).
	Routes string `json:"routes,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Navigation contains limits applied to each navigation.
	Navigation NavigationConfig `json:"navigation,omitempty"`

	// Manifests configures loading child routes from S3.
	Manifests ManifestConfig `json:"manifests,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled turns navigation metrics on.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// NavigationConfig contains per-navigation limits.
type NavigationConfig struct {
	// Timeout is how long a navigation may take (e.g., "5s").
	Timeout string `json:"timeout,omitempty"`

	// MaxRedirects is how many redirects are followed before giving up.
	// Zero follows none. Nil means DefaultMaxRedirects.
	MaxRedirects *int `json:"maxRedirects,omitempty"`
}

// ManifestConfig configures the S3 child-route loader.
type ManifestConfig struct {
	// Bucket holds the manifests. Empty disables the loader.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every manifest key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// Timeout bounds a single fetch (e.g., "10s").
	Timeout string `json:"timeout,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Routes: DefaultRoutes,
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Navigation: NavigationConfig{
			Timeout:      DefaultNavigationTimeout,
			MaxRedirects: ptr(DefaultMaxRedirects),
		},
		Manifests: ManifestConfig{
			Timeout: DefaultManifestTimeout,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for waypoint.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("W101").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'waypoint init' to create one")
		}
		return nil, errors.New("W102").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("W102").
			Wrap(err).
			WithLocationFromError(path, err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Find loads the nearest waypoint.json at or above startDir. Without one,
// it returns the defaults rooted at startDir.
func Find(startDir string) (*Config, error) {
	root, err := FindProjectRoot(startDir)
	if err != nil {
		abs, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, absErr
		}
		cfg := New()
		cfg.configPath = filepath.Join(abs, ConfigFileName)
		return cfg, nil
	}
	return Load(root)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("W102").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("W102").Wrap(err)
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
	if c.Routes == "" {
		c.Routes = DefaultRoutes
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Navigation.Timeout == "" {
		c.Navigation.Timeout = DefaultNavigationTimeout
	}
	if c.Navigation.MaxRedirects == nil {
		c.Navigation.MaxRedirects = ptr(DefaultMaxRedirects)
	}
	if c.Manifests.Timeout == "" {
		c.Manifests.Timeout = DefaultManifestTimeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return errors.New("W103").
			Wrap(err).
			WithSuggestion(`Use one of "debug", "info", "warn" or "error"`)
	}
	if err := positive(c.Navigation.Timeout); err != nil {
		return errors.New("W105").
			Wrap(err).
			WithDetail("navigation.timeout must be a positive Go duration such as 5s")
	}
	if c.RedirectLimit() < 0 {
		return errors.New("W106")
	}
	if c.Manifests.Bucket != "" {
		if c.Manifests.Region == "" {
			return errors.New("W104").
				WithSuggestion("Set manifests.region next to manifests.bucket")
		}
		if err := positive(c.Manifests.Timeout); err != nil {
			return errors.New("W105").
				Wrap(err).
				WithDetail("manifests.timeout must be a positive Go duration such as 10s")
		}
	}
	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// NavigationTimeout returns the parsed navigation timeout, or the default
// when it does not parse or is not positive.
func (c *Config) NavigationTimeout() time.Duration {
	return duration(c.Navigation.Timeout, DefaultNavigationTimeout)
}

// ManifestTimeout returns the parsed manifest fetch timeout, or the default
// when it does not parse or is not positive.
func (c *Config) ManifestTimeout() time.Duration {
	return duration(c.Manifests.Timeout, DefaultManifestTimeout)
}

// RedirectLimit returns how many redirects resolve follows.
func (c *Config) RedirectLimit() int {
	if c.Navigation.MaxRedirects == nil {
		return DefaultMaxRedirects
	}
	return *c.Navigation.MaxRedirects
}

// HasManifests reports whether child routes are loaded from S3.
func (c *Config) HasManifests() bool {
	return c.Manifests.Bucket != ""
}

// RoutesPath returns the absolute path to the route file.
func (c *Config) RoutesPath() string {
	path := c.Routes
	if path == "" {
		path = DefaultRoutes
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing waypoint.json, or an error if not found.
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
			return "", errors.New("W101").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'waypoint init' to create one")
		}
		dir = parent
	}
}

func duration(s, fallback string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func positive(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("duration %s is not positive", s)
	}
	return nil
}

func ptr(n int) *int {
	return &n
}
