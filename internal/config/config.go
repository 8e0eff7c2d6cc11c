package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"fitdash/internal/analysis"
)

// Environment variables that override the config file
const (
	EnvDataDir  = "FITDASH_DATA_DIR"
	EnvLogLevel = "FITDASH_LOG_LEVEL"
	EnvOwner    = "FITDASH_OWNER"
	EnvViewer   = "FITDASH_VIEWER"
	EnvMaxHR    = "FITDASH_MAX_HR"
)

// Config represents the application configuration
type Config struct {
	Athlete  AthleteConfig  `json:"athlete"`
	Display  DisplayConfig  `json:"display"`
	Cache    CacheConfig    `json:"cache"`
	Log      LogConfig      `json:"log"`
	Identity IdentityConfig `json:"identity"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	RestingHR   float64 `json:"resting_hr"`
	MaxHR       float64 `json:"max_hr"`
	ThresholdHR float64 `json:"threshold_hr"`
	// Zones are explicit Z1..Z5 upper bounds; they win over the HR values
	Zones []float64 `json:"zones,omitempty"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	ChartTheme          string `json:"chart_theme"`
	RollingWindow       int    `json:"rolling_window"`
	HealthRollingWindow int    `json:"health_rolling_window"` // days
}

// CacheConfig sizes the rendered chart cache
type CacheConfig struct {
	SizeMB     int `json:"size_mb"`
	TTLSeconds int `json:"ttl_seconds"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `json:"level"`
	File   string `json:"file"`
	Stdout bool   `json:"stdout"`
	JSON   bool   `json:"json"`
}

// IdentityConfig names the data owner and the person looking at it.
// Different identities turn on coach mode.
type IdentityConfig struct {
	Owner  string `json:"owner"`
	Viewer string `json:"viewer"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			RestingHR:   50,
			MaxHR:       185,
			ThresholdHR: 165,
		},
		Display: DisplayConfig{
			ChartTheme:          "macarons",
			RollingWindow:       analysis.DefaultRollingWindow,
			HealthRollingWindow: 14,
		},
		Cache: CacheConfig{
			SizeMB:     16,
			TTLSeconds: 600,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from the config directory
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads the config file, falling back to defaults when
// there is none
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNoConfig) {
		def := DefaultConfig()
		return &def, nil
	}
	return cfg, err
}

// Apply defaults for missing values
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Athlete.RestingHR == 0 {
		c.Athlete.RestingHR = defaults.Athlete.RestingHR
	}
	if c.Athlete.MaxHR == 0 {
		c.Athlete.MaxHR = defaults.Athlete.MaxHR
	}
	if c.Athlete.ThresholdHR == 0 {
		c.Athlete.ThresholdHR = defaults.Athlete.ThresholdHR
	}
	if c.Display.ChartTheme == "" {
		c.Display.ChartTheme = defaults.Display.ChartTheme
	}
	if c.Display.RollingWindow == 0 {
		c.Display.RollingWindow = defaults.Display.RollingWindow
	}
	if c.Display.HealthRollingWindow == 0 {
		c.Display.HealthRollingWindow = defaults.Display.HealthRollingWindow
	}
	if c.Cache.SizeMB == 0 {
		c.Cache.SizeMB = defaults.Cache.SizeMB
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = defaults.Cache.TTLSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// LoadEnv reads KEY=value files (".env" when none are given) into the
// process environment. Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with FITDASH_* environment variables
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvOwner); ok {
		c.Identity.Owner = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvViewer); ok {
		c.Identity.Viewer = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvMaxHR); ok && v != "" {
		maxHR, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxHR, err)
		}
		c.Athlete.MaxHR = maxHR
	}
	return nil
}

// Save writes the configuration to the config directory
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Athlete.Zones = []float64{111, 130, 148, 167, 185}
	example.Identity = IdentityConfig{Owner: "me"}
	example.Log.File = "fitdash.log"

	return Save(&example)
}

// Validate checks if the config values are consistent
func (c *Config) Validate() error {
	if n := len(c.Athlete.Zones); n != 0 && n != analysis.ZoneCount {
		return fmt.Errorf("athlete.zones must have %d bounds, got %d", analysis.ZoneCount, n)
	}
	if len(c.Athlete.Zones) == analysis.ZoneCount {
		if err := zonesOf(c.Athlete.Zones).Validate(); err != nil {
			return fmt.Errorf("athlete.zones: %w", err)
		}
	}

	// Validate threshold_hr < max_hr when both are set
	if c.Athlete.ThresholdHR > 0 && c.Athlete.MaxHR > 0 && c.Athlete.ThresholdHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.threshold_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.ThresholdHR, c.Athlete.MaxHR)
	}

	if c.Display.RollingWindow < 0 {
		return fmt.Errorf("display.rolling_window must not be negative, got %d", c.Display.RollingWindow)
	}
	if c.Display.HealthRollingWindow < 0 {
		return fmt.Errorf("display.health_rolling_window must not be negative, got %d", c.Display.HealthRollingWindow)
	}
	if c.Cache.SizeMB < 0 || c.Cache.TTLSeconds < 0 {
		return errors.New("cache.size_mb and cache.ttl_seconds must not be negative")
	}

	return nil
}

// ZoneBoundaries returns the configured zones: explicit bounds first, then
// bounds derived from threshold and max HR, then from max HR alone.
// Nil means no zones can be derived.
func (c *Config) ZoneBoundaries() (*analysis.ZoneBoundaries, error) {
	var zones analysis.ZoneBoundaries
	switch {
	case len(c.Athlete.Zones) == analysis.ZoneCount:
		zones = zonesOf(c.Athlete.Zones)
	case c.Athlete.ThresholdHR > 0 && c.Athlete.MaxHR > c.Athlete.ThresholdHR:
		zones = analysis.ZonesFromThreshold(c.Athlete.ThresholdHR, c.Athlete.MaxHR)
	case c.Athlete.MaxHR > 0:
		zones = analysis.ZonesFromMaxHR(c.Athlete.MaxHR)
	default:
		return nil, nil
	}
	if err := zones.Validate(); err != nil {
		return nil, err
	}
	return &zones, nil
}

func zonesOf(bounds []float64) analysis.ZoneBoundaries {
	var z analysis.ZoneBoundaries
	copy(z[:], bounds)
	return z
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory, FITDASH_DATA_DIR
// when set
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".fitdash"), nil
}
