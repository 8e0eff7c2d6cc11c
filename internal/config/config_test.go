package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fitdash/internal/analysis"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test athlete defaults
	if cfg.Athlete.RestingHR != 50 {
		t.Errorf("Athlete.RestingHR = %v, want 50", cfg.Athlete.RestingHR)
	}
	if cfg.Athlete.MaxHR != 185 {
		t.Errorf("Athlete.MaxHR = %v, want 185", cfg.Athlete.MaxHR)
	}
	if cfg.Athlete.ThresholdHR != 165 {
		t.Errorf("Athlete.ThresholdHR = %v, want 165", cfg.Athlete.ThresholdHR)
	}
	if len(cfg.Athlete.Zones) != 0 {
		t.Errorf("Athlete.Zones should be empty, got %v", cfg.Athlete.Zones)
	}

	if cfg.Display.RollingWindow != 7 {
		t.Errorf("Display.RollingWindow = %d, want 7", cfg.Display.RollingWindow)
	}
	if cfg.Display.HealthRollingWindow != 14 {
		t.Errorf("Display.HealthRollingWindow = %d, want 14", cfg.Display.HealthRollingWindow)
	}
	if cfg.Cache.SizeMB != 16 {
		t.Errorf("Cache.SizeMB = %d, want 16", cfg.Cache.SizeMB)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}

	// No identities by default, so no coach mode
	if cfg.Identity.Owner != "" || cfg.Identity.Viewer != "" {
		t.Errorf("Identity should be empty, got %+v", cfg.Identity)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errContains string
	}{
		{
			name:        "valid default config",
			config:      DefaultConfig(),
			expectError: false,
		},
		{
			name: "valid explicit zones",
			config: Config{
				Athlete: AthleteConfig{Zones: []float64{120, 140, 160, 180, 200}},
			},
			expectError: false,
		},
		{
			name: "wrong zone count",
			config: Config{
				Athlete: AthleteConfig{Zones: []float64{120, 140, 160}},
			},
			expectError: true,
			errContains: "5 bounds",
		},
		{
			name: "zones not ascending",
			config: Config{
				Athlete: AthleteConfig{Zones: []float64{120, 160, 140, 180, 200}},
			},
			expectError: true,
			errContains: "ascending",
		},
		{
			name: "threshold above max",
			config: Config{
				Athlete: AthleteConfig{MaxHR: 180, ThresholdHR: 185},
			},
			expectError: true,
			errContains: "threshold_hr",
		},
		{
			name: "negative rolling window",
			config: Config{
				Display: DisplayConfig{RollingWindow: -1},
			},
			expectError: true,
			errContains: "rolling_window",
		},
		{
			name: "negative health rolling window",
			config: Config{
				Display: DisplayConfig{HealthRollingWindow: -3},
			},
			expectError: true,
			errContains: "health_rolling_window",
		},
		{
			name: "negative cache size",
			config: Config{
				Cache: CacheConfig{SizeMB: -5},
			},
			expectError: true,
			errContains: "cache",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestZoneBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		athlete AthleteConfig
		want    *analysis.ZoneBoundaries
	}{
		{
			name:    "explicit zones win",
			athlete: AthleteConfig{MaxHR: 190, ThresholdHR: 170, Zones: []float64{120, 140, 160, 180, 200}},
			want:    &analysis.ZoneBoundaries{120, 140, 160, 180, 200},
		},
		{
			name:    "threshold based",
			athlete: AthleteConfig{MaxHR: 185, ThresholdHR: 165},
			want:    &analysis.ZoneBoundaries{124, 140, 157, 165, 185},
		},
		{
			name:    "max HR only",
			athlete: AthleteConfig{MaxHR: 185},
			want:    &analysis.ZoneBoundaries{111, 130, 148, 167, 185},
		},
		{
			name:    "nothing configured",
			athlete: AthleteConfig{},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Athlete: tt.athlete}
			got, err := cfg.ZoneBoundaries()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ZoneBoundaries() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ZoneBoundaries() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestZoneBoundaries_Invalid(t *testing.T) {
	cfg := Config{Athlete: AthleteConfig{Zones: []float64{200, 180, 160, 140, 120}}}
	if _, err := cfg.ZoneBoundaries(); !errors.Is(err, analysis.ErrZonesNotAscending) {
		t.Errorf("expected ErrZonesNotAscending, got %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	if _, err := Load(); !errors.Is(err, ErrNoConfig) {
		t.Fatalf("Load() on empty dir = %v, want ErrNoConfig", err)
	}

	cfg := Config{
		Athlete:  AthleteConfig{MaxHR: 192},
		Identity: IdentityConfig{Owner: "alice", Viewer: "coach"},
	}
	if err := Save(&cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Athlete.MaxHR != 192 {
		t.Errorf("Athlete.MaxHR = %v, want 192", loaded.Athlete.MaxHR)
	}
	// missing values get defaults
	if loaded.Athlete.ThresholdHR != 165 {
		t.Errorf("Athlete.ThresholdHR = %v, want default 165", loaded.Athlete.ThresholdHR)
	}
	if loaded.Identity.Viewer != "coach" {
		t.Errorf("Identity.Viewer = %q, want %q", loaded.Identity.Viewer, "coach")
	}
}

func TestCreateExampleDoesNotOverwrite(t *testing.T) {
	t.Setenv(EnvDataDir, t.TempDir())

	if err := CreateExample(); err != nil {
		t.Fatalf("CreateExample() error: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config should be valid: %v", err)
	}

	cfg.Athlete.MaxHR = 199
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	if err := CreateExample(); err != nil {
		t.Fatal(err)
	}
	again, _ := Load()
	if again.Athlete.MaxHR != 199 {
		t.Errorf("CreateExample overwrote existing config")
	}
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "FITDASH_OWNER= alice \nFITDASH_VIEWER=coach\nFITDASH_MAX_HR=191\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	// register cleanup for the variables godotenv will set
	t.Setenv(EnvOwner, "")
	t.Setenv(EnvViewer, "")
	t.Setenv(EnvMaxHR, "")
	os.Unsetenv(EnvOwner)
	os.Unsetenv(EnvViewer)
	os.Unsetenv(EnvMaxHR)

	if err := LoadEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv() error: %v", err)
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Identity.Owner != "alice" {
		t.Errorf("Identity.Owner = %q, want %q", cfg.Identity.Owner, "alice")
	}
	if cfg.Identity.Viewer != "coach" {
		t.Errorf("Identity.Viewer = %q, want %q", cfg.Identity.Viewer, "coach")
	}
	if cfg.Athlete.MaxHR != 191 {
		t.Errorf("Athlete.MaxHR = %v, want 191", cfg.Athlete.MaxHR)
	}
}

func TestApplyEnv_BadMaxHR(t *testing.T) {
	t.Setenv(EnvMaxHR, "fast")
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric max HR")
	}
}
