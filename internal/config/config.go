package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // weekly windows must resolve Asia/Tokyo without a system zoneinfo

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// DefaultTimeZone is the zone weekly windows are computed in.
const DefaultTimeZone = "Asia/Tokyo"

// ProjectFile is the per-directory config file name.
const ProjectFile = ".nikki.yaml"

// Config is the merged nikki configuration. Command-line flags override it.
type Config struct {
	Source    string        `yaml:"source"`
	OutDir    string        `yaml:"out_dir"`
	TimeZone  string        `yaml:"timezone"`
	SkipNashi bool          `yaml:"skip_nashi"`
	Toggl     TogglConfig   `yaml:"toggl"`
	Reports   ReportsConfig `yaml:"reports"`
}

// TogglConfig locates the Toggl Detailed CSV export.
// CSV names one file; Dir picks the newest *.csv inside it. CSV wins when both are set.
type TogglConfig struct {
	CSV string `yaml:"csv"`
	Dir string `yaml:"dir"`
}

// ReportsConfig holds the output file names, relative to OutDir unless absolute.
type ReportsConfig struct {
	Ideas  string `yaml:"ideas"`
	Meals  string `yaml:"meals"`
	Bundle string `yaml:"bundle"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutDir:   ".",
		TimeZone: DefaultTimeZone,
		Reports: ReportsConfig{
			Ideas:  "ideas.md",
			Meals:  "meals.md",
			Bundle: "bundle.md",
		},
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.TimeZone, validation.Required, validation.By(loadableZone)),
		validation.Field(&c.OutDir, validation.Required),
	); err != nil {
		return err
	}
	return c.Reports.Validate()
}

// Validate checks that every report has a file name.
func (r *ReportsConfig) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ideas, validation.Required),
		validation.Field(&r.Meals, validation.Required),
		validation.Field(&r.Bundle, validation.Required),
	)
}

func loadableZone(value any) error {
	name, _ := value.(string)
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown time zone %q", name)
	}
	return nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// ReportPath resolves a report file name against OutDir.
func (c *Config) ReportPath(name string) string {
	if filepath.IsAbs(name) || c.OutDir == "" {
		return name
	}
	return filepath.Join(c.OutDir, name)
}

// Load merges configuration in increasing priority:
//  1. built-in defaults
//  2. <config dir>/config.yaml
//  3. ./.nikki.yaml
//  4. explicit (when non-empty; it must exist)
//  5. NIKKI_SRC, NIKKI_OUT_DIR, NIKKI_TZ, NIKKI_TOGGL_DIR
//
// It returns the files that were actually read, in order.
func Load(explicit string) (*Config, []string, error) {
	cfg := Default()
	var loaded []string

	for _, path := range []string{GlobalFile(), ProjectFile} {
		if path == "" {
			continue
		}
		ok, err := loadFile(path, cfg)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			loaded = append(loaded, path)
		}
	}

	if explicit != "" {
		ok, err := loadFile(explicit, cfg)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, fmt.Errorf("config file not found: %s", explicit)
		}
		loaded = append(loaded, explicit)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, loaded, nil
}

// loadFile decodes path onto cfg after environment expansion.
// Fields absent from the file keep their current values.
func loadFile(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return false, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return true, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NIKKI_SRC"); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv("NIKKI_OUT_DIR"); v != "" {
		cfg.OutDir = v
	}
	if v := os.Getenv("NIKKI_TZ"); v != "" {
		cfg.TimeZone = v
	}
	if v := os.Getenv("NIKKI_TOGGL_DIR"); v != "" {
		cfg.Toggl.Dir = v
	}
}
