package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danielpatrickdp/sustainability-index/internal/logging"
	"github.com/danielpatrickdp/sustainability-index/internal/pillar"
	"github.com/danielpatrickdp/sustainability-index/internal/reference"
)

// Environment variables that override file values.
const (
	EnvConfig   = "SUSTAIN_CONFIG"
	EnvDB       = "SUSTAIN_DB"
	EnvAddr     = "SUSTAIN_ADDR"
	EnvLogLevel = "SUSTAIN_LOG_LEVEL"
)

// #region types
// Config is the process configuration loaded from a TOML file.
type Config struct {
	Database    Database    `toml:"database"`
	Server      Server      `toml:"server"`
	Log         Log         `toml:"log"`
	Batch       Batch       `toml:"batch"`
	Reference   Reference   `toml:"reference"`
	Calibration Calibration `toml:"calibration"`
	Scoring     Scoring     `toml:"scoring"`
}

// Database locates the SQLite file.
type Database struct {
	Path string `toml:"path"`
}

// Server is the gRPC listen address.
type Server struct {
	Addr string `toml:"addr"`
}

// Log selects the slog level and handler format.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Batch bounds concurrent assessments.
type Batch struct {
	Workers int `toml:"workers"`
}

// Reference points at an optional YAML region table. Empty uses the
// built-in table.
type Reference struct {
	Path string `toml:"path"`
}

// Calibration overrides the rescale constants per pipeline.
type Calibration struct {
	Social         pillar.Calibration `toml:"social"`
	Economic       pillar.Calibration `toml:"economic"`
	Environmental  pillar.Calibration `toml:"environmental"`
	Sustainability pillar.Calibration `toml:"sustainability"`
}

// Scoring holds the veto and conservation-routing switches.
type Scoring struct {
	Veto                             pillar.VetoConfig `toml:"veto"`
	RouteConservationToEnvironmental bool              `toml:"route_conservation_to_environmental"`
}

// #endregion types

// #region defaults
// Default returns a configuration that works without any file.
func Default() Config {
	sc := pillar.DefaultScorerConfig()
	opts := logging.DefaultOptions()
	return Config{
		Database: Database{Path: "sustainability.db"},
		Server:   Server{Addr: "localhost:50061"},
		Log:      Log{Level: opts.Level, Format: opts.Format},
		Batch:    Batch{Workers: runtime.GOMAXPROCS(0)},
		Calibration: Calibration{
			Social:         sc.Social,
			Economic:       sc.Economic,
			Environmental:  sc.Environmental,
			Sustainability: sc.Sustainability,
		},
		Scoring: Scoring{Veto: sc.Veto},
	}
}

// #endregion defaults

// #region load
// Load overlays the TOML file at path onto Default, then applies
// environment overrides and validates. An empty path falls back to
// SUSTAIN_CONFIG; if that is also empty no file is read.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// #endregion load

// #region validate
// Validate rejects configurations the scorer or logger would refuse.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("config: database.path is empty")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("config: server.addr is empty")
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("config: batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	if _, err := logging.New(c.LogOptions(), nil); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.ScorerConfig().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// #endregion validate

// #region accessors
// ScorerConfig converts the calibration and scoring sections.
func (c Config) ScorerConfig() pillar.ScorerConfig {
	return pillar.ScorerConfig{
		Social:                           c.Calibration.Social,
		Economic:                         c.Calibration.Economic,
		Environmental:                    c.Calibration.Environmental,
		Sustainability:                   c.Calibration.Sustainability,
		Veto:                             c.Scoring.Veto,
		RouteConservationToEnvironmental: c.Scoring.RouteConservationToEnvironmental,
	}
}

// LogOptions converts the log section.
func (c Config) LogOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format}
}

// ReferenceTable returns the configured region table.
func (c Config) ReferenceTable() (reference.Table, error) {
	if c.Reference.Path == "" {
		return reference.Default(), nil
	}
	return reference.Load(c.Reference.Path)
}

// #endregion accessors
