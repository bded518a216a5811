package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/Veraticus/weekly-budget/internal/budget"
	"github.com/Veraticus/weekly-budget/internal/common"
	"github.com/Veraticus/weekly-budget/internal/engine"
	"github.com/Veraticus/weekly-budget/internal/model"
	"github.com/Veraticus/weekly-budget/internal/sheets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BUDGET_OUTPUT_DIR.
const EnvPrefix = "BUDGET"

// Config is the resolved configuration of a budget run.
type Config struct {
	Sheets        *sheets.Config
	Currency      model.CurrencyFormat
	InputDir      string
	InputFilename string
	DateFormat    string
	OutputDir     string
	RentCategory  string
	ArchivePath   string
	LogLevel      string
	LogFormat     string
	Concurrency   int
	WeekStart     time.Weekday
	PartialWeeks  budget.PartialWeeks
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.dir", ".")
	v.SetDefault("input.filename", "")
	v.SetDefault("input.date_format", model.DefaultDateLayout)
	v.SetDefault("output.dir", "./reports")
	v.SetDefault("week.start", "monday")
	v.SetDefault("week.partial", budget.PartialWeeksDrop.String())
	v.SetDefault("report.rent_category", budget.DefaultRentCategory)
	v.SetDefault("currency.symbol", "$")
	v.SetDefault("currency.locale", "en-US")
	v.SetDefault("engine.concurrency", 4)
	v.SetDefault("archive.path", "")
	v.SetDefault("sheets.enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load resolves and validates the configuration held by v. Paths are
// expanded; a Sheets configuration is only loaded when sheets.enabled is set.
func Load(v *viper.Viper) (*Config, error) {
	weekStart, err := budget.ParseWeekday(v.GetString("week.start"))
	if err != nil {
		return nil, fmt.Errorf("%w: week.start: %w", common.ErrInvalidConfig, err)
	}

	partial, err := budget.ParsePartialWeeks(v.GetString("week.partial"))
	if err != nil {
		return nil, fmt.Errorf("%w: week.partial: %w", common.ErrInvalidConfig, err)
	}

	currency, err := model.NewCurrencyFormat(v.GetString("currency.symbol"), v.GetString("currency.locale"))
	if err != nil {
		return nil, fmt.Errorf("%w: currency: %w", common.ErrInvalidConfig, err)
	}

	cfg := &Config{
		InputDir:      ExpandPath(v.GetString("input.dir")),
		InputFilename: v.GetString("input.filename"),
		DateFormat:    v.GetString("input.date_format"),
		OutputDir:     ExpandPath(v.GetString("output.dir")),
		RentCategory:  v.GetString("report.rent_category"),
		ArchivePath:   ExpandPath(v.GetString("archive.path")),
		LogLevel:      v.GetString("logging.level"),
		LogFormat:     v.GetString("logging.format"),
		Concurrency:   v.GetInt("engine.concurrency"),
		WeekStart:     weekStart,
		PartialWeeks:  partial,
		Currency:      currency,
	}

	if v.GetBool("sheets.enabled") {
		sheetsCfg, err := LoadSheetsConfig(v)
		if err != nil {
			return nil, fmt.Errorf("%w: sheets: %w", common.ErrInvalidConfig, err)
		}
		cfg.Sheets = sheetsCfg
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be caught while parsing.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output.dir is required", common.ErrMissingConfig)
	}
	if c.DateFormat == "" {
		return fmt.Errorf("%w: input.date_format is required", common.ErrMissingConfig)
	}
	if c.RentCategory == "" {
		return fmt.Errorf("%w: report.rent_category is required", common.ErrMissingConfig)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w: engine.concurrency must be positive, got %d", common.ErrInvalidConfig, c.Concurrency)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: logging.level: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

// DefaultInput returns input.dir joined with input.filename, or "" when no
// filename is configured.
func (c *Config) DefaultInput() string {
	if c.InputFilename == "" {
		return ""
	}
	return filepath.Join(c.InputDir, c.InputFilename)
}

// EngineOptions translates the configuration into engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Window: budget.WindowOptions{
			WeekStart:    c.WeekStart,
			PartialWeeks: c.PartialWeeks,
		},
		Report: budget.ReportOptions{
			Currency:     c.Currency,
			DateLayout:   c.DateFormat,
			RentCategory: c.RentCategory,
		},
		DateLayout:  c.DateFormat,
		Concurrency: c.Concurrency,
	}
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
