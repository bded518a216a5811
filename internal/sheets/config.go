// Package sheets writes weekly budget reports to Google Sheets, one tab per week.
package sheets

import (
	"errors"
	"fmt"
	"time"
)

// DefaultSpreadsheetName titles a spreadsheet created on first write.
const DefaultSpreadsheetName = "Weekly Budget"

var (
	// ErrNoAuth means neither a service account nor complete OAuth2 credentials are set.
	ErrNoAuth = errors.New("no authentication method configured")
	// ErrAuthConflict means both a service account and OAuth2 credentials are set.
	ErrAuthConflict = errors.New("multiple authentication methods configured; use either OAuth2 or service account")
	// ErrNoTarget means neither a spreadsheet ID nor a name to create one with is set.
	ErrNoTarget = errors.New("either spreadsheet ID or spreadsheet name is required")
)

// Config holds the credentials and write settings of the Sheets sink.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a formatted, UTC spreadsheet written in batches of
// 1000 rows with three attempts per call.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		EnableFormatting: true,
		TimeZone:         "UTC",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

func (c *Config) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Validate checks the configuration before any API call is made.
func (c *Config) Validate() error {
	switch {
	case !c.hasOAuth() && c.ServiceAccountPath == "":
		return ErrNoAuth
	case c.hasOAuth() && c.ServiceAccountPath != "":
		return ErrAuthConflict
	case c.SpreadsheetID == "" && c.SpreadsheetName == "":
		return ErrNoTarget
	case c.BatchSize <= 0:
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	case c.RetryAttempts < 0:
		return fmt.Errorf("retry attempts cannot be negative, got %d", c.RetryAttempts)
	case c.RetryDelay < 0:
		return fmt.Errorf("retry delay cannot be negative, got %s", c.RetryDelay)
	}

	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
		}
	}
	return nil
}
