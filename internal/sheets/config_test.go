package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	serviceAccount := func(mutate func(*Config)) Config {
		config := DefaultConfig()
		config.ServiceAccountPath = "/path/to/key.json"
		if mutate != nil {
			mutate(&config)
		}
		return config
	}
	oauth := func(mutate func(*Config)) Config {
		config := DefaultConfig()
		config.ClientID = "id"
		config.ClientSecret = "secret"
		config.RefreshToken = "token"
		if mutate != nil {
			mutate(&config)
		}
		return config
	}

	tests := []struct {
		name    string
		config  Config
		wantErr error
		errMsg  string
	}{
		{name: "service account", config: serviceAccount(nil)},
		{name: "oauth", config: oauth(nil)},
		{name: "no retries or delay", config: serviceAccount(func(c *Config) { c.RetryAttempts, c.RetryDelay = 0, 0 })},
		{name: "defaults have no credentials", config: DefaultConfig(), wantErr: ErrNoAuth},
		{name: "partial oauth", config: oauth(func(c *Config) { c.ClientSecret = "" }), wantErr: ErrNoAuth},
		{name: "both methods", config: oauth(func(c *Config) { c.ServiceAccountPath = "/key.json" }), wantErr: ErrAuthConflict},
		{name: "no spreadsheet", config: serviceAccount(func(c *Config) { c.SpreadsheetName = "" }), wantErr: ErrNoTarget},
		{name: "zero batch", config: serviceAccount(func(c *Config) { c.BatchSize = 0 }), errMsg: "batch size must be positive"},
		{name: "negative retries", config: serviceAccount(func(c *Config) { c.RetryAttempts = -1 }), errMsg: "retry attempts cannot be negative"},
		{name: "negative delay", config: serviceAccount(func(c *Config) { c.RetryDelay = -time.Second }), errMsg: "retry delay cannot be negative"},
		{name: "unknown time zone", config: serviceAccount(func(c *Config) { c.TimeZone = "Mars/Olympus" }), errMsg: "invalid time zone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.ErrorContains(t, err, tt.errMsg)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, DefaultSpreadsheetName, config.SpreadsheetName)
	assert.Equal(t, "UTC", config.TimeZone)
	assert.True(t, config.EnableFormatting)
	assert.Equal(t, 1000, config.BatchSize)
	assert.Equal(t, 3, config.RetryAttempts)
	assert.Equal(t, time.Second, config.RetryDelay)
}
