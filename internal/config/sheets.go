package config

import (
	"os"

	"github.com/Veraticus/weekly-budget/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig builds the Sheets sink configuration. Each credential is
// taken from the sheets.* key (config file or BUDGET_SHEETS_*) and falls back
// to the matching GOOGLE_SHEETS_* variable.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	credentials := []struct {
		target *string
		key    string
		env    string
	}{
		{&config.ServiceAccountPath, "sheets.service_account_path", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"},
		{&config.ClientID, "sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID"},
		{&config.ClientSecret, "sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET"},
		{&config.RefreshToken, "sheets.refresh_token", "GOOGLE_SHEETS_REFRESH_TOKEN"},
		{&config.SpreadsheetID, "sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID"},
	}
	for _, c := range credentials {
		if value := v.GetString(c.key); value != "" {
			*c.target = value
		} else if value := os.Getenv(c.env); value != "" {
			*c.target = value
		}
	}
	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)

	if name := v.GetString("sheets.spreadsheet_name"); name != "" {
		config.SpreadsheetName = name
	}
	if tz := v.GetString("sheets.timezone"); tz != "" {
		config.TimeZone = tz
	}
	if v.IsSet("sheets.formatting") {
		config.EnableFormatting = v.GetBool("sheets.formatting")
	}
	if v.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.batch_size") {
		config.BatchSize = v.GetInt("sheets.batch_size")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
