package config

import (
	"fmt"
	"time"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath            = "database.path"
	KeySpace                   = "space"
	KeyLookbackDays            = "detection.lookback_days"
	KeySavingsWarningThreshold = "subscriptions.savings_warning_threshold"
	KeyUpcomingDays            = "subscriptions.upcoming_days"
	KeyLogLevel                = "logging.level"
	KeyLogFormat               = "logging.format"
)

// Config holds the resolved application settings.
type Config struct {
	DatabasePath            string
	Space                   string
	LogLevel                string
	LogFormat               string
	SavingsWarningThreshold float64
	LookbackDays            int
	UpcomingDays            int
}

// UpcomingHorizon returns the default window for upcoming renewals.
func (c Config) UpcomingHorizon() time.Duration {
	return time.Duration(c.UpcomingDays) * 24 * time.Hour
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, "$HOME/.local/share/recur/recur.db")
	v.SetDefault(KeySpace, "default")
	v.SetDefault(KeyLookbackDays, 365)
	v.SetDefault(KeySavingsWarningThreshold, 100.0)
	v.SetDefault(KeyUpcomingDays, 7)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// LoadEnvFile loads variables from a .env file if one exists. A missing file
// is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(ExpandPath(path)); err != nil && !isNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// FromViper resolves and validates the configuration held by v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		DatabasePath:            ExpandPath(v.GetString(KeyDatabasePath)),
		Space:                   v.GetString(KeySpace),
		LogLevel:                v.GetString(KeyLogLevel),
		LogFormat:               v.GetString(KeyLogFormat),
		SavingsWarningThreshold: v.GetFloat64(KeySavingsWarningThreshold),
		LookbackDays:            v.GetInt(KeyLookbackDays),
		UpcomingDays:            v.GetInt(KeyUpcomingDays),
	}

	if cfg.DatabasePath == "" {
		return Config{}, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if cfg.Space == "" {
		return Config{}, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeySpace)
	}
	if cfg.LookbackDays <= 0 {
		return Config{}, fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidConfig, KeyLookbackDays, cfg.LookbackDays)
	}
	if cfg.UpcomingDays <= 0 {
		return Config{}, fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidConfig, KeyUpcomingDays, cfg.UpcomingDays)
	}
	if cfg.SavingsWarningThreshold < 0 {
		return Config{}, fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeySavingsWarningThreshold)
	}

	return cfg, nil
}
