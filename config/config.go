package config

import (
	"log"
	"time"

	"github.com/spf13/viper"

	"bookable/models"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration (slot reservations).
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisReservationDB int    `mapstructure:"REDIS_RESERVATION_DB"`

	// Scheduling configuration.
	Timezone               string `mapstructure:"TIMEZONE"`
	AdvanceBookingDays     int    `mapstructure:"ADVANCE_BOOKING_DAYS"`
	ProviderTimeoutSeconds int    `mapstructure:"PROVIDER_TIMEOUT_SECONDS"`
	ReservationTTLSeconds  int    `mapstructure:"RESERVATION_TTL_SECONDS"`
	StalePendingMaxAgeHrs  int    `mapstructure:"STALE_PENDING_MAX_AGE_HOURS"`

	// Booking constraints.
	SlotGranularityMinutes int      `mapstructure:"SLOT_GRANULARITY_MINUTES"`
	BufferBeforeMinutes    int      `mapstructure:"BUFFER_BEFORE_MINUTES"`
	BufferAfterMinutes     int      `mapstructure:"BUFFER_AFTER_MINUTES"`
	CustomSlotTimes        []string `mapstructure:"CUSTOM_SLOT_TIMES"`

	// Smart schedule toggles.
	SmartScheduleEnabled          bool   `mapstructure:"SMART_SCHEDULE_ENABLED"`
	SmartAllowSkipBreak           bool   `mapstructure:"SMART_ALLOW_SKIP_BREAK"`
	SmartAllowSmartSlotStarts     bool   `mapstructure:"SMART_ALLOW_SMART_SLOT_STARTS"`
	SmartPreferBackToBack         bool   `mapstructure:"SMART_PREFER_BACK_TO_BACK"`
	SmartLowerPriorityNoFollowing bool   `mapstructure:"SMART_LOWER_PRIORITY_IF_NO_FOLLOWING_BOOKING"`
	SmartFilterLowPrioritySlots   bool   `mapstructure:"SMART_FILTER_LOW_PRIORITY_SLOTS"`
	SmartMaximizeForOption        string `mapstructure:"SMART_MAXIMIZE_FOR_OPTION"`

	// External busy-time sources enabled at startup (calendar sync kinds).
	BusySources []string `mapstructure:"BUSY_SOURCES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "bookable")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_RESERVATION_DB", 0)
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("ADVANCE_BOOKING_DAYS", 14)
	viper.SetDefault("PROVIDER_TIMEOUT_SECONDS", 5)
	viper.SetDefault("RESERVATION_TTL_SECONDS", 30)
	viper.SetDefault("STALE_PENDING_MAX_AGE_HOURS", 48)
	viper.SetDefault("SLOT_GRANULARITY_MINUTES", 15)
	viper.SetDefault("BUFFER_BEFORE_MINUTES", 0)
	viper.SetDefault("BUFFER_AFTER_MINUTES", 0)
	viper.SetDefault("SMART_SCHEDULE_ENABLED", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// BookingConstraints assembles the booking constraints from configuration.
func (c Config) BookingConstraints() models.BookingConstraints {
	return models.BookingConstraints{
		SlotGranularityMinutes: c.SlotGranularityMinutes,
		BufferBeforeMinutes:    c.BufferBeforeMinutes,
		BufferAfterMinutes:     c.BufferAfterMinutes,
		CustomSlotTimes:        c.CustomSlotTimes,
		SmartSchedule: models.SmartScheduleOptions{
			Enabled:                           c.SmartScheduleEnabled,
			AllowSkipBreak:                    c.SmartAllowSkipBreak,
			AllowSmartSlotStarts:              c.SmartAllowSmartSlotStarts,
			PreferBackToBack:                  c.SmartPreferBackToBack,
			LowerPriorityIfNoFollowingBooking: c.SmartLowerPriorityNoFollowing,
			FilterLowPrioritySlots:            c.SmartFilterLowPrioritySlots,
			MaximizeForOption:                 c.SmartMaximizeForOption,
		},
	}
}

// Location resolves the configured time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("invalid TIMEZONE %q, falling back to UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

// ProviderTimeout returns the per-provider busy-time fetch timeout.
func (c Config) ProviderTimeout() time.Duration {
	if c.ProviderTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

// ReservationTTL returns how long a slot reservation is held around the
// validate-and-insert sequence.
func (c Config) ReservationTTL() time.Duration {
	if c.ReservationTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ReservationTTLSeconds) * time.Second
}
