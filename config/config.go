package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
	Ledger  LedgerConfig
	Metrics MetricsConfig
}

type AppConfig struct {
	Port     string
	Env      string
	Timezone string
	// CORSOrigins lists browser origins allowed to call the API; "*" allows any
	CORSOrigins []string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
	LogLevel     string
	AutoMigrate  bool
}

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BookingConfig controls how UHIDs are rendered.
type BookingConfig struct {
	UHIDPrefix string
	UHIDWidth  int
}

// Ledger strategies for the daily summary update.
const (
	LedgerStrategyUpsert  = "upsert"
	LedgerStrategyRowLock = "row_lock"
)

type LedgerConfig struct {
	Strategy         string
	MirrorTTLDays    int
	ResyncWindowDays int
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Running from env vars only is fine (containers, CI)
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	strategy := viper.GetString("LEDGER_STRATEGY")
	if strategy != LedgerStrategyUpsert && strategy != LedgerStrategyRowLock {
		strategy = LedgerStrategyUpsert
	}

	config := &Config{
		App: AppConfig{
			Port:        viper.GetString("APP_PORT"),
			Env:         viper.GetString("APP_ENV"),
			Timezone:    viper.GetString("APP_TIMEZONE"),
			CORSOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			Name:         viper.GetString("DB_NAME"),
			SSLMode:      viper.GetString("DB_SSLMODE"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			LogLevel:     viper.GetString("DB_LOG_LEVEL"),
			AutoMigrate:  viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:         viper.GetString("REDIS_HOST"),
			Port:         viper.GetString("REDIS_PORT"),
			Password:     viper.GetString("REDIS_PASSWORD"),
			DB:           viper.GetInt("REDIS_DB"),
			PoolSize:     viper.GetInt("REDIS_POOL_SIZE"),
			DialTimeout:  viper.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  viper.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: viper.GetDuration("REDIS_WRITE_TIMEOUT"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			Issuer:        viper.GetString("JWT_ISSUER"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Booking: BookingConfig{
			UHIDPrefix: viper.GetString("UHID_PREFIX"),
			UHIDWidth:  viper.GetInt("UHID_WIDTH"),
		},
		Ledger: LedgerConfig{
			Strategy:         strategy,
			MirrorTTLDays:    viper.GetInt("LEDGER_MIRROR_TTL_DAYS"),
			ResyncWindowDays: viper.GetInt("LEDGER_RESYNC_WINDOW_DAYS"),
		},
		Metrics: MetricsConfig{
			Enabled:   viper.GetBool("METRICS_ENABLED"),
			Namespace: viper.GetString("METRICS_NAMESPACE"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 20)
	viper.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	viper.SetDefault("REDIS_READ_TIMEOUT", "3s")
	viper.SetDefault("REDIS_WRITE_TIMEOUT", "3s")
	viper.SetDefault("JWT_ISSUER", "clinic-booking")
	viper.SetDefault("UHID_PREFIX", "MED")
	viper.SetDefault("UHID_WIDTH", 5)
	viper.SetDefault("LEDGER_STRATEGY", LedgerStrategyUpsert)
	viper.SetDefault("LEDGER_MIRROR_TTL_DAYS", 2)
	viper.SetDefault("LEDGER_RESYNC_WINDOW_DAYS", 1)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_NAMESPACE", "clinic")
}

// splitList reads a comma-separated setting, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Location resolves the configured clinic timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
