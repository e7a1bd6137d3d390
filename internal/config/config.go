package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tlms/telemetry/internal/pkg/validator"
)

// Distance formulas accepted by LOCATIONS_DISTANCE_FORMULA.
const (
	DistanceFormulaLegacy    = "legacy"
	DistanceFormulaHaversine = "haversine"
)

// Missing timestamp policies accepted by TRACK_MISSING_TIMESTAMP_POLICY.
const (
	MissingTimestampStop = "stop"
	MissingTimestampSkip = "skip"
)

// Region cache backends accepted by REGION_CACHE_BACKEND.
const (
	RegionCacheBackendFile  = "file"
	RegionCacheBackendRedis = "redis"
)

type Config struct {
	Service     string
	Database    DatabaseConfig
	Redis       RedisConfig
	Log         LogConfig
	Datacare    DatacareConfig
	RegionCache RegionCacheConfig
	Locations   LocationsConfig
	Track       TrackConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int `validate:"gte=0"`
	MaxIdleConns    int `validate:"gte=0"`
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN returns the key/value connection string understood by pgx and lib/pq.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Enabled reports whether a database host was configured at all.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int `validate:"gte=0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LogConfig struct {
	Level  string
	Format string `validate:"omitempty,oneof=json console"`
}

type DatacareConfig struct {
	BaseURL        string        `validate:"omitempty,url"`
	RequestTimeout time.Duration `validate:"gte=0"`
}

type RegionCacheConfig struct {
	Dir        string        `validate:"required"`
	Expiration time.Duration `validate:"gt=0"`
	Backend    string        `validate:"oneof=file redis"`
}

type LocationsConfig struct {
	File             string
	IncomingFile     string
	SanityDistance   float64 `validate:"finite,gt=0"`
	DistanceFormula  string  `validate:"oneof=legacy haversine"`
	ProjectOnSave    bool
	Generator        string
	GeneratorVersion string
}

type TrackConfig struct {
	File                   string
	RunID                  string `validate:"omitempty,uuid"`
	MissingTimestampPolicy string `validate:"oneof=stop skip"`
}

// Load reads configuration from the optional env-style file at path and the process
// environment. A missing file is not an error; environment variables and defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var pathErr *fs.PathError
			if !errors.As(err, &pathErr) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Service: v.GetString("SERVICE_NAME"),
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Datacare: DatacareConfig{
			BaseURL:        strings.TrimRight(v.GetString("DATACARE_API_URL"), "/"),
			RequestTimeout: time.Duration(v.GetInt("DATACARE_REQUEST_TIMEOUT")) * time.Second,
		},
		RegionCache: RegionCacheConfig{
			Dir:        v.GetString("REGION_CACHE_DIR"),
			Expiration: time.Duration(v.GetInt("REGION_CACHE_EXPIRATION")) * time.Second,
			Backend:    strings.ToLower(v.GetString("REGION_CACHE_BACKEND")),
		},
		Locations: LocationsConfig{
			File:             v.GetString("LOCATIONS_FILE"),
			IncomingFile:     v.GetString("LOCATIONS_INCOMING_FILE"),
			SanityDistance:   v.GetFloat64("LOCATIONS_SANITY_DISTANCE"),
			DistanceFormula:  strings.ToLower(v.GetString("LOCATIONS_DISTANCE_FORMULA")),
			ProjectOnSave:    v.GetBool("LOCATIONS_PROJECT_ON_SAVE"),
			Generator:        v.GetString("LOCATIONS_GENERATOR"),
			GeneratorVersion: v.GetString("LOCATIONS_GENERATOR_VERSION"),
		},
		Track: TrackConfig{
			File:                   v.GetString("TRACK_FILE"),
			RunID:                  v.GetString("TRACK_RUN_ID"),
			MissingTimestampPolicy: strings.ToLower(v.GetString("TRACK_MISSING_TIMESTAMP_POLICY")),
		},
	}

	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "tlms-locations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("DATACARE_API_URL", "https://datacare.dvb.solutions")
	v.SetDefault("DATACARE_REQUEST_TIMEOUT", 30)
	v.SetDefault("REGION_CACHE_DIR", "/var/cache/tlms")
	v.SetDefault("REGION_CACHE_EXPIRATION", 24*60*60)
	v.SetDefault("REGION_CACHE_BACKEND", RegionCacheBackendFile)
	v.SetDefault("LOCATIONS_SANITY_DISTANCE", 50)
	v.SetDefault("LOCATIONS_DISTANCE_FORMULA", DistanceFormulaLegacy)
	v.SetDefault("LOCATIONS_GENERATOR", "tlms-locations")
	v.SetDefault("TRACK_MISSING_TIMESTAMP_POLICY", MissingTimestampStop)
}

func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

func (c *Config) GetRedisAddr() string {
	return c.Redis.Addr()
}
