package config

import (
	"errors"
	"time"
)

// ErrMissingJWTSecret is returned when no signing secret is configured.
// There is deliberately no built-in default.
var ErrMissingJWTSecret = errors.New("jwt_secret is required (set SCRABLESS_JWT_SECRET or the jwt_secret config key)")

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	AllowedOrigin     string        `mapstructure:"allowed_origin" yaml:"allowed_origin"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"jwt_secret,omitempty"`
	TokenTTL          time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
	RoomMaxAge        time.Duration `mapstructure:"room_max_age" yaml:"room_max_age"`
	PushRetryAttempts int           `mapstructure:"push_retry_attempts" yaml:"push_retry_attempts"`
	PushRetryInterval time.Duration `mapstructure:"push_retry_interval" yaml:"push_retry_interval"`
	CreateRoomPerMin  int           `mapstructure:"create_room_per_min" yaml:"create_room_per_min"`
}

// Default returns configuration with reasonable starter defaults.
// JWTSecret is intentionally left empty; Validate rejects it.
func Default() Config {
	return Config{
		Addr:              ":3000",
		AllowedOrigin:     "http://localhost:5173",
		LogLevel:          "info",
		TokenTTL:          7 * 24 * time.Hour,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		CleanupInterval:   5 * time.Minute,
		RoomMaxAge:        30 * time.Minute,
		PushRetryAttempts: 20,
		PushRetryInterval: 100 * time.Millisecond,
		CreateRoomPerMin:  0, // disabled
	}
}

// Validate checks settings that have no safe fallback.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.AllowedOrigin != "" {
		c.AllowedOrigin = other.AllowedOrigin
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.JWTSecret != "" {
		c.JWTSecret = other.JWTSecret
	}
	if other.TokenTTL != 0 {
		c.TokenTTL = other.TokenTTL
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.CleanupInterval != 0 {
		c.CleanupInterval = other.CleanupInterval
	}
	if other.RoomMaxAge != 0 {
		c.RoomMaxAge = other.RoomMaxAge
	}
	if other.PushRetryAttempts != 0 {
		c.PushRetryAttempts = other.PushRetryAttempts
	}
	if other.PushRetryInterval != 0 {
		c.PushRetryInterval = other.PushRetryInterval
	}
	if other.CreateRoomPerMin != 0 {
		c.CreateRoomPerMin = other.CreateRoomPerMin
	}
}
