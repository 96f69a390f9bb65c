package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, cache sizing, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	CORS   CORSConfig
	Log    LogConfig
	JWT    JWTConfig
	Cookie CookieConfig
	Cache  CacheConfig
	Mail   MailConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

type CacheConfig struct {
	Capacity      int           `envconfig:"CACHE_CAPACITY" default:"1000"`
	SweepInterval time.Duration `envconfig:"CACHE_SWEEP_INTERVAL" default:"5m"`
	ListingTTL    time.Duration `envconfig:"CACHE_LISTING_TTL" default:"5m"`
	BookingTTL    time.Duration `envconfig:"CACHE_BOOKING_TTL" default:"1m"`
	DashboardTTL  time.Duration `envconfig:"CACHE_DASHBOARD_TTL" default:"2m"`
}

type MailConfig struct {
	FromAddress   string        `envconfig:"MAIL_FROM_ADDRESS" default:"no-reply@rentyard.local"`
	SendTimeout   time.Duration `envconfig:"MAIL_SEND_TIMEOUT" default:"10s"`
	MaxAttempts   int           `envconfig:"MAIL_MAX_ATTEMPTS" default:"3"`
	BackoffBase   time.Duration `envconfig:"MAIL_BACKOFF_BASE" default:"500ms"`
	OTPLifetime   time.Duration `envconfig:"MAIL_OTP_LIFETIME" default:"10m"`
	ResetLifetime time.Duration `envconfig:"MAIL_RESET_LIFETIME" default:"1h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Cache: CacheConfig{
			Capacity:      100,
			SweepInterval: time.Minute,
			ListingTTL:    time.Minute,
			BookingTTL:    time.Minute,
			DashboardTTL:  time.Minute,
		},
		Mail: MailConfig{
			FromAddress: "no-reply@test.local",
			SendTimeout: time.Second,
			MaxAttempts: 1,
			BackoffBase: time.Millisecond,
			OTPLifetime: 10 * time.Minute,
		},
	}
}
