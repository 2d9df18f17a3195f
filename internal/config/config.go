package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppEnv  string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs         int
	SettingsCacheTTLSecs int
	OverdueSweepSecs     int
	NotifierPoolSize     int
	RequestTimeoutSecs   int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment. A .env file in the working directory, if
// present, fills variables that are not already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		AppEnv:    getenv("APP_ENV", "production"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "prestamos"),
		MySQLUser: getenv("MYSQL_USER", "prestamos"),
		MySQLPass: getenv("MYSQL_PASS", "prestamos"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs:         getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		SettingsCacheTTLSecs: getenvInt("SETTINGS_CACHE_TTL_SECONDS", 60),
		OverdueSweepSecs:     getenvInt("OVERDUE_SWEEP_INTERVAL_SECONDS", 3600),
		NotifierPoolSize:     getenvInt("NOTIFIER_POOL_SIZE", 16),
		RequestTimeoutSecs:   getenvInt("REQUEST_TIMEOUT_SECONDS", 15),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR")
	}
	if c.NotifierPoolSize <= 0 {
		return fmt.Errorf("NOTIFIER_POOL_SIZE must be positive, got %d", c.NotifierPoolSize)
	}
	if c.OverdueSweepSecs < 0 {
		return fmt.Errorf("OVERDUE_SWEEP_INTERVAL_SECONDS must not be negative, got %d", c.OverdueSweepSecs)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATE/DATETIME; loc=UTC keeps due dates stable
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) SettingsCacheTTL() time.Duration {
	return time.Duration(c.SettingsCacheTTLSecs) * time.Second
}

// OverdueSweepInterval is zero when the periodic job is disabled.
func (c *Config) OverdueSweepInterval() time.Duration {
	return time.Duration(c.OverdueSweepSecs) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}
