package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env         string   // application environment (e.g. "dev", "prod")
	Port        string   // HTTP port to listen on
	StoreDriver string   // "mysql" or "memory"
	DBUser      string   // database username
	DBPass      string   // database password (optional)
	DBHost      string   // database host address
	DBPort      string   // database port number
	DBName      string   // database name
	JWTSecret   string   // secret used to sign session tokens
	SessionTTL  int      // session lifetime in minutes
	BcryptCost  int      // bcrypt cost for password hashing
	PublicDir   string   // directory with the single-page frontend
	CORSOrigins []string // origins allowed to call the API with credentials

	AMQPURL            string // RabbitMQ URL; empty disables booking events
	BookingLogConsumer bool   // run the booking.log consumer in-process
	BookingLogDir      string // directory of booking.log
}

// MissingError lists the required variables that were unset.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing required env vars: " + strings.Join(e.Keys, ", ")
}

// Load reads configuration values from environment variables.  Every
// missing required variable is reported at once; malformed numbers are
// reported individually.
func Load() (Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:                getenv("APP_ENV", "dev"),
		Port:               getenv("APP_PORT", "3000"),
		StoreDriver:        strings.ToLower(getenv("STORE_DRIVER", DriverMySQL)),
		DBPass:             os.Getenv("DB_PASS"),
		JWTSecret:          must("JWT_SECRET"),
		PublicDir:          getenv("PUBLIC_DIR", "public"),
		CORSOrigins:        splitList(getenv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		AMQPURL:            os.Getenv("AMQP_URL"),
		BookingLogConsumer: envBool("BOOKING_LOG_CONSUMER", false),
		BookingLogDir:      getenv("BOOKING_LOG_DIR", "logs"),
	}

	switch cfg.StoreDriver {
	case DriverMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = getenv("DB_PORT", "3306")
		cfg.DBName = must("DB_NAME")
	case DriverMemory:
	default:
		return cfg, fmt.Errorf("invalid STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, DriverMySQL, DriverMemory)
	}
	if len(missing) > 0 {
		return cfg, &MissingError{Keys: missing}
	}

	var err error
	if cfg.SessionTTL, err = intVar("SESSION_TTL_MIN", 120); err != nil {
		return cfg, err
	}
	if cfg.BcryptCost, err = intVar("BCRYPT_COST", 12); err != nil {
		return cfg, err
	}
	if cfg.SessionTTL < 1 {
		return cfg, fmt.Errorf("SESSION_TTL_MIN must be positive, got %d", cfg.SessionTTL)
	}
	return cfg, nil
}

// DSN returns the go-sql-driver/mysql data source name for cfg.
// clientFoundRows makes UPDATE report matched rather than changed rows.
func (c Config) DSN() string {
	auth := c.DBUser
	if c.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, c.DBHost, c.DBPort, c.DBName)
}

// intVar parses an optional integer variable.
func intVar(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q", key, s)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
