package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "APP_PORT", "STORE_DRIVER", "DB_USER", "DB_PASS", "DB_HOST", "DB_PORT", "DB_NAME",
		"JWT_SECRET", "SESSION_TTL_MIN", "BCRYPT_COST", "PUBLIC_DIR", "CORS_ALLOW_ORIGINS",
		"AMQP_URL", "BOOKING_LOG_CONSUMER", "BOOKING_LOG_DIR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadMySQL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_USER", "hotel")
	t.Setenv("DB_PASS", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "hotel")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("BOOKING_LOG_CONSUMER", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" || cfg.Env != "dev" || cfg.DBPort != "3306" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.SessionTTL != 120 || cfg.BcryptCost != 12 {
		t.Fatalf("numeric defaults: ttl=%d cost=%d", cfg.SessionTTL, cfg.BcryptCost)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("origins = %v", cfg.CORSOrigins)
	}
	if !cfg.BookingLogConsumer {
		t.Fatal("consumer flag not parsed")
	}
	want := "hotel:pw@tcp(db:3306)/hotel?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true"
	if cfg.DSN() != want {
		t.Fatalf("DSN = %s", cfg.DSN())
	}
}

func TestLoadReportsAllMissing(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	var me *MissingError
	if !errors.As(err, &me) {
		t.Fatalf("want MissingError, got %v", err)
	}
	got := strings.Join(me.Keys, ",")
	if got != "JWT_SECRET,DB_USER,DB_HOST,DB_NAME" {
		t.Fatalf("missing = %s", got)
	}
}

func TestLoadMemoryNeedsNoDatabase(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != DriverMemory {
		t.Fatalf("driver = %s", cfg.StoreDriver)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}, "invalid STORE_DRIVER"},
		{"bad ttl", map[string]string{"SESSION_TTL_MIN": "soon"}, "SESSION_TTL_MIN"},
		{"zero ttl", map[string]string{"SESSION_TTL_MIN": "0"}, "must be positive"},
		{"bad cost", map[string]string{"BCRYPT_COST": "x"}, "BCRYPT_COST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv("JWT_SECRET", "s3cret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("want error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")
	cfg := LoadRateLimitConfig()
	if cfg.Enabled || cfg.Capacity != 1 || cfg.RefillTokens != 1 {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.TTL != 10*time.Second {
		t.Fatalf("ttl = %v", cfg.TTL)
	}
}

func TestLoadCacheAndRedisConfig(t *testing.T) {
	t.Setenv("CACHE_TTL", "garbage")
	t.Setenv("CACHE_PREFIX", "")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_DB", "2")
	cc := LoadCacheConfig()
	if cc.TTL != 30*time.Second || cc.Prefix != "hotel:cache" || !cc.Enabled {
		t.Fatalf("cache = %+v", cc)
	}
	rc := LoadRedisConfig()
	if rc.Addr != "cache:6380" || rc.DB != 2 || rc.TLS {
		t.Fatalf("redis = %+v", rc)
	}
	t.Setenv("REDIS_HOST", "r")
	t.Setenv("REDIS_PORT", "1")
	if got := LoadRedisConfig().Addr; got != "r:1" {
		t.Fatalf("host/port override: %s", got)
	}
}
