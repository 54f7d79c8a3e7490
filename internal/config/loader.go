package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the seat
// rotation service.
type Config struct {
	HTTPPort     int
	SQLiteDSN    string
	PlanCacheTTL time.Duration
}

// Load parses configuration values from a .env file, when present, and the
// current process environment.
//
// The loader applies sensible defaults for optional fields and accumulates
// every invalid value before failing so operators see all problems at once.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:     8080,
		SQLiteDSN:    "file:seatrotation.db",
		PlanCacheTTL: 30 * time.Second,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SEATROTATION_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SEATROTATION_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SEATROTATION_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("SEATROTATION_PLAN_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "SEATROTATION_PLAN_CACHE_TTL")
		} else {
			cfg.PlanCacheTTL = ttl
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables hold invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
