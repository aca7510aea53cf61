package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	CacheTTL     time.Duration
	DefaultLimit int
	SearchRPS    int
	CORSOrigins  []string

	SeedWorkers int
	SeedFile    string
}

// Load reads the environment, after a local .env file when one exists.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("ignoring unreadable .env file")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid integer setting")
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		LogLevel:     env("LOG_LEVEL", "info"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/booking?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		CacheTTL:     time.Duration(atoi("SEARCH_CACHE_TTL_SECONDS", 30)) * time.Second,
		DefaultLimit: atoi("SEARCH_DEFAULT_LIMIT", 20),
		SearchRPS:    atoi("SEARCH_RPS", 50),
		CORSOrigins:  list(os.Getenv("CORS_ORIGINS")),
		SeedWorkers:  atoi("SEED_WORKERS", 4),
		SeedFile:     env("SEED_FILE", "testdata/catalog.json"),
	}
	if c.SeedWorkers < 1 {
		c.SeedWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func list(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
