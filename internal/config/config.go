package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreRedis   = "redis"
	StoreLevelDB = "leveldb"
	StoreMemory  = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout, not applied to discovery (ex: 5s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Persisted Store
	Store       string // "redis" | "leveldb" | "memory"
	LevelDBPath string // directory of the LevelDB store
	SeedFile    string // optional YAML seed catalog, empty = built-in seeds

	// Discovery
	GeminiAPIKey    string // empty disables discovery
	GeminiModel     string // ex: "gemini-3-flash-preview"
	DiscoveryCount  int    // listings requested per discovery
	SummarizeFirst  int    // new listings summarized after each discovery
	SearchGrounding bool   // enable the Google Search tool on discover

	// Redis (only read when Store == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AuthRateLimit int // signup/login requests per client IP per minute, 0 disables

	CORSOrigins  []string // optional, browser origins allowed to call the API
	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict /metrics and /infra to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory when one exists. Fatal misconfiguration
// panics.
func Load() *Config {
	loadDotEnv(".env")

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("APIDIR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("APIDIR_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("APIDIR_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("APIDIR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("APIDIR_PRETTY_LOG", true),

		// Persisted Store
		Store:       strings.ToLower(getenv("APIDIR_STORE", StoreRedis)),
		LevelDBPath: getenv("APIDIR_LEVELDB_PATH", "./apidir.db"),
		SeedFile:    getenv("APIDIR_SEED_FILE", ""),

		// Discovery
		GeminiAPIKey:    firstEnv("APIDIR_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"),
		GeminiModel:     getenv("APIDIR_GEMINI_MODEL", "gemini-3-flash-preview"),
		DiscoveryCount:  getenvInt("APIDIR_DISCOVERY_COUNT", 10),
		SummarizeFirst:  getenvInt("APIDIR_SUMMARIZE_FIRST", 2),
		SearchGrounding: mustBool("APIDIR_SEARCH_GROUNDING", true),

		// Access restrictions
		AuthRateLimit: getenvInt("APIDIR_AUTH_RATE_LIMIT", 20),
		CORSOrigins:   splitAndTrim(getenv("APIDIR_CORS_ORIGINS", "")),
		AllowedHosts:  splitAndTrim(getenv("APIDIR_ALLOWED_HOSTS", "")),
		AllowedCIDRS:  parseAllowedIPs(getenv("APIDIR_ALLOWED_CIDRS", "")),
		TrustProxy:    mustBool("APIDIR_TRUST_PROXY", true),
	}

	switch cfg.Store {
	case StoreRedis:
		loadRedis(cfg)
	case StoreLevelDB, StoreMemory:
	default:
		panic(fmt.Sprintf("❌ FATAL: APIDIR_STORE must be one of redis, leveldb, memory, got %q", cfg.Store))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("APIDIR_REDIS_ADDR")
	cfg.RedisUser = getenv("APIDIR_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("APIDIR_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("APIDIR_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("APIDIR_REDIS_DB")
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: APIDIR_REDIS_PASSWORD is required when APIDIR_REDIS_PASSWORD_REQUIRED=true")
	}
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	if c.RedisUser != "" {
		c.RedisUser = "***REDACTED***"
	}
	if c.GeminiAPIKey != "" {
		c.GeminiAPIKey = "***REDACTED***"
	}
	return c
}

// loadDotEnv never overrides variables already set in the environment.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("❌ FATAL: cannot parse %s: %v", path, err))
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
