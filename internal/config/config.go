package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenAddr      string        // ex: "127.0.0.1:3000"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	RootDir        string        // directory served as static files
	CatalogFile    string        // catalog CSV path or http(s) URL
	PolicyFile     string        // optional YAML policy, empty = built-in defaults
	SiteEdition    string        // "pnp" | "web"
	BasePath       string        // path prefix the site is served under, ex: "/pnp"
	ReloadInterval time.Duration // periodic catalog reload, 0 = disabled
	WatchCatalog   bool          // reload when the catalog file changes on disk

	SessionTTL        time.Duration
	SessionGCInterval time.Duration
	SessionMaxEntries int

	StrictSubmissions bool  // run the full validator and duplicate check on POST
	MaxBodyBytes      int64 // request body limit for submissions
	SubmitRateBurst   int   // per-IP burst for submission endpoints
	SubmitRatePerMin  int   // per-IP sustained rate for submission endpoints

	// Redis (optional, empty address = disabled)
	RedisAddr             string
	RedisUser             string
	RedisPassword         string
	RedisPasswordRequired bool
	RedisDB               int
	RedisDT               time.Duration // dial timeout
	RedisRT               time.Duration // read timeout
	RedisWT               time.Duration // write timeout
	RedisMaxWait          time.Duration // max wait between retries
	RedisPingTimeout      time.Duration // timeout for each ping attempt
	RedisPoolSize         int
	RedisConnectTimeout   time.Duration // total time to retry connecting
	RedisRetryInterval    time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict admin endpoints to these Host headers
	AllowedCIDRS []string // optional, restrict admin endpoints to these networks
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	// CLI transport
	SubmissionEndpoint string // where `pnptools submit` posts
	BaseURL            string // base for relative endpoints
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// CatalogIsRemote reports whether the catalog is fetched over HTTP.
func (c *Config) CatalogIsRemote() bool {
	lower := strings.ToLower(c.CatalogFile)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func Load() *Config {
	root := getenv("PNP_ROOT_DIR", ".")

	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("PNP_LISTEN_ADDR", "127.0.0.1:3000"),
		ShutdownTimeout: mustDuration("PNP_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("PNP_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("PNP_LOG_LEVEL", "info"),
		PrettyLog: mustBool("PNP_PRETTY_LOG", true),

		// Catalog
		RootDir:        root,
		CatalogFile:    getenv("PNP_CATALOG_FILE", filepath.Join(root, "data", "resources.csv")),
		PolicyFile:     getenv("PNP_POLICY_FILE", ""),
		SiteEdition:    oneOf("PNP_SITE_EDITION", "pnp", "pnp", "web"),
		BasePath:       normalizeBasePath(getenv("PNP_BASE_PATH", "")),
		ReloadInterval: mustDuration("PNP_RELOAD_INTERVAL", time.Hour),
		WatchCatalog:   mustBool("PNP_WATCH_CATALOG", true),

		// Sessions
		SessionTTL:        mustDuration("PNP_SESSION_TTL", 30*time.Minute),
		SessionGCInterval: mustDuration("PNP_SESSION_GC_INTERVAL", 5*time.Minute),
		SessionMaxEntries: getenvInt("PNP_SESSION_MAX_ENTRIES", 10000),

		// Submissions
		StrictSubmissions: mustBool("PNP_STRICT_SUBMISSIONS", true),
		MaxBodyBytes:      int64(getenvInt("PNP_MAX_BODY_BYTES", 1_000_000)),
		SubmitRateBurst:   getenvInt("PNP_SUBMIT_RATE_BURST", 5),
		SubmitRatePerMin:  getenvInt("PNP_SUBMIT_RATE_PER_MIN", 10),

		// Redis settings
		RedisAddr:             getenv("PNP_REDIS_ADDR", ""),
		RedisUser:             getenv("PNP_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("PNP_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("PNP_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("PNP_REDIS_DB", 0),
		RedisDT:               mustDuration("PNP_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("PNP_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("PNP_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("PNP_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("PNP_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("PNP_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("PNP_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("PNP_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("PNP_REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("PNP_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("PNP_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("PNP_TRUST_PROXY", false),

		// CLI transport
		SubmissionEndpoint: getenv("PNP_SUBMISSION_ENDPOINT", "/api/resources"),
		BaseURL:            getenv("PNP_BASE_URL", "http://127.0.0.1:3000"),
	}

	if cfg.RedisEnabled() && cfg.RedisPasswordRequired {
		cfg.RedisPassword = requireEnv("PNP_REDIS_PASSWORD")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func oneOf(key, def string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(getenv(key, def)))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	panic(fmt.Sprintf("❌ FATAL: %s must be one of %s, got %q", key, strings.Join(allowed, ", "), v))
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

// normalizeBasePath returns "" or a path with a leading and no trailing slash.
// Examples: "pnp/" -> "/pnp", "/" -> "".
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
