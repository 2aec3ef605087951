package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultChallengeMarker is the text an anti-bot verification page shows
// instead of real content.
const DefaultChallengeMarker = "Verifying you are human by completing"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Browser  BrowserConfig
	Reader   ReaderConfig
	Fallback FallbackConfig
	Engine   EngineConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"

	// ShutdownTimeout bounds the graceful drain of in-flight requests.
	ShutdownTimeout time.Duration // default: 5s
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// Proxy is the upstream proxy URL for all browser traffic.
	Proxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth injects go-rod/stealth into every session before navigation.
	Stealth bool // default: true
}

// ReaderConfig controls the fetch → clean → fallback workflow.
type ReaderConfig struct {
	// NavigationTimeout bounds navigation plus the network-idle wait.
	NavigationTimeout time.Duration // default: 10s

	// SalvageTimeout bounds the extraction retried after a navigation timeout.
	SalvageTimeout time.Duration // default: 5s

	// IdleWindow is how long the network must stay quiet to count as idle.
	IdleWindow time.Duration // default: 500ms

	// BlockedResourceTypes lists resource types to block. Empty disables
	// request hijacking. Allowed: Image, Stylesheet, Font, Media, Script.
	BlockedResourceTypes []string

	// ChallengeMarkers are substrings identifying a bot-verification page.
	ChallengeMarkers []string

	// FallbackOnError also sends primary fetch failures to the fallback
	// provider instead of answering 500 straight away.
	FallbackOnError bool // default: false

	// NormalizeFallback maps the provider payload to {title, content}.
	// When false the payload is passed through unchanged.
	NormalizeFallback bool // default: false
}

// FallbackConfig configures the Firecrawl extraction client.
type FallbackConfig struct {
	APIKey  string
	BaseURL string        // default: "https://api.firecrawl.dev"
	Timeout time.Duration // default: 60s
}

// EngineConfig controls the optional HTTP-first engine chain.
type EngineConfig struct {
	// HTTPFirst races a plain HTTP engine ahead of the browser.
	HTTPFirst bool // default: false

	// EscalationDelays is the staged start delay for each engine tier.
	EscalationDelays []time.Duration // default: [0s, 2s]

	// HTTPTimeout is the deadline for the pure HTTP engine.
	HTTPTimeout time.Duration // default: 5s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of accepted API keys.
	APIKeys []string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"

	// File, when set, also writes logs to a size-rotated file.
	File       string
	MaxSizeMB  int  // default: 100
	MaxBackups int  // default: 3
	MaxAgeDays int  // default: 28
	Compress   bool // default: true
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            envOr("READER_HOST", "0.0.0.0"),
			Port:            envIntOr("READER_PORT", 8080),
			Mode:            envOr("READER_MODE", "release"),
			ShutdownTimeout: envDurationOr("READER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("READER_HEADLESS", true),
			Proxy:      os.Getenv("READER_PROXY"),
			NoSandbox:  envBoolOr("READER_NO_SANDBOX", false),
			BrowserBin: os.Getenv("READER_BROWSER_BIN"),
			Stealth:    envBoolOr("READER_STEALTH", true),
		},
		Reader: ReaderConfig{
			NavigationTimeout:    envDurationOr("READER_NAV_TIMEOUT", 10*time.Second),
			SalvageTimeout:       envDurationOr("READER_SALVAGE_TIMEOUT", 5*time.Second),
			IdleWindow:           envDurationOr("READER_IDLE_WINDOW", 500*time.Millisecond),
			BlockedResourceTypes: envSliceOr("READER_BLOCKED_RESOURCES", nil),
			ChallengeMarkers:     envSliceOr("READER_CHALLENGE_MARKERS", []string{DefaultChallengeMarker}),
			FallbackOnError:      envBoolOr("READER_FALLBACK_ON_ERROR", false),
			NormalizeFallback:    envBoolOr("READER_NORMALIZE_FALLBACK", false),
		},
		Fallback: FallbackConfig{
			APIKey:  os.Getenv("FIRECRAWL_API_KEY"),
			BaseURL: envOr("FIRECRAWL_BASE_URL", "https://api.firecrawl.dev"),
			Timeout: envDurationOr("FIRECRAWL_TIMEOUT", 60*time.Second),
		},
		Engine: EngineConfig{
			HTTPFirst:        envBoolOr("READER_HTTP_FIRST", false),
			EscalationDelays: envDurationSliceOr("READER_ESCALATION_DELAYS", []time.Duration{0, 2 * time.Second}),
			HTTPTimeout:      envDurationOr("READER_HTTP_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("READER_AUTH_ENABLED", false),
			APIKeys: envSliceOr("READER_API_KEYS", nil),
		},
		Log: LogConfig{
			Level:      envOr("READER_LOG_LEVEL", "info"),
			Format:     envOr("READER_LOG_FORMAT", "json"),
			File:       os.Getenv("READER_LOG_FILE"),
			MaxSizeMB:  envIntOr("READER_LOG_MAX_SIZE_MB", 100),
			MaxBackups: envIntOr("READER_LOG_MAX_BACKUPS", 3),
			MaxAgeDays: envIntOr("READER_LOG_MAX_AGE_DAYS", 28),
			Compress:   envBoolOr("READER_LOG_COMPRESS", true),
		},
	}
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
