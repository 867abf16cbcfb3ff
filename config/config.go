package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mr-zlaam/googleMapScraper/models"
)

// Config holds all application configuration.
type Config struct {
	Run     RunConfig
	Browser BrowserConfig
	Webhook WebhookConfig
	Log     LogConfig
}

// RunConfig controls a single scrape run.
type RunConfig struct {
	// InputPath is the JSON array of target URLs. Required.
	InputPath string

	// OutputPath receives the success table. Required.
	// A ".json" suffix switches the table to a JSON array.
	OutputPath string

	// FailedPath receives the failure manifest.
	FailedPath string // default: "failed_links.csv"

	// MaxConcurrent bounds in-flight extractions for the whole run.
	MaxConcurrent int // default: 10

	// BatchSize is the number of targets launched between barriers.
	BatchSize int // default: 20

	// URLLimit caps the number of targets read from the input.
	URLLimit int // default: 100

	// NavigationTimeout bounds navigation plus initial load per target.
	NavigationTimeout time.Duration // default: 60s

	// NavigationRate paces navigations per second. 0 disables pacing.
	NavigationRate float64 // default: 0
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the proxy URL for all browser traffic.
	Proxy string

	// Stealth injects anti-automation-detection evasions into every page.
	Stealth bool // default: true

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string

	// BlockTrackers fails requests to known ad and analytics hosts.
	BlockTrackers bool // default: true

	// AcceptLanguage pins the page language; field selectors match English labels.
	AcceptLanguage string // default: "en-US,en;q=0.9"
}

// WebhookConfig controls the optional run summary notification.
type WebhookConfig struct {
	URL    string
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	run := RunConfig{
		InputPath:         os.Getenv("MAPSCRAPER_INPUT"),
		OutputPath:        os.Getenv("MAPSCRAPER_OUTPUT"),
		FailedPath:        envOr("MAPSCRAPER_FAILED", "failed_links.csv"),
		MaxConcurrent:     envIntOr("MAPSCRAPER_MAX_CONCURRENT", 10),
		BatchSize:         envIntOr("MAPSCRAPER_BATCH_SIZE", 20),
		URLLimit:          envIntOr("MAPSCRAPER_URL_LIMIT", 100),
		NavigationTimeout: envDurationOr("MAPSCRAPER_NAV_TIMEOUT", 60*time.Second),
		NavigationRate:    envFloatOr("MAPSCRAPER_NAV_RATE", 0),
	}
	if chunk := os.Getenv("CHUNK_NUM"); chunk != "" {
		run.applyChunk(chunk)
	}

	return &Config{
		Run: run,
		Browser: BrowserConfig{
			Headless:   envBoolOr("MAPSCRAPER_HEADLESS", true),
			NoSandbox:  envBoolOr("MAPSCRAPER_NO_SANDBOX", false),
			BrowserBin: os.Getenv("MAPSCRAPER_BROWSER_BIN"),
			Proxy:      os.Getenv("MAPSCRAPER_PROXY"),
			Stealth:    envBoolOr("MAPSCRAPER_STEALTH", true),
			BlockedResourceTypes: envSliceOr("MAPSCRAPER_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
			BlockTrackers:  envBoolOr("MAPSCRAPER_BLOCK_TRACKERS", true),
			AcceptLanguage: envOr("MAPSCRAPER_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("MAPSCRAPER_WEBHOOK_URL"),
			Secret: os.Getenv("MAPSCRAPER_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("MAPSCRAPER_LOG_LEVEL", "info"),
			Format: envOr("MAPSCRAPER_LOG_FORMAT", "text"),
		},
	}
}

// applyChunk derives per-chunk path defaults. Paths already set explicitly
// through the environment are left alone.
func (r *RunConfig) applyChunk(chunk string) {
	if r.InputPath == "" {
		r.InputPath = fmt.Sprintf("chunks/links_part_%s.json", chunk)
	}
	if r.OutputPath == "" {
		r.OutputPath = fmt.Sprintf("output/output_scraper_%s.json", chunk)
	}
	if os.Getenv("MAPSCRAPER_FAILED") == "" {
		r.FailedPath = fmt.Sprintf("output/failed_links_%s.csv", chunk)
	}
}

// Validate checks the run options that must hold before any work starts.
func (r RunConfig) Validate() error {
	var problems []string
	if r.InputPath == "" {
		problems = append(problems, "input path is required")
	}
	if r.OutputPath == "" {
		problems = append(problems, "output path is required")
	}
	if r.FailedPath == "" {
		problems = append(problems, "failed-output path must not be empty")
	}
	if r.MaxConcurrent < 1 {
		problems = append(problems, fmt.Sprintf("max concurrent must be positive, got %d", r.MaxConcurrent))
	}
	if r.BatchSize < 1 {
		problems = append(problems, fmt.Sprintf("batch size must be positive, got %d", r.BatchSize))
	}
	if r.URLLimit < 1 {
		problems = append(problems, fmt.Sprintf("url limit must be positive, got %d", r.URLLimit))
	}
	if r.NavigationTimeout <= 0 {
		problems = append(problems, "navigation timeout must be positive")
	}
	if r.NavigationRate < 0 {
		problems = append(problems, "navigation rate must not be negative")
	}
	if len(problems) > 0 {
		return models.NewScrapeError(models.ErrCodeInvalidConfig, strings.Join(problems, "; "), nil)
	}
	return nil
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

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
