package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/helmcode/hotel-audit/pkg/catalog"
)

// Config holds the runtime settings, read from the environment and an
// optional .env file.
type Config struct {
	Provider string

	GeminiAPIKey string
	GeminiModel  string

	AnthropicAPIKey string
	ClaudeModel     string
	ClaudeBaseURL   string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	AuditTimeout time.Duration
	GeoTimeout   time.Duration

	CatalogPath string
	ListenAddr  string
	PublicURL   string
	ExportDir   string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	auditTimeout, err := getEnvDuration("AUDIT_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, err
	}
	geoTimeout, err := getEnvDuration("GEO_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		Provider: strings.ToLower(getEnv("LLM_PROVIDER", "")),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		ClaudeModel:     getEnv("CLAUDE_MODEL", ""),
		ClaudeBaseURL:   getEnv("CLAUDE_BASE_URL", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		AuditTimeout: auditTimeout,
		GeoTimeout:   geoTimeout,

		CatalogPath: getEnv("CATALOG_PATH", ""),
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		PublicURL:   getEnv("PUBLIC_URL", "http://localhost:8080/"),
		ExportDir:   getEnv("EXPORT_DIR", "."),
	}, nil
}

// Catalog returns the built-in catalog, or the one at CatalogPath when set.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(c.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s", "2m") and plain seconds ("90").
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(val); err == nil {
		val = strconv.Itoa(n) + "s"
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a positive duration", key, val)
	}
	return d, nil
}
