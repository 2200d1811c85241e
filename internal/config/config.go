// Package config loads gateway configuration from flags, environment
// variables and an optional .env file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	PSD     PSDConfig
	Cache   CacheConfig
	Aliases AliasesConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // default: 8080
	ReadTimeout  time.Duration // default: 15s
	WriteTimeout time.Duration // default: 120s, series of 40 years fetch serially
	IdleTimeout  time.Duration // default: 60s
	CORSOrigins  []string      // default: *
}

// PSDConfig holds upstream API configuration.
type PSDConfig struct {
	APIKey         string
	BaseURL        string
	Timeout        time.Duration // per upstream request (default: 30s)
	RateLimitRPS   float64       // outbound requests per second (default: 5)
	RateLimitBurst int           // default: 10
	// WorldTotals fetches official world totals when a year's rows carry
	// no world row (default: true). Off, world totals are computed.
	WorldTotals bool
}

// CacheConfig holds cache sizing.
type CacheConfig struct {
	YearCacheSize int // (commodity, year) entries kept (default: 50)
}

// AliasesConfig holds the alias override file location.
type AliasesConfig struct {
	// Path to a JSON overrides file. Empty disables overrides.
	Path string
	// Watch reloads the file on change (default: true).
	Watch bool
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("psdgate", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 120s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	apiKey := fs.String("psd-api-key", "", "PSD API key")
	baseURL := fs.String("psd-base-url", "", "PSD API base URL")
	psdTimeout := fs.String("psd-timeout", "", "Upstream request timeout (default: 30s)")
	rps := fs.String("psd-rate-limit-rps", "", "Upstream requests per second (default: 5)")
	burst := fs.String("psd-rate-limit-burst", "", "Upstream burst size (default: 10)")
	worldTotals := fs.String("psd-world-totals", "", "Fetch official world totals (default: true)")

	yearCacheSize := fs.String("year-cache-size", "", "Year cache capacity (default: 50)")

	aliasesPath := fs.String("aliases", "", "Path to alias overrides JSON file")
	aliasesWatch := fs.String("aliases-watch", "", "Reload alias overrides on change (default: true)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitCSV(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		PSD: PSDConfig{
			APIKey:         strings.TrimSpace(getConfigValue(*apiKey, "PSD_API_KEY", os.Getenv("FAS_API_KEY"))),
			BaseURL:        getConfigValue(*baseURL, "PSD_BASE_URL", "https://apps.fas.usda.gov/OpenData/api/psd"),
			RateLimitBurst: getIntConfigValue(*burst, "PSD_RATE_LIMIT_BURST", 10),
			WorldTotals:    getBoolConfigValue(*worldTotals, "PSD_WORLD_TOTALS", true),
		},
		Cache: CacheConfig{
			YearCacheSize: getIntConfigValue(*yearCacheSize, "YEAR_CACHE_SIZE", 50),
		},
		Aliases: AliasesConfig{
			Path:  getConfigValue(*aliasesPath, "ALIASES_PATH", ""),
			Watch: getBoolConfigValue(*aliasesWatch, "ALIASES_WATCH", true),
		},
	}

	rpsStr := getConfigValue(*rps, "PSD_RATE_LIMIT_RPS", "5")
	rpsValue, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rpsStr, err)
	}
	cfg.PSD.RateLimitRPS = rpsValue

	durations := []struct {
		flag, env, def, name string
		dst                  *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", "read timeout", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "120s", "write timeout", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", "idle timeout", &cfg.Server.IdleTimeout},
		{*psdTimeout, "PSD_TIMEOUT", "30s", "psd timeout", &cfg.PSD.Timeout},
	}
	for _, d := range durations {
		s := getConfigValue(d.flag, d.env, d.def)
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, s, err)
		}
		*d.dst = parsed
	}

	if cfg.Aliases.Path != "" {
		expanded, err := expandPath(cfg.Aliases.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid aliases path: %w", err)
		}
		cfg.Aliases.Path = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and valid.
// A missing API key is allowed; upstream calls then fail with a clear error.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Server.Port == "" {
		return errors.New("SERVER_PORT cannot be empty")
	}

	if !strings.HasPrefix(c.PSD.BaseURL, "http://") && !strings.HasPrefix(c.PSD.BaseURL, "https://") {
		return fmt.Errorf("invalid PSD_BASE_URL: %q (must be http or https)", c.PSD.BaseURL)
	}

	if c.PSD.Timeout <= 0 {
		return errors.New("PSD_TIMEOUT must be positive")
	}

	if c.Cache.YearCacheSize < 1 {
		return fmt.Errorf("invalid YEAR_CACHE_SIZE: %d (must be at least 1)", c.Cache.YearCacheSize)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
// Unparseable values fall back to the default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// splitCSV splits a comma-separated value and drops empty items.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile loads KEY=value lines from a .env file. Variables already set
// in the environment win.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
