// Package config loads relprep configuration from flags, environment variables and a .env file.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/relprep/relprep/internal/validation"
)

// Config holds the application configuration.
type Config struct {
	Logger      LoggerConfig
	Library     LibraryConfig
	Data        DataConfig
	Server      ServerConfig
	TMDB        TMDBConfig
	ImageHost   ImageHostConfig
	Screenshots ScreenshotConfig
	Tools       ToolsConfig
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `env:"LOG_FORMAT" validate:"oneof=pretty json"`
}

// LibraryConfig describes where release folders live.
type LibraryConfig struct {
	// Root is optional; without it the watcher stays off and releases are prepared by explicit path.
	Root        string        `env:"LIBRARY_ROOT"`
	Watch       bool          `env:"LIBRARY_WATCH"`
	SettleDelay time.Duration `env:"LIBRARY_SETTLE_DELAY" validate:"gte=0"`
}

// DataConfig holds the location of relprep's own state (database, cache, index, screenshots).
type DataConfig struct {
	Dir string `env:"DATA_DIR" validate:"required"`
}

// DatabasePath is the sqlite file holding prepared releases.
func (d DataConfig) DatabasePath() string { return filepath.Join(d.Dir, "relprep.db") }

// CachePath is the badger directory for upstream response caching.
func (d DataConfig) CachePath() string { return filepath.Join(d.Dir, "cache") }

// IndexPath is the bleve index directory.
func (d DataConfig) IndexPath() string { return filepath.Join(d.Dir, "search") }

// ScreenshotPath is where captured frames are written.
func (d DataConfig) ScreenshotPath() string { return filepath.Join(d.Dir, "screenshots") }

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"`
	Port         string        `env:"SERVER_PORT" validate:"required,numeric"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" validate:"gt=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string { return s.Host + ":" + s.Port }

// TMDBConfig configures the movie database client.
type TMDBConfig struct {
	APIKey   string        `env:"TMDB_API_KEY"`
	Language string        `env:"TMDB_LANGUAGE" validate:"required"`
	BaseURL  string        `env:"TMDB_BASE_URL" validate:"required,url"`
	CacheTTL time.Duration `env:"TMDB_CACHE_TTL" validate:"gte=0"`
	// RateLimit is requests per second.
	RateLimit int `env:"TMDB_RATE_LIMIT" validate:"gt=0"`
}

// Enabled reports whether TMDB lookups can be made.
func (t TMDBConfig) Enabled() bool { return t.APIKey != "" }

// ImageHostConfig configures screenshot uploads.
type ImageHostConfig struct {
	URL    string `env:"IMAGE_HOST_URL" validate:"omitempty,url"`
	APIKey string `env:"IMAGE_HOST_API_KEY"`
}

// Enabled reports whether uploads are configured.
func (i ImageHostConfig) Enabled() bool { return i.URL != "" }

// ScreenshotConfig controls frame capture for video releases.
type ScreenshotConfig struct {
	Count int `env:"SCREENSHOT_COUNT" validate:"gte=0,lte=20"`
	Width int `env:"SCREENSHOT_THUMB_WIDTH" validate:"gte=0"`
}

// ToolsConfig points at external binaries.
type ToolsConfig struct {
	MediaInfoPath string `env:"MEDIAINFO_PATH" validate:"required"`
	FFmpegPath    string `env:"FFMPEG_PATH" validate:"required"`
	FFprobePath   string `env:"FFPROBE_PATH" validate:"required"`
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load resolves configuration with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. .env file.
// 4. Defaults.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("relprep", flag.ContinueOnError)

	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (pretty, json)")
	libraryRoot := fs.String("library", "", "Root directory holding release folders")
	watch := fs.String("watch", "", "Prepare new release folders as they appear (default: false)")
	dataDir := fs.String("data-dir", "", "Directory for database, cache and index")
	host := fs.String("host", "", "Listen host")
	port := fs.String("port", "", "Server port (default: 8484)")
	tmdbKey := fs.String("tmdb-key", "", "TMDB API key")
	tmdbLanguage := fs.String("tmdb-language", "", "TMDB response language (default: en-US)")
	imageHost := fs.String("image-host", "", "Image host upload URL")
	screenshots := fs.String("screenshots", "", "Screenshots per video release (default: 4)")
	mediainfoPath := fs.String("mediainfo", "", "Path to the mediainfo binary")
	ffmpegPath := fs.String("ffmpeg", "", "Path to the ffmpeg binary")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	_ = loadEnvFile(*envFile)

	cfg := &Config{
		Logger: LoggerConfig{
			Level:  strings.ToLower(getConfigValue(*logLevel, "LOG_LEVEL", "info")),
			Format: strings.ToLower(getConfigValue(*logFormat, "LOG_FORMAT", "pretty")),
		},
		Library: LibraryConfig{
			Root:  getConfigValue(*libraryRoot, "LIBRARY_ROOT", ""),
			Watch: getBoolConfigValue(*watch, "LIBRARY_WATCH", false),
		},
		Data: DataConfig{
			Dir: getConfigValue(*dataDir, "DATA_DIR", ""),
		},
		Server: ServerConfig{
			Host: getConfigValue(*host, "SERVER_HOST", ""),
			Port: getConfigValue(*port, "SERVER_PORT", "8484"),
		},
		TMDB: TMDBConfig{
			APIKey:    getConfigValue(*tmdbKey, "TMDB_API_KEY", ""),
			Language:  getConfigValue(*tmdbLanguage, "TMDB_LANGUAGE", "en-US"),
			BaseURL:   getConfigValue("", "TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			RateLimit: getIntConfigValue("", "TMDB_RATE_LIMIT", 20),
		},
		ImageHost: ImageHostConfig{
			URL:    getConfigValue(*imageHost, "IMAGE_HOST_URL", ""),
			APIKey: getConfigValue("", "IMAGE_HOST_API_KEY", ""),
		},
		Screenshots: ScreenshotConfig{
			Count: getIntConfigValue(*screenshots, "SCREENSHOT_COUNT", 4),
			Width: getIntConfigValue("", "SCREENSHOT_THUMB_WIDTH", 32),
		},
		Tools: ToolsConfig{
			MediaInfoPath: getConfigValue(*mediainfoPath, "MEDIAINFO_PATH", "mediainfo"),
			FFmpegPath:    getConfigValue(*ffmpegPath, "FFMPEG_PATH", "ffmpeg"),
			FFprobePath:   getConfigValue("", "FFPROBE_PATH", "ffprobe"),
		},
	}

	durations := []struct {
		dst      *time.Duration
		env, def string
	}{
		{&cfg.Library.SettleDelay, "LIBRARY_SETTLE_DELAY", "5s"},
		{&cfg.Server.ReadTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT", "5m"},
		{&cfg.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.TMDB.CacheTTL, "TMDB_CACHE_TTL", "168h"},
	}
	for _, d := range durations {
		v, err := getDurationConfigValue(d.env, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required values are present and within range.
func (c *Config) Validate() error {
	if err := validation.New().Validate(c); err != nil {
		return err
	}
	if c.Library.Watch && c.Library.Root == "" {
		return fmt.Errorf("LIBRARY_WATCH requires LIBRARY_ROOT")
	}
	return nil
}

func (c *Config) expandPaths() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dataDir, err := expandPath(c.Data.Dir, filepath.Join(home, ".relprep"))
	if err != nil {
		return fmt.Errorf("invalid data dir: %w", err)
	}
	c.Data.Dir = dataDir

	root, err := expandPath(c.Library.Root, "")
	if err != nil {
		return fmt.Errorf("invalid library root: %w", err)
	}
	c.Library.Root = root
	return nil
}

// expandPath expands ~ and makes path absolute. An empty path yields defaultPath.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, rest)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
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

// getBoolConfigValue accepts "true", "1" and "yes" (any case) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	v := getConfigValue(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	v := getConfigValue(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return defaultValue
	}
	return n
}

func getDurationConfigValue(envKey, defaultValue string) (time.Duration, error) {
	v := getConfigValue("", envKey, defaultValue)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return d, nil
}

// loadEnvFile loads KEY=value lines from path. Variables already set in the
// environment are left untouched.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- config file path is user supplied
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
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}
