package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Charts   ChartConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RenderTimeout   time.Duration
}

// DataConfig locates the order table and the sidebar picture.
type DataConfig struct {
	CSVFile           string
	ImageFile         string
	LoadTimeout       time.Duration
	SidebarImageWidth int
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

// ChartConfig is the pixel size of every rendered chart.
type ChartConfig struct {
	Width  int
	Height int
}

var (
	logLevels  = []string{"debug", "info", "warn", "warning", "error"}
	logFormats = []string{"json", "text"}
)

// Load reads configuration from the environment. Values in a .env file in
// the working directory are applied first without overriding real variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
// Malformed values are reported rather than replaced by defaults.
func FromEnv() (*Config, error) {
	env := &envReader{}

	cfg := &Config{
		Server: ServerConfig{
			Host:            env.getString("SERVER_HOST", "localhost"),
			Port:            env.getInt("SERVER_PORT", 8501),
			ReadTimeout:     env.getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    env.getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     env.getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: env.getDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			RenderTimeout:   env.getDuration("SERVER_RENDER_TIMEOUT", 10*time.Second),
		},
		Data: DataConfig{
			CSVFile:           env.getString("DATA_CSV_FILE", "db/csv/Superstore Orders.csv"),
			ImageFile:         env.getString("DATA_IMAGE_FILE", "db/img/supermarket.jpg"),
			LoadTimeout:       env.getDuration("DATA_LOAD_TIMEOUT", 30*time.Second),
			SidebarImageWidth: env.getInt("SIDEBAR_IMAGE_WIDTH", 320),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(env.getString("LOG_LEVEL", "info")),
			Format: strings.ToLower(env.getString("LOG_FORMAT", "json")),
		},
		Security: SecurityConfig{
			EnableRateLimit: env.getBool("SECURITY_RATE_LIMIT_ENABLED", true),
			RateLimitRPS:    env.getInt("SECURITY_RATE_LIMIT_RPS", 100),
			RateLimitBurst:  env.getInt("SECURITY_RATE_LIMIT_BURST", 20),
			AllowedOrigins:  env.getList("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8501"}),
			TrustedProxies:  env.getList("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
		Charts: ChartConfig{
			Width:  env.getInt("CHART_WIDTH", 640),
			Height: env.getInt("CHART_HEIGHT", 400),
		},
	}

	if err := errors.Join(env.err(), cfg.validate()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// validate reports every problem at once.
func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.Port >= 1 && c.Server.Port <= 65535, "server port must be between 1 and 65535, got %d", c.Server.Port)
	check(c.Server.ReadTimeout > 0, "server read timeout must be positive")
	check(c.Server.WriteTimeout > 0, "server write timeout must be positive")
	check(c.Server.ShutdownTimeout > 0, "server shutdown timeout must be positive")
	check(c.Server.RenderTimeout > 0, "render timeout must be positive")

	check(c.Data.CSVFile != "", "CSV file path cannot be empty")
	check(c.Data.ImageFile != "", "image file path cannot be empty")
	check(c.Data.LoadTimeout > 0, "data load timeout must be positive")
	check(c.Data.SidebarImageWidth > 0, "sidebar image width must be positive")

	check(slices.Contains(logLevels, c.Logger.Level), "invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(logLevels, ", "))
	check(slices.Contains(logFormats, c.Logger.Format), "invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(logFormats, ", "))

	check(c.Security.RateLimitRPS > 0, "rate limit RPS must be positive")
	check(c.Security.RateLimitBurst > 0, "rate limit burst must be positive")

	check(c.Charts.Width >= 200 && c.Charts.Height >= 150, "chart size must be at least 200x150, got %dx%d", c.Charts.Width, c.Charts.Height)

	return errors.Join(errs...)
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// envReader looks variables up and remembers the ones it could not parse.
type envReader struct {
	errs []error
}

func (e *envReader) lookup(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func (e *envReader) fail(key, value string, err error) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, value, err))
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}

func (e *envReader) getString(key, def string) string {
	if value, ok := e.lookup(key); ok {
		return value
	}
	return def
}

func (e *envReader) getInt(key string, def int) int {
	value, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		e.fail(key, value, err)
		return def
	}
	return n
}

func (e *envReader) getBool(key string, def bool) bool {
	value, ok := e.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		e.fail(key, value, err)
		return def
	}
	return b
}

func (e *envReader) getDuration(key string, def time.Duration) time.Duration {
	value, ok := e.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.fail(key, value, err)
		return def
	}
	return d
}

// getList splits a comma-separated value, dropping blank entries.
func (e *envReader) getList(key string, def []string) []string {
	value, ok := e.lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
