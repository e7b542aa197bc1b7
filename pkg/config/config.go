package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	xutil "CoinGate/pkg/util"
)

// DeploymentMode selects where upstream credentials come from.
type DeploymentMode string

const (
	// ModeLocal uses the server-held API secret for every upstream call.
	ModeLocal DeploymentMode = "local"
	// ModeDeployed uses the caller-supplied apikey query parameter.
	ModeDeployed DeploymentMode = "deployed"
)

// ParseDeploymentMode normalizes s into a known mode.
func ParseDeploymentMode(s string) (DeploymentMode, error) {
	switch m := DeploymentMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLocal, ModeDeployed:
		return m, nil
	default:
		return "", fmt.Errorf("unknown deployment mode %q (want %q or %q)", s, ModeLocal, ModeDeployed)
	}
}

// Config is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Environment string         `yaml:"environment" default:"development"`
	Mode        DeploymentMode `yaml:"mode" default:"local"`
	Server      ServerConfig   `yaml:"server"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Upstream    UpstreamConfig `yaml:"upstream"`
	Render      RenderConfig   `yaml:"render"`
	Logging     LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"2m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	StaticDir       string        `yaml:"static_dir"`
	CORS            bool          `yaml:"cors" default:"true"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type UpstreamConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// Timeout bounds a single upstream call; 0 leaves it to the transport.
	Timeout        time.Duration `yaml:"timeout" default:"30s"`
	MaxConcurrent  int           `yaml:"max_concurrent" default:"64"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout" default:"5s"`
}

type RenderConfig struct {
	Command        string        `yaml:"command" default:"python3"`
	Args           []string      `yaml:"args" default:"[\"scripts/generate_graph.py\"]"`
	Dir            string        `yaml:"dir"`
	Env            []string      `yaml:"env"`
	Timeout        time.Duration `yaml:"timeout" default:"60s"`
	MaxOutputBytes int64         `yaml:"max_output_bytes" default:"8388608"`
	MaxConcurrent  int           `yaml:"max_concurrent" default:"4"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout" default:"10s"`
}

type LoggingConfig struct {
	Level  string     `yaml:"level" default:"info"`
	Format string     `yaml:"format" default:"console"`
	Output string     `yaml:"output" default:"stdout"`
	Ship   ShipConfig `yaml:"ship"`
}

// ShipConfig controls forwarding of aggregated error logs to Kafka.
type ShipConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Brokers        []string      `yaml:"brokers"`
	Topic          string        `yaml:"topic" default:"coingate.logs"`
	Compression    string        `yaml:"compression" default:"gzip"`
	Interval       time.Duration `yaml:"interval" default:"30s"`
	CountThreshold int           `yaml:"count_threshold" default:"100"`
}

// Default returns a Config populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML file on top of the defaults. A missing file is not an
// error; the environment alone can configure the gateway.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	return c, nil
}

// LoadWithEnv loads .env (if present), the YAML file, applies environment
// overrides and validates the result.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DEPLOYMENT_MODE"); v != "" {
		m, err := ParseDeploymentMode(v)
		if err != nil {
			return err
		}
		c.Mode = m
	}
	if v := os.Getenv("API_KEY"); v != "" {
		c.Upstream.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = xutil.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("UPSTREAM_BASE_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("RENDER_COMMAND"); v != "" {
		c.Render.Command = v
	}
	if v := os.Getenv("RENDER_ARGS"); v != "" {
		c.Render.Args = xutil.SplitNonEmpty(v, " ")
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Logging.Ship.Brokers = xutil.SplitNonEmpty(v, ",")
		c.Logging.Ship.Enabled = true
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if _, err := ParseDeploymentMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if u, err := url.ParseRequestURI(c.Upstream.BaseURL); err != nil || u.Host == "" {
		return fmt.Errorf("upstream.base_url is not an absolute URL: %q", c.Upstream.BaseURL)
	}
	// Local mode refuses to start without a secret instead of sending
	// anonymous "Bearer " calls upstream.
	if c.Mode == ModeLocal && c.Upstream.APIKey == "" {
		return fmt.Errorf("upstream.api_key (API_KEY) is required in %s mode", ModeLocal)
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream.timeout must not be negative")
	}
	if c.Upstream.MaxConcurrent <= 0 {
		return fmt.Errorf("upstream.max_concurrent must be positive")
	}
	if c.Render.Command == "" {
		return fmt.Errorf("render.command is required")
	}
	if c.Render.Timeout <= 0 {
		return fmt.Errorf("render.timeout must be positive")
	}
	if c.Render.MaxOutputBytes <= 0 {
		return fmt.Errorf("render.max_output_bytes must be positive")
	}
	if c.Render.MaxConcurrent <= 0 {
		return fmt.Errorf("render.max_concurrent must be positive")
	}
	if c.Logging.Ship.Enabled && len(c.Logging.Ship.Brokers) == 0 {
		return fmt.Errorf("logging.ship.brokers cannot be empty when shipping is enabled")
	}
	return nil
}

// UpstreamHost returns the host part of the upstream URL, for log fields.
func (c *Config) UpstreamHost() string {
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Redacted returns a copy safe to print; the API key is masked.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.Upstream.APIKey != "" {
		cp.Upstream.APIKey = "***"
	}
	cp.Render.Args = append([]string(nil), c.Render.Args...)
	cp.Logging.Ship.Brokers = append([]string(nil), c.Logging.Ship.Brokers...)
	return &cp
}
