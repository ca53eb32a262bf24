// Package server provides configuration helpers that define runtime defaults,
// validation, and flood-limiting parameters for the fake IRC server.
package server

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds the server configuration. Every field has a working default;
// no environment variable is required.
type Config struct {
	Host       string `env:"BIND_HOST" default:"127.0.0.1"`
	Port       int    `env:"PORT" default:"1234"`
	ServerName string `env:"SERVER_NAME" default:"localhost"`

	// Flood limiter for inbound client lines (lines per second plus burst).
	FloodLimitPerSecond float64 `env:"FLOOD_LIMIT_PER_SECOND" default:"20"`
	FloodLimitBurst     int     `env:"FLOOD_LIMIT_BURST" default:"40"`

	// Interval for server-initiated PINGs that keep idle clients connected.
	PingInterval time.Duration `env:"PING_INTERVAL" default:"90s"`

	SendBufferSize  int           `env:"SEND_BUFFER_SIZE" default:"256"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"5s"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Operator web console.
	ConsoleEnabled bool   `env:"CONSOLE_ENABLED" default:"true"`
	ConsoleAddr    string `env:"CONSOLE_ADDR" default:"127.0.0.1:8080"`
	ConsoleOrigins string `env:"CONSOLE_ORIGINS" default:"http://localhost:8080,http://127.0.0.1:8080"`
}

// LoadConfig builds the configuration from a .env file (if present), the
// environment, and the command-line arguments. The only accepted argument is
// an optional positional port number which overrides everything else.
func LoadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded configuration from .env file")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.applyArgs(args); err != nil {
		return nil, err
	}

	cfg.sanitize()
	return &cfg, nil
}

func (c *Config) applyArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("too many arguments. Usage: fake-irc-server [PORT]")
	}

	port, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("PORT argument is not a number. Usage: fake-irc-server [PORT]")
	}
	c.Port = port
	return nil
}

func (c *Config) sanitize() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port < 0 || c.Port > 65535 {
		c.Port = 1234
	}
	if c.ServerName == "" {
		c.ServerName = "localhost"
	}
	if c.FloodLimitPerSecond <= 0 {
		c.FloodLimitPerSecond = 20
	}
	if c.FloodLimitBurst <= 0 {
		c.FloodLimitBurst = 40
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 90 * time.Second
	}
	if c.SendBufferSize <= 0 {
		c.SendBufferSize = 256
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// ListenAddr returns the host:port the TCP listener binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ConsoleOriginList splits the comma-separated console origin setting.
func (c *Config) ConsoleOriginList() []string {
	parts := strings.Split(c.ConsoleOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
