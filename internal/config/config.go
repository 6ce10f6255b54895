// Package config loads gateway configuration from an optional YAML file
// with environment variable overrides.
package config

import (
    "fmt"
    "os"
    "strconv"
    "time"

    "gopkg.in/yaml.v3"
)

// Config holds everything the gateway needs at startup. Zero values are
// filled in by Default; environment variables win over the file.
type Config struct {
    Port           string `yaml:"port"`
    AuthMode       string `yaml:"authMode"` // dev | hmac
    AuthHMACSecret string `yaml:"authHmacSecret"`
    DatabaseURL    string `yaml:"databaseUrl"`
    RedisURL       string `yaml:"redisUrl"`

    SendQueueSize  int     `yaml:"sendQueueSize"`
    MaxConnections int64   `yaml:"maxConnections"`
    MaxPerIP       int     `yaml:"maxPerIp"`
    DialRate       float64 `yaml:"dialRate"`  // new connections per second per IP
    DialBurst      int     `yaml:"dialBurst"`
    InboundRate    float64 `yaml:"inboundRate"` // client messages per second per connection
    InboundBurst   int     `yaml:"inboundBurst"`

    // Durations come from YAML as strings ("20s"); parsed in Load.
    PingInterval time.Duration `yaml:"-"`
    ReadTimeout  time.Duration `yaml:"-"`
    WriteTimeout time.Duration `yaml:"-"`
}

// fileDurations carries the duration fields of the YAML file in their
// string form, since yaml.v3 has no native time.Duration support.
type fileDurations struct {
    PingInterval string `yaml:"pingInterval"`
    ReadTimeout  string `yaml:"readTimeout"`
    WriteTimeout string `yaml:"writeTimeout"`
}

// Default returns the built-in configuration.
func Default() Config {
    return Config{
        Port:           "8080",
        AuthMode:       "dev",
        SendQueueSize:  64,
        MaxConnections: 10000,
        MaxPerIP:       32,
        DialRate:       10,
        DialBurst:      20,
        InboundRate:    20,
        InboundBurst:   40,
        PingInterval:   20 * time.Second,
        ReadTimeout:    60 * time.Second,
        WriteTimeout:   10 * time.Second,
    }
}

// Load builds the effective config: defaults, then the YAML file named by
// GATEWAY_CONFIG (if any), then environment variables.
func Load() (Config, error) {
    cfg := Default()
    if path := os.Getenv("GATEWAY_CONFIG"); path != "" {
        data, err := os.ReadFile(path)
        if err != nil {
            return cfg, fmt.Errorf("read config %s: %w", path, err)
        }
        if err := yaml.Unmarshal(data, &cfg); err != nil {
            return cfg, fmt.Errorf("parse config %s: %w", path, err)
        }
        var durs fileDurations
        if err := yaml.Unmarshal(data, &durs); err != nil {
            return cfg, fmt.Errorf("parse config %s: %w", path, err)
        }
        for _, f := range []struct {
            raw string
            dst *time.Duration
        }{
            {durs.PingInterval, &cfg.PingInterval},
            {durs.ReadTimeout, &cfg.ReadTimeout},
            {durs.WriteTimeout, &cfg.WriteTimeout},
        } {
            if f.raw == "" {
                continue
            }
            d, err := time.ParseDuration(f.raw)
            if err != nil {
                return cfg, fmt.Errorf("parse config %s: %w", path, err)
            }
            *f.dst = d
        }
    }
    cfg.Port = envOr("PORT", cfg.Port)
    cfg.AuthMode = envOr("AUTH_MODE", cfg.AuthMode)
    cfg.AuthHMACSecret = envOr("AUTH_HMAC_SECRET", cfg.AuthHMACSecret)
    cfg.DatabaseURL = envOr("DATABASE_URL", cfg.DatabaseURL)
    cfg.RedisURL = envOr("REDIS_URL", cfg.RedisURL)
    cfg.SendQueueSize = envInt("SEND_QUEUE_SIZE", cfg.SendQueueSize)
    cfg.MaxConnections = int64(envInt("MAX_CONNECTIONS", int(cfg.MaxConnections)))
    cfg.MaxPerIP = envInt("MAX_PER_IP", cfg.MaxPerIP)
    cfg.DialRate = envFloat("DIAL_RATE", cfg.DialRate)
    cfg.DialBurst = envInt("DIAL_BURST", cfg.DialBurst)
    cfg.InboundRate = envFloat("INBOUND_RATE", cfg.InboundRate)
    cfg.InboundBurst = envInt("INBOUND_BURST", cfg.InboundBurst)
    cfg.PingInterval = envDuration("PING_INTERVAL", cfg.PingInterval)
    cfg.ReadTimeout = envDuration("READ_TIMEOUT", cfg.ReadTimeout)
    cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", cfg.WriteTimeout)
    if err := cfg.validate(); err != nil {
        return cfg, err
    }
    return cfg, nil
}

func (c Config) validate() error {
    switch c.AuthMode {
    case "dev":
    case "hmac":
        if c.AuthHMACSecret == "" {
            return fmt.Errorf("AUTH_HMAC_SECRET is required when AUTH_MODE=hmac")
        }
    default:
        return fmt.Errorf("unsupported auth mode %q", c.AuthMode)
    }
    if c.SendQueueSize <= 0 {
        return fmt.Errorf("sendQueueSize must be positive")
    }
    return nil
}

func envOr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envInt(k string, d int) int {
    if v := os.Getenv(k); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
    }
    return d
}

func envFloat(k string, d float64) float64 {
    if v := os.Getenv(k); v != "" {
        if f, err := strconv.ParseFloat(v, 64); err == nil {
            return f
        }
    }
    return d
}

func envDuration(k string, d time.Duration) time.Duration {
    if v := os.Getenv(k); v != "" {
        if dur, err := time.ParseDuration(v); err == nil {
            return dur
        }
    }
    return d
}
