// Package config loads the inventory service configuration.
//
// Sources, lowest priority first: built-in defaults, config.yaml, .env, and
// process environment variables prefixed with INVENTORY_. Underscores in env
// keys become dots, so INVENTORY_HTTP_PORT sets http.port.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "INVENTORY_"

type Config struct {
	HTTP struct {
		Port              int           `koanf:"port"`
		ReadHeaderTimeout time.Duration `koanf:"readheadertimeout"`
		ShutdownTimeout   time.Duration `koanf:"shutdowntimeout"`
	} `koanf:"http"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`

	Metrics struct {
		Enabled bool   `koanf:"enabled"`
		Token   string `koanf:"token"`
	} `koanf:"metrics"`

	CORS struct {
		Origins string `koanf:"origins"`
	} `koanf:"cors"`

	RateLimit struct {
		WritesPerMinute int  `koanf:"writesperminute"`
		TrustForwarded  bool `koanf:"trustforwarded"`
	} `koanf:"ratelimit"`
}

func defaults() map[string]any {
	return map[string]any{
		"http.port":                 8080,
		"http.readheadertimeout":    5 * time.Second,
		"http.shutdowntimeout":      10 * time.Second,
		"log.level":                 "info",
		"metrics.enabled":           true,
		"metrics.token":             "",
		"cors.origins":              "*",
		"ratelimit.writesperminute": 0,
		"ratelimit.trustforwarded":  false,
	}
}

// Paths lets tests point the loader at fixture files.
type Paths struct {
	YAML   string
	DotEnv string
}

func DefaultPaths() Paths {
	return Paths{YAML: "config.yaml", DotEnv: ".env"}
}

func Load() (Config, error) {
	return LoadFrom(DefaultPaths())
}

func LoadFrom(p Paths) (Config, error) {
	var cfg Config
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if p.YAML != "" {
		if err := k.Load(file.Provider(p.YAML), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARN: error loading YAML config file '%s': %v", p.YAML, err)
		}
	}

	if p.DotEnv != "" {
		if fromFile, err := godotenv.Read(p.DotEnv); err == nil {
			m := make(map[string]any, len(fromFile))
			for key, value := range fromFile {
				if !strings.HasPrefix(key, EnvPrefix) {
					continue
				}
				m[envKey(key)] = value
			}
			if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
				log.Printf("WARN: error loading .env config: %v", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARN: error reading .env file: %v", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", ".")
}

func (c Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP server port: %d", c.HTTP.Port)
	}
	if c.HTTP.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("invalid HTTP read header timeout: %v", c.HTTP.ReadHeaderTimeout)
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid HTTP shutdown timeout: %v", c.HTTP.ShutdownTimeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	if c.RateLimit.WritesPerMinute < 0 {
		return fmt.Errorf("invalid ratelimit.writesPerMinute: %d", c.RateLimit.WritesPerMinute)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}

// Origins splits the comma separated CORS origin list.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORS.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) String() string {
	token := "<not configured>"
	if c.Metrics.Token != "" {
		token = "****"
	}
	return fmt.Sprintf("http.port=%d, http.readHeaderTimeout=%v, http.shutdownTimeout=%v, log.level=%s, metrics.enabled=%t, metrics.token=%s, cors.origins=%s, ratelimit.writesPerMinute=%d, ratelimit.trustForwarded=%t",
		c.HTTP.Port,
		c.HTTP.ReadHeaderTimeout,
		c.HTTP.ShutdownTimeout,
		c.Log.Level,
		c.Metrics.Enabled,
		token,
		c.CORS.Origins,
		c.RateLimit.WritesPerMinute,
		c.RateLimit.TrustForwarded)
}
