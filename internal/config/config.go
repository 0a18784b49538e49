package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "MEET"

type StoreConfig struct {
	Driver     string `mapstructure:"driver"`
	BadgerPath string `mapstructure:"badger_path"`
	RedisURL   string `mapstructure:"redis_url"`
}

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`
	LogLevel   string `mapstructure:"log_level"`

	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	PongWait     time.Duration `mapstructure:"pong_wait"`
	WriteWait    time.Duration `mapstructure:"write_wait"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	Backpressure string        `mapstructure:"backpressure"`

	ChatRateLimit    int           `mapstructure:"chat_rate_limit"`
	ChatRateInterval time.Duration `mapstructure:"chat_rate_interval"`

	Store       StoreConfig `mapstructure:"store"`
	ICEServers  []string    `mapstructure:"ice_servers"`
	CORSOrigins []string    `mapstructure:"cors_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("backpressure", "drop")
	v.SetDefault("chat_rate_limit", 10)
	v.SetDefault("chat_rate_interval", "5s")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.badger_path", "./data/meetings")
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")
	v.SetDefault("ice_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("cors_origins", []string{"*"})
}

// Load reads file (or config/config.<CONFIG_ENV>.yaml when file is empty),
// then applies MEET_* environment overrides. A .env file in the working
// directory is loaded first when present.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg("read .env")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if file == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		file = fmt.Sprintf("config/config.%s.yaml", env)
	}
	v.SetConfigFile(file)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", file).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", file).Msg("config loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Store.Driver {
	case "memory", "badger", "redis":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == "badger" && c.Store.BadgerPath == "" {
		return errors.New("store.badger_path is required for the badger driver")
	}
	if c.Store.Driver == "redis" && c.Store.RedisURL == "" {
		return errors.New("store.redis_url is required for the redis driver")
	}
	if c.PingPeriod > 0 && c.PongWait > 0 && c.PingPeriod >= c.PongWait {
		return fmt.Errorf("ping_period (%s) must be shorter than pong_wait (%s)", c.PingPeriod, c.PongWait)
	}
	return nil
}
