package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type ClientConfig struct {
	BackendURL      string        `mapstructure:"backend_url"`
	RealtimeURL     string        `mapstructure:"realtime_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	CheckUsername   bool          `mapstructure:"check_username"`
	DefaultIdentity string        `mapstructure:"default_identity"`
	LogFile         string        `mapstructure:"log_file"`
}

type ServerConfig struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Greeting   string        `mapstructure:"greeting"`
}

type Config struct {
	Client ClientConfig `mapstructure:"client"`
	Server ServerConfig `mapstructure:"server"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("client.backend_url", "http://localhost:8080")
	v.SetDefault("client.realtime_url", "ws://localhost:8080/ws")
	v.SetDefault("client.request_timeout", "15s")
	v.SetDefault("client.check_username", true)
	v.SetDefault("client.log_file", "chat-client.log")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_limit", 32768)
	v.SetDefault("server.ping_period", "54s")
	v.SetDefault("server.greeting", "Welcome to %s, %s! The AI agent is listening.")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
