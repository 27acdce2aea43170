package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	ServerPort string `yaml:"server_port"`
	LogLevel   string `yaml:"log_level"`

	// API de reservas e servidor realtime
	APIBaseURL  string `yaml:"api_base_url"`
	RealtimeURL string `yaml:"realtime_url"`

	Timezone string `yaml:"timezone"`

	CredentialStore string `yaml:"credential_store"`
	CredentialKey   string `yaml:"credential_key"`
	RedisURL        string `yaml:"redis_url"`
	DBUrl           string `yaml:"database_url"`

	ResyncCron string `yaml:"resync_cron"`
}

func defaults() *Config {
	return &Config{
		ServerPort:      "3000",
		LogLevel:        "info",
		APIBaseURL:      "http://localhost:8080/api",
		RealtimeURL:     "http://localhost:8080",
		Timezone:        "America/Sao_Paulo",
		CredentialStore: StoreMemory,
		CredentialKey:   "salon_token",
		RedisURL:        "redis://localhost:6379/0",
		ResyncCron:      "*/5 * * * *",
	}
}

// Load monta a configuração: defaults → arquivo YAML (CONFIG_FILE) → variáveis de ambiente.
func Load() *Config {
	_ = godotenv.Load() // .env é opcional

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config file ignored")
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.APIBaseURL = getEnv("API_BASE_URL", cfg.APIBaseURL)
	cfg.RealtimeURL = getEnv("REALTIME_URL", cfg.RealtimeURL)
	cfg.Timezone = getEnv("TIMEZONE", cfg.Timezone)
	cfg.CredentialStore = getEnv("CREDENTIAL_STORE", cfg.CredentialStore)
	cfg.CredentialKey = getEnv("CREDENTIAL_KEY", cfg.CredentialKey)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.DBUrl = getEnv("DATABASE_URL", cfg.DBUrl)
	cfg.ResyncCron = getEnv("RESYNC_CRON", cfg.ResyncCron)

	return cfg
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, cfg)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}
