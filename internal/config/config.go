package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBDriver      string `yaml:"db_driver"`
	DBHost        string `yaml:"db_host"`
	DBPort        string `yaml:"db_port"`
	DBUser        string `yaml:"db_user"`
	DBPassword    string `yaml:"db_password"`
	DBName        string `yaml:"db_name"`
	DBPath        string `yaml:"db_path"`
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	SessionSecret string `yaml:"session_secret"`
	EncryptSecret string `yaml:"encrypt_secret"`
	GinMode       string `yaml:"gin_mode"`
	Port          string `yaml:"port"`
}

// Load builds the configuration from an optional config.yaml overlaid
// with environment variables; a .env file is honored if present.
// Environment always wins over the file.
func Load() *Config {
	// Missing .env is fine; env vars may come from the environment.
	_ = godotenv.Load()

	file := loadFile("config.yaml")

	return &Config{
		DBDriver:      getEnv("DB_DRIVER", file.DBDriver, "sqlite"),
		DBHost:        getEnv("DB_HOST", file.DBHost, "localhost"),
		DBPort:        getEnv("DB_PORT", file.DBPort, "3306"),
		DBUser:        getEnv("DB_USER", file.DBUser, "taskman"),
		DBPassword:    getEnv("DB_PASSWORD", file.DBPassword, "taskman"),
		DBName:        getEnv("DB_NAME", file.DBName, "taskman"),
		DBPath:        getEnv("DB_PATH", file.DBPath, "taskman.db"),
		RedisHost:     getEnv("REDIS_HOST", file.RedisHost, ""),
		RedisPort:     getEnv("REDIS_PORT", file.RedisPort, "6379"),
		SessionSecret: getEnv("SESSION_SECRET", file.SessionSecret, "default-secret-key-change-me"),
		EncryptSecret: getEnv("ENCRYPT_SECRET", file.EncryptSecret, "default-encrypt-secret-change-me"),
		GinMode:       getEnv("GIN_MODE", file.GinMode, "debug"),
		Port:          getEnv("PORT", file.Port, "8080"),
	}
}

func loadFile(path string) Config {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

func getEnv(key string, fallbacks ...string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	for _, fallback := range fallbacks {
		if fallback != "" {
			return fallback
		}
	}
	return ""
}
