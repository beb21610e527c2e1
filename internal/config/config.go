// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	ObjectStore ObjectStoreConfig
	Cache       CacheConfig
	Chat        ChatConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// StoreConfig selects the backend that holds the record collections.
type StoreConfig struct {
	Driver             string // file, postgres, s3, redis, memory
	DataDir            string
	SalesCollection    string
	ProductsCollection string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ObjectStoreConfig holds S3-compatible connection info.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

type CacheConfig struct {
	RedisURL       string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	LockBackend    string // local or redis
	LockTTLSeconds int
}

type ChatConfig struct {
	Provider       string // mistral or gemini
	MistralAPIKey  string
	MistralURL     string
	MistralModel   string
	GeminiAPIKey   string
	GeminiModel    string
	MaxTokens      int
	TimeoutSeconds int
}

type LogConfig struct {
	Level string
	File  string
}

var (
	once     sync.Once
	instance *Config
)

// Load reads configuration from the environment (and .env) exactly once.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		v := viper.New()
		SetDefaults(v)
		v.AutomaticEnv()

		instance = FromViper(v)
		if instance.Store.Driver == "file" {
			ensureDir(instance.Store.DataDir)
		}
	})

	return instance
}

// SetDefaults registers every known key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("STORE_DRIVER", "file")
	v.SetDefault("APP_DATA_DIR", "./data")
	v.SetDefault("SALES_COLLECTION", "sales_data")
	v.SetDefault("PRODUCTS_COLLECTION", "product_data")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "salescast")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PREFIX", "collections/")
	v.SetDefault("S3_USE_SSL", true)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_BACKEND", "local")
	v.SetDefault("LOCK_TTL_SECONDS", 10)

	v.SetDefault("CHAT_PROVIDER", "mistral")
	v.SetDefault("MISTRAL_API_KEY", "")
	v.SetDefault("MISTRAL_URL", "https://api.mistral.ai/v1/conversations")
	v.SetDefault("MISTRAL_MODEL", "mistral-large-latest")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-pro-latest")
	v.SetDefault("CHAT_MAX_TOKENS", 300)
	v.SetDefault("CHAT_TIMEOUT_SECONDS", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Store: StoreConfig{
			Driver:             v.GetString("STORE_DRIVER"),
			DataDir:            v.GetString("APP_DATA_DIR"),
			SalesCollection:    v.GetString("SALES_COLLECTION"),
			ProductsCollection: v.GetString("PRODUCTS_COLLECTION"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Bucket:    v.GetString("S3_BUCKET"),
			Region:    v.GetString("S3_REGION"),
			Prefix:    v.GetString("S3_PREFIX"),
			UseSSL:    v.GetBool("S3_USE_SSL"),
		},
		Cache: CacheConfig{
			RedisURL:       v.GetString("REDIS_URL"),
			RedisHost:      v.GetString("REDIS_HOST"),
			RedisPort:      v.GetString("REDIS_PORT"),
			RedisPassword:  v.GetString("REDIS_PASSWORD"),
			RedisDB:        v.GetInt("REDIS_DB"),
			LockBackend:    v.GetString("LOCK_BACKEND"),
			LockTTLSeconds: v.GetInt("LOCK_TTL_SECONDS"),
		},
		Chat: ChatConfig{
			Provider:       v.GetString("CHAT_PROVIDER"),
			MistralAPIKey:  v.GetString("MISTRAL_API_KEY"),
			MistralURL:     v.GetString("MISTRAL_URL"),
			MistralModel:   v.GetString("MISTRAL_MODEL"),
			GeminiAPIKey:   v.GetString("GEMINI_API_KEY"),
			GeminiModel:    v.GetString("GEMINI_MODEL"),
			MaxTokens:      v.GetInt("CHAT_MAX_TOKENS"),
			TimeoutSeconds: v.GetInt("CHAT_TIMEOUT_SECONDS"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}
}

// Timeout returns the chat transport timeout.
func (c ChatConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
