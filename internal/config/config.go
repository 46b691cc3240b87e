package config

import (
	"os"
	"strconv"
	"time"
)

// MongoConfig holds document database connection settings.
type MongoConfig struct {
	URI               string
	Database          string
	AdsCollection     string
	UsersCollection   string
	ConnectTimeoutSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL, when set, is joined with object keys to build durable
	// image URLs instead of presigning (presigned URLs expire).
	PublicBaseURL string
}

// LocalStorageConfig holds the on-disk fallback store used when object
// storage is unreachable.
type LocalStorageConfig struct {
	Dir     string
	BaseURL string
}

// GenAIConfig holds endpoints and credentials for the external generation
// APIs. Sensitive values are not hardcoded.
type GenAIConfig struct {
	AnthropicBaseURL  string
	AnthropicKey      string
	AnthropicModel    string
	FluxEndpoint      string
	FluxKey           string
	GeminiBaseURL     string
	GeminiKey         string
	GeminiModel       string
	RequestTimeoutSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost string
	Port    string
	// BaseURL is the externally visible server URL, used to absolutize
	// locally stored image URLs.
	BaseURL string
	// DefaultWorkspace is used when a request carries no workspace_id.
	DefaultWorkspace string
	LogLevel         string
	Mongo            MongoConfig
	MinIO            MinIOConfig
	Local            LocalStorageConfig
	GenAI            GenAIConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:          getEnv("APP_HOST", "localhost:8080"),
		Port:             getEnv("PORT", "8080"), // default only for non-sensitive value
		BaseURL:          getEnv("BASE_URL", "http://localhost:8080"),
		DefaultWorkspace: getEnv("WORKSPACE_ID", "default"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Mongo: MongoConfig{
			URI:               getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:          getEnv("DB_NAME", "ad_generator_db"),
			AdsCollection:     getEnv("ADS_COLLECTION_NAME", "generated_ads"),
			UsersCollection:   getEnv("USERS_COLLECTION_NAME", "users"),
			ConnectTimeoutSec: getEnvInt("MONGO_CONNECT_TIMEOUT_SEC", 10),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", "generated-images"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
		},
		Local: LocalStorageConfig{
			Dir:     getEnv("UPLOAD_FOLDER", "generated_images"),
			BaseURL: getEnv("IMAGES_BASE_PATH", "/images"),
		},
		GenAI: GenAIConfig{
			AnthropicBaseURL:  getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			AnthropicKey:      getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:    getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
			FluxEndpoint:      getEnv("FLUX_API_ENDPOINT", ""),
			FluxKey:           getEnv("FLUX_API_KEY", ""),
			GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			GeminiKey:         getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
			RequestTimeoutSec: getEnvInt("GENAI_REQUEST_TIMEOUT_SEC", 120),
		},
	}
}

// ConnectTimeout returns the Mongo connect timeout as a duration.
func (c MongoConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSec) * time.Second
}

// RequestTimeout returns the generation API timeout as a duration.
func (c GenAIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
