package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	// Redis
	EnableRedis bool
	RedisURL    string

	// JWT
	JWTSecret string

	// Server
	Port        string
	Environment string
	LogLevel    string

	// CORS
	CORSOrigins []string

	// Upload
	UploadDir     string
	MaxUploadSize int64

	// Rate limiting
	UploadRateLimitRequests     int
	UploadRateLimitWindow       int
	TranscribeRateLimitRequests int
	TranscribeRateLimitWindow   int

	// Transcription
	EnableTranscription  bool
	OpenAIAPIKey         string
	TranscriptionModel   string
	TranscriptionLang    string
	TranscriptionBaseURL string

	// Features
	EnableCache   bool
	EnableMetrics bool
}

func New() *Config {
	c := &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "courseuser"),
		DBPassword: getEnv("DB_PASSWORD", "coursepassword"),
		DBName:     getEnv("DB_NAME", "coursedb"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", true),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),

		// CORS
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		// Upload
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_SIZE_MB", 10)) * 1024 * 1024,

		// Rate limiting
		UploadRateLimitRequests:     getEnvAsInt("UPLOAD_RATE_LIMIT_REQUESTS", 10),
		UploadRateLimitWindow:       getEnvAsInt("UPLOAD_RATE_LIMIT_WINDOW", 300),
		TranscribeRateLimitRequests: getEnvAsInt("TRANSCRIBE_RATE_LIMIT_REQUESTS", 6),
		TranscribeRateLimitWindow:   getEnvAsInt("TRANSCRIBE_RATE_LIMIT_WINDOW", 300),

		// Transcription
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		TranscriptionModel:   getEnv("TRANSCRIPTION_MODEL", "whisper-1"),
		TranscriptionLang:    getEnv("TRANSCRIPTION_LANGUAGE", ""),
		TranscriptionBaseURL: getEnv("TRANSCRIPTION_BASE_URL", ""),

		// Features
		EnableCache:   getEnvAsBool("ENABLE_CACHE", true),
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}

	// Transcription turns on automatically once an API key is present,
	// unless explicitly disabled.
	c.EnableTranscription = getEnvAsBool("ENABLE_TRANSCRIPTION", c.OpenAIAPIKey != "")

	// Build DSN
	c.DatabaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)

	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
