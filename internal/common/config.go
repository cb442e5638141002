package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR   OCRConfig
	Cache CacheConfig
	Temp  TempConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm       string // binary name or absolute path; if empty -> "pdftoppm"
	DPI            int    // rasterization DPI for scanned pages, default 200
	Language       string // tesseract language, default "eng"
	Preprocess     bool   // grayscale/contrast/sharpen before local OCR
	VisionEndpoint string // cloud vision API endpoint; empty disables the provider
	VisionAPIKey   string
	VisionTimeout  time.Duration
	TessdataDir    string
}

// CacheConfig holds whole-document and OCR cache configuration
type CacheConfig struct {
	MaxEntries    int
	DefaultTTL    time.Duration
	OCRMaxEntries int
	SQLitePath    string // optional persistent store; empty keeps cache memory-only
}

// TempConfig holds temporary-space configuration
type TempConfig struct {
	Dir       string
	MinFreeMB int
	MaxAge    time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Pdftoppm:       getEnv("PDFTOPPM_BIN", "pdftoppm"),
			DPI:            getEnvAsInt("OCR_DPI", 200),
			Language:       getEnv("OCR_LANGUAGE", "eng"),
			Preprocess:     getEnvAsBool("OCR_PREPROCESS", true),
			VisionEndpoint: getEnv("VISION_ENDPOINT", ""),
			VisionAPIKey:   getEnv("VISION_API_KEY", ""),
			VisionTimeout:  getEnvAsDuration("VISION_TIMEOUT", 30*time.Second),
			TessdataDir:    getEnv("TESSDATA_PREFIX", ""),
		},
		Cache: CacheConfig{
			MaxEntries:    getEnvAsInt("CACHE_MAX_ENTRIES", 100),
			DefaultTTL:    getEnvAsDuration("CACHE_TTL", 30*time.Minute),
			OCRMaxEntries: getEnvAsInt("OCR_CACHE_MAX_ENTRIES", 50),
			SQLitePath:    getEnv("CACHE_SQLITE_PATH", ""),
		},
		Temp: TempConfig{
			Dir:       getEnv("TEMP_DIR", os.TempDir()),
			MinFreeMB: getEnvAsInt("TEMP_MIN_FREE_MB", 100),
			MaxAge:    getEnvAsDuration("TEMP_MAX_AGE", time.Hour),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
