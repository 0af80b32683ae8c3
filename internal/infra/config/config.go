package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	LLM     LLMConfig
	Catalog CatalogConfig
	Whisper WhisperConfig
}

// LLMConfig points at an OpenAI-compatible chat completions endpoint. The
// planner and judge share the endpoint but usually run different models.
type LLMConfig struct {
	URL            string
	APIKey         string
	PlannerModel   string
	JudgeModel     string
	Timeout        int
	PlanMaxTokens  int
	JudgeMaxTokens int
}

type CatalogConfig struct {
	URL       string
	Country   string
	Limit     int
	Timeout   int
	CacheSize int
	CacheTTL  int // minutes
}

type WhisperConfig struct {
	URL     string
	Timeout int
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),
		LLM: LLMConfig{
			URL:            getEnv("LLM_URL", "https://api.openai.com"),
			APIKey:         getSecret("LLM_API_KEY", "LLM_API_KEY_FILE", ""),
			PlannerModel:   getEnv("PLANNER_MODEL", "gpt-5-mini"),
			JudgeModel:     getEnv("JUDGE_MODEL", "gpt-5-nano"),
			Timeout:        getEnvInt("LLM_TIMEOUT", 120),
			PlanMaxTokens:  getEnvInt("PLAN_MAX_TOKENS", 1024),
			JudgeMaxTokens: getEnvInt("JUDGE_MAX_TOKENS", 512),
		},
		Catalog: CatalogConfig{
			URL:       getEnv("CATALOG_URL", "https://api-app.noon.com"),
			Country:   getEnv("CATALOG_COUNTRY", "AE"),
			Limit:     getEnvInt("CATALOG_LIMIT", 3),
			Timeout:   getEnvInt("CATALOG_TIMEOUT", 30),
			CacheSize: getEnvInt("CATALOG_CACHE_SIZE", 256),
			CacheTTL:  getEnvInt("CATALOG_CACHE_TTL_MINUTES", 5),
		},
		Whisper: WhisperConfig{
			URL:     getEnv("WHISPER_URL", "http://whisper:8090"),
			Timeout: getEnvInt("WHISPER_TIMEOUT", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
