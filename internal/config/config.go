package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Mcp      MCPConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
	TitleTopic   string
}

type AIConfig struct {
	LLMProvider      string // "gemini" or "ollama"
	LLMModel         string // e.g. "gemini-2.0-flash", "llama3"
	OllamaBaseURL    string
	TranscriberModel string
}

type MCPConfig struct {
	TavilyURL   string
	TavilyToken string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			TitleTopic:   getEnv("THREAD_TITLE_TOPIC_NAME", "GENERATE_THREAD_TITLE"),
		},
		Ai: AIConfig{
			LLMProvider:      getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:         getEnv("LLM_MODEL", "gemini-2.0-flash"),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			TranscriberModel: getEnv("TRANSCRIBER_MODEL", "whisper-1"),
		},
		Mcp: MCPConfig{
			TavilyURL:   getEnv("TAVILY_MCP_URL", "https://mcp.tavily.com/mcp/"),
			TavilyToken: getEnv("TAVILY_MCP_TOKEN", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
