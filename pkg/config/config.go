package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort       string
	BackendBaseURL   string
	ChannelURL       string
	BackendAuthToken string
	ReviewerID       string
	ReviewerUsername string
	PageName         string
	Environment      string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		BackendBaseURL:   getEnv("BACKEND_BASE_URL", "http://localhost:3000/api"),
		ChannelURL:       getEnv("CHANNEL_URL", "ws://localhost:3001/socket"),
		BackendAuthToken: getEnv("BACKEND_AUTH_TOKEN", ""),
		ReviewerID:       getEnv("REVIEWER_ID", "reviewer_1"),
		ReviewerUsername: getEnv("REVIEWER_USERNAME", "reviewer"),
		PageName:         getEnv("PAGE_NAME", "VPBank Official"),
		Environment:      getEnv("ENVIRONMENT", "development"),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
