package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	MongoURI    string
	MongoDBName string
	JWTSecret   string

	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPPassword string

	FCMServerKey string

	// AppBaseURL is the frontend origin used to build invitation and
	// study plan links in outbound mail.
	AppBaseURL string

	// SchedulerTimezone anchors the daily scan times, e.g. "Asia/Tehran".
	SchedulerTimezone string
}

// LoadConfig reads the .env file (if present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on process environment")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB", "studybuddy"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPSender:        getEnv("SMTP_SENDER", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		FCMServerKey:      getEnv("FCM_SERVER_KEY", ""),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:3000"),
		SchedulerTimezone: getEnv("SCHEDULER_TZ", "Asia/Tehran"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
