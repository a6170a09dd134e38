package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	Debug      bool

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret          string
	JWTExpirationHours time.Duration

	// TestOTPCode is the fixed verification code accepted by the phone login
	// flow. There is no real SMS delivery.
	TestOTPCode string

	AWSRegion        string
	SQSEventQueueURL string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	jwtExpHours, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	debug, _ := strconv.ParseBool(getEnv("DEBUG", "false"))

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Debug:      debug,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "smartpark"),
		DBPassword: getEnv("DB_PASSWORD", "smartpark"),
		DBName:     getEnv("DB_NAME", "smartpark_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpirationHours: time.Duration(jwtExpHours) * time.Hour,

		TestOTPCode: getEnv("TEST_OTP_CODE", "123456"),

		AWSRegion:        getEnv("AWS_REGION", "ap-south-1"),
		SQSEventQueueURL: getEnv("SQS_EVENT_QUEUE_URL", ""),
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
