package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// insecureDevSecret is the built-in fallback signing secret. It is only
// acceptable for local development; Load refuses to start with it in
// production.
const insecureDevSecret = "dev-only-insecure-secret"

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTSecret       string
	SessionTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	OTPTTL          time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion      string
	AllowedOrigins []string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users       string
	CarListings string
	TeamMembers string
}

// Load reads all configuration from environment variables. It returns an
// error when APP_ENV is "production" and no JWT_SECRET was supplied; the
// insecure default must never sign tokens outside local development.
func Load() (*Config, error) {
	env := getEnv("APP_ENV", "development")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required when APP_ENV=production")
		}
		secret = insecureDevSecret
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  env,

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:       getEnv("DYNAMO_TABLE_USERS", "users"),
			CarListings: getEnv("DYNAMO_TABLE_CAR_LISTINGS", "car_listings"),
			TeamMembers: getEnv("DYNAMO_TABLE_TEAM_MEMBERS", "team_members"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "dealer-media"),

		JWTSecret:       secret,
		SessionTokenTTL: getEnvDuration("SESSION_TOKEN_TTL", 24*time.Hour),
		ResetTokenTTL:   getEnvDuration("RESET_TOKEN_TTL", 5*time.Minute),
		OTPTTL:          getEnvDuration("OTP_TTL", 2*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@merzacars.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion:      getEnv("SNS_REGION", "us-east-1"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
// Internal error details are surfaced to clients only outside production.
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
