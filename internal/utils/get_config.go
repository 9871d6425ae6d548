package utils

import (
	"os"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort     string `yaml:"APP_PORT"`
	AppURL      string `yaml:"APP_URL"`
	AppTimezone string `yaml:"APP_TIMEZONE"`
	LogPath     string `yaml:"LOG_PATH"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBPath     string `yaml:"DB_PATH"`

	// Initial administrator, created once by the seeder
	AdminUsername string `yaml:"ADMIN_USERNAME"`
	AdminEmail    string `yaml:"ADMIN_EMAIL"`
	AdminPassword string `yaml:"ADMIN_PASSWORD"`

	// JWT and sessions
	JWTSecret     string `yaml:"JWT_SECRET"`
	JWTTTLMinutes string `yaml:"JWT_TTL_MINUTES"`
	RedisURL      string `yaml:"REDIS_URL"`
	RateLimitMax  string `yaml:"RATE_LIMIT_MAX"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`
	ContactEmail     string `yaml:"CONTACT_EMAIL"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Google login
	GoogleClientID     string `yaml:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `yaml:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `yaml:"GOOGLE_REDIRECT_URL"`
	AvatarFetchTimeout string `yaml:"AVATAR_FETCH_TIMEOUT"`
}

var (
	config Config
	mu     sync.RWMutex
)

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"APP_PORT":             &c.AppPort,
		"APP_URL":              &c.AppURL,
		"APP_TIMEZONE":         &c.AppTimezone,
		"LOG_PATH":             &c.LogPath,
		"DB_DRIVER":            &c.DBDriver,
		"DB_USER":              &c.DBUser,
		"DB_NAME":              &c.DBName,
		"DB_PASSWORD":          &c.DBPassword,
		"DB_PORT":              &c.DBPort,
		"DB_HOST":              &c.DBHost,
		"DB_PATH":              &c.DBPath,
		"ADMIN_USERNAME":       &c.AdminUsername,
		"ADMIN_EMAIL":          &c.AdminEmail,
		"ADMIN_PASSWORD":       &c.AdminPassword,
		"JWT_SECRET":           &c.JWTSecret,
		"JWT_TTL_MINUTES":      &c.JWTTTLMinutes,
		"REDIS_URL":            &c.RedisURL,
		"RATE_LIMIT_MAX":       &c.RateLimitMax,
		"SMTP_HOST":            &c.SMTPHost,
		"SMTP_PORT":            &c.SMTPPort,
		"SMTP_SENDER_NAME":     &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":      &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD":   &c.SMTPAuthPassword,
		"CONTACT_EMAIL":        &c.ContactEmail,
		"AWS_S3_BUCKET":        &c.AWSS3Bucket,
		"AWS_S3_REGION":        &c.AWSS3Region,
		"AWS_ACCESS_KEY":       &c.AWSAccessKey,
		"AWS_SECRET_KEY":       &c.AWSSecretKey,
		"GOOGLE_CLIENT_ID":     &c.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": &c.GoogleClientSecret,
		"GOOGLE_REDIRECT_URL":  &c.GoogleRedirectURL,
		"AVATAR_FETCH_TIMEOUT": &c.AvatarFetchTimeout,
	}
}

// LoadConfig reads config.yaml (or the file named by CONFIG_PATH), then lets
// .env and the process environment override individual keys.
func LoadConfig() {
	mu.Lock()
	defer mu.Unlock()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Warnf("Error reading YAML file: %s", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Errorf("Error parsing YAML file: %s", err)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Error loading .env file: %s", err)
	}

	for key, value := range config.fields() {
		if env := os.Getenv(key); env != "" {
			*value = env
		}
	}
}

func GetConfig(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value, ok := config.fields()[key]; ok {
		return *value
	}
	return ""
}

// GetConfigInt returns key parsed as an int, or def when unset or malformed.
func GetConfigInt(key string, def int) int {
	value, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return def
	}
	return value
}

func SetConfig(key, value string) {
	mu.Lock()
	defer mu.Unlock()

	if field, ok := config.fields()[key]; ok {
		*field = value
	}
}
