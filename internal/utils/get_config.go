package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	AppPort string `yaml:"APP_PORT"`
	AppURL  string `yaml:"APP_URL"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Hierarchical store: postgres, redis or memory
	StoreDriver   string `yaml:"STORE_DRIVER"`
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"REDIS_DB"`
	RedisPrefix   string `yaml:"REDIS_PREFIX"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket    string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region    string `yaml:"AWS_S3_REGION"`
	AWSS3PublicURL string `yaml:"AWS_S3_PUBLIC_URL"`
	AWSAccessKey   string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey   string `yaml:"AWS_SECRET_KEY"`

	// Chat completion API configuration
	OpenAIAPIKey  string  `yaml:"OPENAI_API_KEY"`
	OpenAIModel   string  `yaml:"OPENAI_MODEL"`
	OpenAIBaseURL string  `yaml:"OPENAI_BASE_URL"`
	OpenAIRPS     float64 `yaml:"OPENAI_RPS"`

	ReconcileSchedule string `yaml:"RECONCILE_SCHEDULE"`
}

var config Config

// LoadConfig reads config.yaml from the working directory. Environment
// variables of the same name win over the file.
func LoadConfig() {
	LoadConfigFile("config.yaml")
}

func LoadConfigFile(path string) {
	config = Config{}
	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}
}

func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	v := fileValue(key)
	if v == "" {
		return defaultValue(key)
	}
	return v
}

func fileValue(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "STORE_DRIVER":
		return config.StoreDriver
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "REDIS_DB":
		return strconv.Itoa(config.RedisDB)
	case "REDIS_PREFIX":
		return config.RedisPrefix
	case "JWT_SECRET":
		return config.JWTSecret
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_PUBLIC_URL":
		return config.AWSS3PublicURL
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "OPENAI_API_KEY":
		return config.OpenAIAPIKey
	case "OPENAI_MODEL":
		return config.OpenAIModel
	case "OPENAI_BASE_URL":
		return config.OpenAIBaseURL
	case "OPENAI_RPS":
		if config.OpenAIRPS == 0 {
			return ""
		}
		return strconv.FormatFloat(config.OpenAIRPS, 'f', -1, 64)
	case "RECONCILE_SCHEDULE":
		return config.ReconcileSchedule
	default:
		return ""
	}
}

func defaultValue(key string) string {
	switch key {
	case "APP_PORT":
		return "8080"
	case "STORE_DRIVER":
		return "postgres"
	case "REDIS_PREFIX":
		return "snacktrack"
	case "OPENAI_MODEL":
		return "gpt-4o-mini"
	case "OPENAI_BASE_URL":
		return "https://api.openai.com/v1"
	case "OPENAI_RPS":
		return "2"
	case "RECONCILE_SCHEDULE":
		return "@every 1m"
	default:
		return ""
	}
}
