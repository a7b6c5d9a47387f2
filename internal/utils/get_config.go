package utils

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	AppPort string `yaml:"APP_PORT"`
	LogFile string `yaml:"LOG_FILE"`

	// Record store configuration
	StoreDriver     string `yaml:"STORE_DRIVER"`
	AirtableAPIKey  string `yaml:"AIRTABLE_API_KEY"`
	AirtableBaseID  string `yaml:"AIRTABLE_BASE_ID"`
	AirtableURL     string `yaml:"AIRTABLE_URL"`
	AirtableTimeout string `yaml:"AIRTABLE_TIMEOUT"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	SQLitePath string `yaml:"SQLITE_PATH"`

	// Generation configuration
	GeneratorProvider  string `yaml:"GENERATOR_PROVIDER"`
	GeminiAPIKey       string `yaml:"GEMINI_API_KEY"`
	GeminiModel        string `yaml:"GEMINI_MODEL"`
	LLMAPIKey          string `yaml:"LLM_API_KEY"`
	LLMBaseURL         string `yaml:"LLM_BASE_URL"`
	LLMModel           string `yaml:"LLM_MODEL"`
	GenerationTimeout  string `yaml:"GENERATION_TIMEOUT"`
	GenerationLanguage string `yaml:"GENERATION_LANGUAGE"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
	AWSEndpoint  string `yaml:"AWS_S3_ENDPOINT"`
}

var (
	config     Config
	configOnce sync.Once
)

// LoadConfig reads .env and config.yaml once. Both files are optional.
func LoadConfig() {
	configOnce.Do(func() {
		loadConfigFiles(".env", "config.yaml")
	})
}

func loadConfigFiles(envFile, yamlFile string) {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading env file: %s\n", err)
	}

	file, err := os.ReadFile(yamlFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error reading YAML file: %s\n", err)
		}
		return
	}

	var parsed Config
	if err := yaml.Unmarshal(file, &parsed); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
	config = parsed
}

// GetConfig returns the environment value for key when set, otherwise the
// value from config.yaml, otherwise the built-in default.
func GetConfig(key string) string {
	LoadConfig()
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	if v := fromFile(key); v != "" {
		return v
	}
	return defaults[key]
}

// GetDurationConfig parses a duration key such as "60s", falling back to the
// default when the configured value is malformed.
func GetDurationConfig(key string) time.Duration {
	if d, err := time.ParseDuration(GetConfig(key)); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(defaults[key])
	return d
}

var defaults = map[string]string{
	"APP_PORT":            "3000",
	"LOG_FILE":            "./logs/app.log",
	"STORE_DRIVER":        "airtable",
	"AIRTABLE_URL":        "https://api.airtable.com/v0",
	"AIRTABLE_TIMEOUT":    "30s",
	"SQLITE_PATH":         "recipes.db",
	"GENERATOR_PROVIDER":  "openai",
	"GEMINI_MODEL":        "gemini-2.0-flash",
	"LLM_BASE_URL":        "https://api.mistral.ai/v1",
	"LLM_MODEL":           "mistral-medium-latest",
	"GENERATION_TIMEOUT":  "60s",
	"GENERATION_LANGUAGE": "French",
}

func fromFile(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "LOG_FILE":
		return config.LogFile
	case "STORE_DRIVER":
		return config.StoreDriver
	case "AIRTABLE_API_KEY":
		return config.AirtableAPIKey
	case "AIRTABLE_BASE_ID":
		return config.AirtableBaseID
	case "AIRTABLE_URL":
		return config.AirtableURL
	case "AIRTABLE_TIMEOUT":
		return config.AirtableTimeout
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
	case "SQLITE_PATH":
		return config.SQLitePath
	case "GENERATOR_PROVIDER":
		return config.GeneratorProvider
	case "GEMINI_API_KEY":
		return config.GeminiAPIKey
	case "GEMINI_MODEL":
		return config.GeminiModel
	case "LLM_API_KEY":
		return config.LLMAPIKey
	case "LLM_BASE_URL":
		return config.LLMBaseURL
	case "LLM_MODEL":
		return config.LLMModel
	case "GENERATION_TIMEOUT":
		return config.GenerationTimeout
	case "GENERATION_LANGUAGE":
		return config.GenerationLanguage
	case "JWT_SECRET":
		return config.JWTSecret
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "AWS_S3_ENDPOINT":
		return config.AWSEndpoint
	default:
		return ""
	}
}
