package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Env struct {
	AppAddr  string `mapstructure:"APP_ADDR"`
	GinMode  string `mapstructure:"GIN_MODE"`
	AppEnv   string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StoreDriver string `mapstructure:"STORE_DRIVER"`
	StoreKey    string `mapstructure:"STORE_KEY"`
	DataFile    string `mapstructure:"DATA_FILE"`

	DBDSN         string `mapstructure:"DB_DSN"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	JWTSecret       string `mapstructure:"JWT_SECRET"`
	JWTTTLHours     int    `mapstructure:"JWT_TTL_HOURS"`
	LoginRatePerMin int    `mapstructure:"LOGIN_RATE_PER_MIN"`
	CORSOrigins     string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	ShutdownTimeoutSeconds int `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// DefaultStoreKey is the single key the whole data snapshot lives under.
const DefaultStoreKey = "nuba_flower_tours_data"

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", "file")
	v.SetDefault("STORE_KEY", DefaultStoreKey)
	v.SetDefault("DATA_FILE", "data/"+DefaultStoreKey+".json")
	v.SetDefault("DB_DSN", "root:@tcp(127.0.0.1:3306)/nuba_tours?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "nuba_tours")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("LOGIN_RATE_PER_MIN", 20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
}

// LoadEnv reads config.yaml (., ./config) when present, then environment variables.
func LoadEnv() Env {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("no config file found, using environment variables only")
	}

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	env.normalize()
	return env
}

func (e *Env) normalize() {
	e.AppAddr = strings.TrimSpace(e.AppAddr)
	if e.AppAddr == "" {
		e.AppAddr = ":8080"
	}
	e.StoreDriver = strings.ToLower(strings.TrimSpace(e.StoreDriver))
	if strings.TrimSpace(e.StoreKey) == "" {
		e.StoreKey = DefaultStoreKey
	}
	if e.JWTTTLHours <= 0 {
		e.JWTTTLHours = 24
	}
	if e.LoginRatePerMin <= 0 {
		e.LoginRatePerMin = 20
	}
	if e.ShutdownTimeoutSeconds <= 0 {
		e.ShutdownTimeoutSeconds = 10
	}
}

func (e Env) IsProduction() bool {
	return strings.EqualFold(e.AppEnv, "production")
}

func (e Env) TokenTTL() time.Duration {
	return time.Duration(e.JWTTTLHours) * time.Hour
}

func (e Env) ShutdownTimeout() time.Duration {
	return time.Duration(e.ShutdownTimeoutSeconds) * time.Second
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (e Env) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(e.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
