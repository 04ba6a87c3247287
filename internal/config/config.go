package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	APIPort       string `mapstructure:"API_PORT"`
	Env           string `mapstructure:"ENV"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	CORSOrigins   string `mapstructure:"CORS_ORIGINS"`
	RatePerMinute int    `mapstructure:"RATE_PER_MINUTE"`
}

var AppConfig Config

// Load reads .env if present, then the environment, with sane defaults for
// local development.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	viper.AutomaticEnv()

	viper.SetDefault("API_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "dentaheal")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_PER_MINUTE", 100)

	// AutomaticEnv alone does not populate Unmarshal, so bind each key
	for _, key := range []string{
		"API_PORT", "ENV", "MONGO_URI", "MONGO_DATABASE", "JWT_SECRET",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CORS_ORIGINS", "RATE_PER_MINUTE",
	} {
		if err := viper.BindEnv(key); err != nil {
			log.Fatalf("Failed to bind %s: %v", key, err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func IsProduction() bool {
	return AppConfig.Env == "production"
}
