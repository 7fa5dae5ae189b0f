package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/unipool/unipool/internal/pkg/models"
)

// InitConfig loads configuration from a .env file (local environments) and
// the process environment.
func InitConfig(configPath string) *models.Config {
	env := GetEnv("APP_ENV", "local")
	if env == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 0)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Database config
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 0)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 0)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 0)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// MQTT config
	configs.MQTT.BrokerURL = GetEnv("MQTT_BROKER_URL", "")
	configs.MQTT.Namespace = GetEnv("MQTT_NAMESPACE", "unipool")
	configs.MQTT.PublisherUser = GetEnv("MQTT_PUBLISHER_USER", "")
	configs.MQTT.PublisherPassword = GetEnv("MQTT_PUBLISHER_PASSWORD", "")
	configs.MQTT.SubscriberUser = GetEnv("MQTT_SUBSCRIBER_USER", "")
	configs.MQTT.SubscriberPassword = GetEnv("MQTT_SUBSCRIBER_PASSWORD", "")
	configs.MQTT.ConnectTimeout = GetEnvAsInt("MQTT_CONNECT_TIMEOUT", 10)

	// JWT config
	configs.JWT.Secret = GetEnv("JWT_SECRET", "")
	configs.JWT.Expiration = GetEnvAsInt("JWT_EXPIRATION", 60)
	configs.JWT.Issuer = GetEnv("JWT_ISSUER", "unipool")

	// Fare config
	configs.Fare.BaseFare = GetEnvAsFloat("FARE_BASE", 2.0)
	configs.Fare.PerKmRate = GetEnvAsFloat("FARE_PER_KM", 0.8)
	configs.Fare.MinimumFare = GetEnvAsFloat("FARE_MINIMUM", 3.0)
	configs.Fare.Currency = GetEnv("FARE_CURRENCY", "MYR")

	// Routing config
	configs.Routing.BaseURL = GetEnv("ROUTING_BASE_URL", "https://maps.googleapis.com/maps/api/directions/json")
	configs.Routing.APIKey = GetEnv("ROUTING_API_KEY", "")
	configs.Routing.TimeoutSeconds = GetEnvAsInt("ROUTING_TIMEOUT", 10)

	// Verification config
	configs.Verification.CampusEmailDomain = GetEnv("VERIFICATION_CAMPUS_DOMAIN", "student.campus.edu")

	// Tracking config
	configs.Tracking.DistanceThresholdM = GetEnvAsFloat("TRACKING_DISTANCE_THRESHOLD_M", 10)
	configs.Tracking.TimeCeilingSeconds = GetEnvAsInt("TRACKING_TIME_CEILING", 5)
	configs.Tracking.PollSeconds = GetEnvAsInt("TRACKING_POLL_INTERVAL", 15)
	configs.Tracking.RouteRefreshM = GetEnvAsFloat("TRACKING_ROUTE_REFRESH_M", 100)

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
