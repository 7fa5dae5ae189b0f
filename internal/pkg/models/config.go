package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	MQTT     MQTTConfig
	JWT      JWTConfig
	Fare         FareConfig
	Routing      RoutingConfig
	Tracking     TrackingConfig
	Verification VerificationConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// MQTTConfig contains broker connection configuration for the location relay.
// Publisher and subscriber roles carry distinct credential pairs; credential
// validation and authorization belong to the broker.
type MQTTConfig struct {
	BrokerURL          string
	Namespace          string
	PublisherUser      string
	PublisherPassword  string
	SubscriberUser     string
	SubscriberPassword string
	ConnectTimeout     int // in seconds
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// FareConfig contains fare computation configuration
type FareConfig struct {
	BaseFare    float64 `json:"base_fare"`
	PerKmRate   float64 `json:"per_km_rate"`
	MinimumFare float64 `json:"minimum_fare"`
	Currency    string  `json:"currency"`
}

// VerificationConfig contains driver auto-verification rules
type VerificationConfig struct {
	// CampusEmailDomain is the e-mail domain drivers must belong to,
	// e.g. "student.campus.edu"
	CampusEmailDomain string
}

// RoutingConfig contains directions API configuration
type RoutingConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// TrackingConfig contains relay tuning parameters
type TrackingConfig struct {
	DistanceThresholdM float64 // sampler emit threshold in meters
	TimeCeilingSeconds int     // sampler emit ceiling
	PollSeconds        int     // sampler safety-net poll
	RouteRefreshM      float64 // minimum driver movement before re-fetching a route
}
