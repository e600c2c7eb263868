package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpServer    HttpServerConfig    `envconfig:"HTTP_SERVER"`
	Database      DatabaseConfig      `envconfig:"DATABASE"`
	Redis         RedisConfig         `envconfig:"REDIS"`
	MessageStream MessageStreamConfig `envconfig:"MESSAGE_STREAM"`
	HttpClient    HttpClientConfig    `envconfig:"HTTP_CLIENT"`
	Gateway       GatewayConfig       `envconfig:"GATEWAY"`
	Workshop      WorkshopConfig      `envconfig:"WORKSHOP"`
	Admin         AdminConfig         `envconfig:"ADMIN"`
}

type HttpServerConfig struct {
	Port string `envconfig:"PORT" default:"3000"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5432"`
	Username string `envconfig:"USERNAME" default:"postgres"`
	Password string `envconfig:"PASSWORD" default:"postgres"`
	Name     string `envconfig:"NAME" default:"registration"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"MAX_CONNS" default:"20"`
}

type RedisConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`
}

type MessageStreamConfig struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5672"`
	Username string `envconfig:"USERNAME" default:"guest"`
	Password string `envconfig:"PASSWORD" default:"guest"`
}

type HttpClientConfig struct {
	Type                string  `envconfig:"TYPE" default:"consecutive"`
	TimeoutSeconds      int     `envconfig:"TIMEOUT_SECONDS" default:"10"`
	ConsecutiveFailures int64   `envconfig:"CONSECUTIVE_FAILURES" default:"5"`
	ErrorRate           float64 `envconfig:"ERROR_RATE" default:"0.5"`
	MinSamples          int64   `envconfig:"MIN_SAMPLES" default:"10"`
}

type GatewayConfig struct {
	BaseURL       string `envconfig:"BASE_URL" default:"https://api.razorpay.com/v1"`
	KeyID         string `envconfig:"KEY_ID"`
	KeySecret     string `envconfig:"KEY_SECRET"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
}

// WorkshopConfig carries the carnival workshop business constants.
// HoldDisplayTTLMinutes is what the client is told ("valid for 15 minutes");
// HoldDeleteTTLMinutes is the authoritative deletion cutoff. The two are
// intentionally distinct, see DESIGN.md.
type WorkshopConfig struct {
	CodePrefix            string  `envconfig:"CODE_PREFIX" default:"CARN"`
	BatchCapacity         int     `envconfig:"BATCH_CAPACITY" default:"20"`
	HoldDisplayTTLMinutes int     `envconfig:"HOLD_DISPLAY_TTL_MINUTES" default:"15"`
	HoldDeleteTTLMinutes  int     `envconfig:"HOLD_DELETE_TTL_MINUTES" default:"10"`
	SweepIntervalMinutes  int     `envconfig:"SWEEP_INTERVAL_MINUTES" default:"5"`
	UnlimitedDate         string  `envconfig:"UNLIMITED_DATE" default:""`
	FeeAmount             float64 `envconfig:"FEE_AMOUNT" default:"450"`
	FeeCurrency           string  `envconfig:"FEE_CURRENCY" default:"INR"`
}

type AdminConfig struct {
	APIKey string `envconfig:"API_KEY"`
}

func InitConfig() *Config {
	var cfg Config
	if err := envconfig.Process("registration", &cfg); err != nil {
		log.Fatal(err)
	}
	return &cfg
}
