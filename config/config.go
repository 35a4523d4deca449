package config

import (
	// Local Packages
	errors "payguard/errors"
)

var DefaultConfig = []byte(`
application: "payguard"

logger:
  level: "debug"

is_prod_mode: false

server:
  addr: ":8080"

mongo:
  uri: "mongodb://localhost:27017"
  database: "payguard"

redis:
  uri: "localhost:6379"
  password: ""

openai:
  api_key: ""
  base_url: "https://api.openai.com/v1"
  model: "gpt-4"
  timeout_seconds: 10

payman:
  api_secret: ""
  environment: "sandbox"
  base_url: ""

slack:
  webhook_url: ""

kafka:
  brokers:
    - "localhost:9092"
  topic: "transaction-events"
  producer_name: "payguard-producer"

submitter:
  max_attempts: 3
  retry_delay_seconds: 2
`)

type Config struct {
	Application string    `koanf:"application"`
	Logger      Logger    `koanf:"logger"`
	IsProdMode  bool      `koanf:"is_prod_mode"`
	Server      Server    `koanf:"server"`
	Mongo       Mongo     `koanf:"mongo"`
	Redis       Redis     `koanf:"redis"`
	OpenAI      OpenAI    `koanf:"openai"`
	Payman      Payman    `koanf:"payman"`
	Slack       Slack     `koanf:"slack"`
	Kafka       Kafka     `koanf:"kafka"`
	Submitter   Submitter `koanf:"submitter"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Mongo struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type OpenAI struct {
	APIKey         string `koanf:"api_key"`
	BaseURL        string `koanf:"base_url"`
	Model          string `koanf:"model"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

type Payman struct {
	APISecret   string `koanf:"api_secret"`
	Environment string `koanf:"environment"`
	BaseURL     string `koanf:"base_url"`
}

type Slack struct {
	WebhookURL string `koanf:"webhook_url"`
}

type Kafka struct {
	Brokers      []string `koanf:"brokers"`
	Topic        string   `koanf:"topic"`
	ProducerName string   `koanf:"producer_name"`
}

type Submitter struct {
	MaxAttempts       int `koanf:"max_attempts"`
	RetryDelaySeconds int `koanf:"retry_delay_seconds"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.Server.Addr == "" {
		ve.Add("server.addr", "cannot be empty")
	}
	if c.Mongo.URI == "" {
		ve.Add("mongo.uri", "cannot be empty")
	}
	if c.Mongo.Database == "" {
		ve.Add("mongo.database", "cannot be empty")
	}
	if c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}
	if c.OpenAI.Model == "" {
		ve.Add("openai.model", "cannot be empty")
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		ve.Add("openai.timeout_seconds", "must be positive")
	}
	if c.Payman.Environment != "sandbox" && c.Payman.Environment != "live" {
		ve.Add("payman.environment", "must be sandbox or live")
	}
	if len(c.Kafka.Brokers) == 0 {
		ve.Add("kafka.brokers", "cannot be empty")
	}
	if c.Kafka.Topic == "" {
		ve.Add("kafka.topic", "cannot be empty")
	}
	if c.Submitter.MaxAttempts < 1 {
		ve.Add("submitter.max_attempts", "must be at least 1")
	}
	if c.Submitter.RetryDelaySeconds < 0 {
		ve.Add("submitter.retry_delay_seconds", "cannot be negative")
	}

	return ve.Err()
}
