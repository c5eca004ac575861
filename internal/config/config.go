package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is the artisanize release version.
const Version = "0.3.0"

// Modes.
const (
	ModeConvert = "convert"
	ModeServe   = "serve"
	ModeConsume = "consume"
)

// Config holds all artisanize configuration.
type Config struct {
	Mode            string // "convert", "serve", "consume"
	LogLevel        string // "debug", "info", "warn", "error"
	ShutdownTimeout time.Duration
	Source          SourceConfig
	Server          ServerConfig
	Kafka           KafkaConfig
	Output          OutputConfig
}

// SourceConfig holds roast retrieval settings.
type SourceConfig struct {
	Endpoint string // roast.world storage base URL, "" = public default
	Bucket   string // storage bucket, "" = public default
	Token    string // optional Bearer token
	Timeout  time.Duration
}

// ServerConfig holds HTTP service settings for serve mode.
type ServerConfig struct {
	ListenAddr string
}

// KafkaConfig holds consumer settings for consume mode.
type KafkaConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	PollTimeout time.Duration
}

// OutputConfig holds output destination settings for consume mode.
type OutputConfig struct {
	Dir        string
	WebhookURL string // profiles are also POSTed here when set
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Mode:            getenv("ARTISANIZE_MODE", ModeConvert),
		LogLevel:        getenv("ARTISANIZE_LOG_LEVEL", "info"),
		ShutdownTimeout: getenvDuration("ARTISANIZE_SHUTDOWN_TIMEOUT", 10*time.Second),
		Source: SourceConfig{
			Endpoint: os.Getenv("ARTISANIZE_ROASTWORLD_BASE_URL"),
			Bucket:   os.Getenv("ARTISANIZE_ROASTWORLD_BUCKET"),
			Token:    os.Getenv("ARTISANIZE_ROASTWORLD_TOKEN"),
			Timeout:  getenvDuration("ARTISANIZE_HTTP_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			ListenAddr: getenv("ARTISANIZE_LISTEN_ADDR", ":8080"),
		},
		Kafka: KafkaConfig{
			Brokers:     getenvList("ARTISANIZE_KAFKA_BROKERS"),
			Topic:       getenv("ARTISANIZE_KAFKA_TOPIC", "roast.requests"),
			GroupID:     getenv("ARTISANIZE_KAFKA_GROUP_ID", "artisanize"),
			PollTimeout: getenvDuration("ARTISANIZE_KAFKA_POLL_TIMEOUT", 5*time.Second),
		},
		Output: OutputConfig{
			Dir:        getenv("ARTISANIZE_OUTPUT_DIR", "."),
			WebhookURL: os.Getenv("ARTISANIZE_WEBHOOK_URL"),
		},
	}
}

// Validate checks the configuration and returns every problem found, joined.
func (c Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeConvert, ModeServe, ModeConsume:
	default:
		errs = append(errs, fmt.Errorf("invalid mode %q (want convert, serve or consume)", c.Mode))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}

	if c.Source.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http timeout must be positive, got %v", c.Source.Timeout))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must not be negative, got %v", c.ShutdownTimeout))
	}

	if c.Mode == ModeServe && c.Server.ListenAddr == "" {
		errs = append(errs, errors.New("ARTISANIZE_LISTEN_ADDR is required in serve mode"))
	}

	if c.Mode == ModeConsume {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("ARTISANIZE_KAFKA_BROKERS is required in consume mode"))
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, errors.New("ARTISANIZE_KAFKA_TOPIC is required in consume mode"))
		}
		if c.Kafka.GroupID == "" {
			errs = append(errs, errors.New("ARTISANIZE_KAFKA_GROUP_ID is required in consume mode"))
		}
		if info, err := os.Stat(c.Output.Dir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("output dir %q is not a directory", c.Output.Dir))
		}
		if c.Output.WebhookURL != "" {
			if u, err := url.Parse(c.Output.WebhookURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				errs = append(errs, fmt.Errorf("ARTISANIZE_WEBHOOK_URL %q is not an http(s) URL", c.Output.WebhookURL))
			}
		}
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getenvList splits a comma-separated variable, dropping empty entries.
func getenvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
