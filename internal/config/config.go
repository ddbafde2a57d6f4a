package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	StorageMemory    = "memory"
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"
)

const (
	ProviderMock   = "mock"
	ProviderHTTP   = "http"
	ProviderVertex = "vertex"
	ProviderOpenAI = "openai"
)

const (
	defaultSentimentURL = "https://api-inference.huggingface.co/models/distilbert-base-uncased-finetuned-sst-2-english"
	defaultEmotionURL   = "https://api-inference.huggingface.co/models/j-hartmann/emotion-english-distilroberta-base"
)

type Config struct {
	Mode Mode `yaml:"mode"`

	Port string `yaml:"port"`

	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`

	StorageBackend string `yaml:"storage_backend"` // memory, sqlite or firestore
	SQLitePath     string `yaml:"sqlite_path"`

	Inference InferenceConfig `yaml:"inference"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// InferenceConfig describes the external classifiers.
// An empty Credential is a supported setup: analysis falls back to neutral defaults.
type InferenceConfig struct {
	Provider     string        `yaml:"provider"` // mock, http, vertex or openai
	SentimentURL string        `yaml:"sentiment_url"`
	EmotionURL   string        `yaml:"emotion_url"`
	Credential   string        `yaml:"credential"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout"`
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Default returns the local-development configuration.
func Default() *Config {
	return &Config{
		Mode:           ModeLocal,
		Port:           "8080",
		GCPLocation:    "us-central1",
		StorageBackend: StorageMemory,
		SQLitePath:     "data/farum.db",
		Inference: InferenceConfig{
			Provider:     ProviderMock,
			SentimentURL: defaultSentimentURL,
			EmotionURL:   defaultEmotionURL,
			Model:        "gemini-2.5-flash-lite",
			Timeout:      15 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads the optional YAML file named by FARUM_CONFIG_FILE, then
// applies env vars on top of it and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("FARUM_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	switch getEnv("FARUM_MODE", string(c.Mode)) {
	case "gcp":
		c.Mode = ModeGCP
	default:
		c.Mode = ModeLocal
	}

	c.Port = getEnv("FARUM_PORT", getEnv("PORT", c.Port))

	c.GCPProjectID = getEnv("FARUM_GCP_PROJECT", c.GCPProjectID)
	c.GCPLocation = getEnv("FARUM_GCP_LOCATION", c.GCPLocation)

	c.StorageBackend = getEnv("FARUM_STORAGE_BACKEND", c.StorageBackend)
	c.SQLitePath = getEnv("FARUM_SQLITE_PATH", c.SQLitePath)

	c.Inference.Provider = strings.ToLower(strings.TrimSpace(getEnv("FARUM_INFERENCE_PROVIDER", c.Inference.Provider)))
	c.Inference.SentimentURL = getEnv("FARUM_SENTIMENT_URL", c.Inference.SentimentURL)
	c.Inference.EmotionURL = getEnv("FARUM_EMOTION_URL", c.Inference.EmotionURL)
	c.Inference.Model = getEnv("FARUM_MODEL_NAME", c.Inference.Model)
	c.Inference.Timeout = getDurationEnv("FARUM_INFERENCE_TIMEOUT", c.Inference.Timeout)

	c.Inference.Credential = getEnv("FARUM_INFERENCE_TOKEN", c.Inference.Credential)
	if c.Inference.Credential == "" {
		switch c.Inference.Provider {
		case ProviderVertex:
			// Vertex authenticates with ADC; the project stands in for the credential.
			c.Inference.Credential = c.GCPProjectID
		case ProviderMock:
			c.Inference.Credential = "local"
		}
	}

	c.LogLevel = getEnv("FARUM_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("FARUM_LOG_FILE", c.LogFile)
}

// Validate checks the combinations that cannot work at runtime.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case StorageMemory:
	case StorageSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("FARUM_SQLITE_PATH is required for sqlite storage"))
		}
	case StorageFirestore:
		if c.GCPProjectID == "" {
			errs = append(errs, errors.New("FARUM_GCP_PROJECT is required for firestore storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}

	switch c.Inference.Provider {
	case ProviderMock, ProviderHTTP, ProviderOpenAI:
	case ProviderVertex:
		if c.GCPLocation == "" {
			errs = append(errs, errors.New("FARUM_GCP_LOCATION is required for the vertex provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown inference provider %q", c.Inference.Provider))
	}

	// Minimal validation in GCP mode
	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		errs = append(errs, errors.New("FARUM_GCP_PROJECT must be set in gcp mode"))
	}

	return errors.Join(errs...)
}
