package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	coreconfig "github.com/go-core-fx/config"
)

const DefaultEngineURL = "http://localhost:8080"

type Config struct {
	EngineURL   string        `koanf:"engine_url"`
	Timeout     time.Duration `koanf:"timeout"`
	Currency    string        `koanf:"currency"`
	JournalSize int           `koanf:"journal_size"`
	LLMBaseURL  string        `koanf:"llm_base_url"`
	LLMAPIKey   string        `koanf:"llm_api_key"`
	LLMModel    string        `koanf:"llm_model"`
	LogFile     string        `koanf:"log_file"`
	Debug       bool          `koanf:"debug"`
}

func Default() Config {
	return Config{
		EngineURL:   DefaultEngineURL,
		Timeout:     10 * time.Second,
		Currency:    "₹",
		JournalSize: 50,
		LogFile:     "./hytech-pos.log",
		Debug:       false,
	}
}

func New() (Config, error) {
	cfg := Default()

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(strings.TrimSpace(c.EngineURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("engine_url %q is not an absolute url", c.EngineURL))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.JournalSize <= 0 {
		errs = append(errs, errors.New("journal_size must be positive"))
	}

	return errors.Join(errs...)
}
