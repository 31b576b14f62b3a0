package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendBolt     = "bolt"

	ProviderFake = "fake"
	ProviderHTTP = "http"

	DefaultProviderTimeout = 10 * time.Second
)

type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string
	LogOutput string

	DataDir       string
	LedgerBackend string
	TxlogBackend  string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string
	BoltPath      string

	CatalogPath string

	ProviderMode    string
	ProviderBaseURL string
	ProviderUID     string
	ProviderEmail   string
	ProviderKey     string
	ProviderProduct string
	ProviderTimeout time.Duration

	OperatorIDs []string
}

// Load reads the environment once; values are passed explicitly from here on.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPAddr:        get("HTTP_ADDR", ":8080"),
		LogLevel:        get("LOG_LEVEL", "info"),
		LogFormat:       get("LOG_FORMAT", "json"),
		LogOutput:       get("LOG_OUTPUT", "stdout"),
		DataDir:         get("DATA_DIR", "./out"),
		LedgerBackend:   strings.ToLower(get("LEDGER_BACKEND", BackendMemory)),
		TxlogBackend:    strings.ToLower(get("TXLOG_BACKEND", BackendBolt)),
		PostgresDSN:     get("POSTGRES_DSN", ""),
		MongoURI:        get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   get("MONGO_DATABASE", "topup"),
		CatalogPath:     get("CATALOG_PATH", ""),
		ProviderMode:    strings.ToLower(get("PROVIDER_MODE", ProviderFake)),
		ProviderBaseURL: get("PROVIDER_BASE_URL", "https://www.smile.one/ph"),
		ProviderUID:     get("PROVIDER_UID", ""),
		ProviderEmail:   get("PROVIDER_EMAIL", ""),
		ProviderKey:     get("PROVIDER_KEY", ""),
		ProviderProduct: get("PROVIDER_PRODUCT", "mobilelegends"),
		OperatorIDs:     splitList(getenv("OPERATOR_IDS")),
	}
	cfg.BoltPath = get("BOLT_PATH", filepath.Join(cfg.DataDir, "orders.db"))

	timeout, err := time.ParseDuration(get("PROVIDER_TIMEOUT", DefaultProviderTimeout.String()))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("%w: PROVIDER_TIMEOUT %q", ErrInvalidConfig, getenv("PROVIDER_TIMEOUT"))
	}
	cfg.ProviderTimeout = timeout

	// A durable ledger must not fall back to the fake provider by omission.
	if cfg.LedgerBackend != BackendMemory && strings.TrimSpace(getenv("PROVIDER_MODE")) == "" {
		return Config{}, fmt.Errorf("%w: PROVIDER_MODE must be set for the %s ledger", ErrInvalidConfig, cfg.LedgerBackend)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LedgerBackend {
	case BackendMemory, BackendMongo:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: POSTGRES_DSN is required for the postgres ledger", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: LEDGER_BACKEND %q", ErrInvalidConfig, c.LedgerBackend)
	}
	switch c.TxlogBackend {
	case BackendMemory, BackendBolt, BackendMongo:
	default:
		return fmt.Errorf("%w: TXLOG_BACKEND %q", ErrInvalidConfig, c.TxlogBackend)
	}
	switch c.ProviderMode {
	case ProviderFake:
	case ProviderHTTP:
		if c.ProviderUID == "" || c.ProviderEmail == "" || c.ProviderKey == "" {
			return fmt.Errorf("%w: PROVIDER_UID, PROVIDER_EMAIL and PROVIDER_KEY are required in http mode", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: PROVIDER_MODE %q", ErrInvalidConfig, c.ProviderMode)
	}
	return nil
}

// UsesMongo reports whether any backend needs a Mongo connection.
func (c Config) UsesMongo() bool {
	return c.LedgerBackend == BackendMongo || c.TxlogBackend == BackendMongo
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
