package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration for the API and CLI.
type Server struct {
	Addr          string
	LogLevel      string
	VerifierToken string

	Ledger   LedgerConfig
	Content  ContentConfig
	Redis    RedisConfig
	Audit    AuditConfig
	QueryTTL time.Duration
}

// LedgerConfig points the session at the remote registry contract.
type LedgerConfig struct {
	RPCURL          string
	ContractAddress string
	ChainID         int64
	// SignerKey is a hex encoded secp256k1 key used as the local wallet.
	SignerKey           string
	ConfirmationTimeout time.Duration
	PollInterval        time.Duration
	ConnectTimeout      time.Duration
}

// ContentConfig selects and bounds the local document backend.
type ContentConfig struct {
	Backend     string // memory, file or redis
	Dir         string
	Capacity    int // 0 means unbounded
	MaxBytes    int64
	ValidatePDF bool
}

// RedisConfig carries go-redis connection overrides.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig enables the optional durable audit sinks.
type AuditConfig struct {
	DatabaseURL  string
	KafkaBrokers []string
	KafkaTopic   string
}

const (
	DefaultConfirmationTimeout = 2 * time.Minute
	DefaultPollInterval        = 2 * time.Second
	DefaultConnectTimeout      = 2 * time.Minute
	DefaultMaxDocumentBytes    = 10 << 20
	DefaultQueryTTL            = 30 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CHAINREGISTRY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	verifierToken := os.Getenv("VERIFIER_TOKEN")
	if verifierToken == "" {
		// Use a default for development - should be overridden in production
		verifierToken = "dev-verifier-token-change-in-production"
	}

	return Server{
		Addr:          addr,
		LogLevel:      envString("LOG_LEVEL", "info"),
		VerifierToken: verifierToken,
		Ledger: LedgerConfig{
			RPCURL:              envString("LEDGER_RPC_URL", "http://127.0.0.1:8545"),
			ContractAddress:     os.Getenv("LEDGER_CONTRACT_ADDRESS"),
			ChainID:             envInt64("LEDGER_CHAIN_ID", 31337),
			SignerKey:           os.Getenv("LEDGER_SIGNER_KEY"),
			ConfirmationTimeout: envDuration("TX_CONFIRMATION_TIMEOUT", DefaultConfirmationTimeout),
			PollInterval:        envDuration("TX_POLL_INTERVAL", DefaultPollInterval),
			ConnectTimeout:      envDuration("LEDGER_CONNECT_TIMEOUT", DefaultConnectTimeout),
		},
		Content: ContentConfig{
			Backend:     envString("CONTENT_BACKEND", "memory"),
			Dir:         envString("CONTENT_DIR", ".chainregistry/documents"),
			Capacity:    int(envInt64("CONTENT_CAPACITY", 0)),
			MaxBytes:    envInt64("CONTENT_MAX_BYTES", DefaultMaxDocumentBytes),
			ValidatePDF: os.Getenv("CONTENT_VALIDATE_PDF") == "true",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     int(envInt64("REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(envInt64("REDIS_MIN_IDLE_CONNS", 2)),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			DatabaseURL:  os.Getenv("AUDIT_DATABASE_URL"),
			KafkaBrokers: envList("AUDIT_KAFKA_BROKERS"),
			KafkaTopic:   envString("AUDIT_KAFKA_TOPIC", "chainregistry.audit"),
		},
		QueryTTL: envDuration("QUERY_CACHE_TTL", DefaultQueryTTL),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
