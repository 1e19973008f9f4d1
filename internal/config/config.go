package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	AuthSecret      string
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration
	DBMaxConns      int
	LogLevel        string

	PartitionCheckInterval time.Duration
	PartitionsAhead        int
}

const (
	defaultRunAddress      = ":8080"
	defaultAuthSecret      = "change-me-in-production"
	defaultTokenTTL        = 12 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
	defaultDBMaxConns      = 8
	defaultLogLevel        = "info"

	defaultPartitionCheckInterval = time.Hour
	defaultPartitionsAhead        = 2
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		AuthSecret:      getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		TokenTTL:        getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		DBMaxConns:      getInt(lookup, "DB_MAX_CONNS", defaultDBMaxConns),
		LogLevel:        getString(lookup, "LOG_LEVEL", defaultLogLevel),

		PartitionCheckInterval: getDuration(lookup, "PARTITION_CHECK_INTERVAL", defaultPartitionCheckInterval),
		PartitionsAhead:        getInt(lookup, "PARTITIONS_AHEAD", defaultPartitionsAhead),
	}

	fs := flag.NewFlagSet("vendingmachine", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		partitionCheckStr  = cfg.PartitionCheckInterval.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing operator tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Operator token lifetime")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.DBMaxConns, "db-max-conns", cfg.DBMaxConns, "Maximum open database connections")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Minimal log level: debug, info, warn, error")
	fs.StringVar(&partitionCheckStr, "partition-check-interval", partitionCheckStr, "How often order partitions are checked")
	fs.IntVar(&cfg.PartitionsAhead, "partitions-ahead", cfg.PartitionsAhead, "Months of order partitions created in advance")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.PartitionCheckInterval, err = time.ParseDuration(partitionCheckStr); err != nil {
		return nil, fmt.Errorf("invalid partition check interval: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = strings.TrimSpace(string(content))
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = defaultDBMaxConns
	}

	if cfg.PartitionCheckInterval <= 0 {
		cfg.PartitionCheckInterval = defaultPartitionCheckInterval
	}

	if cfg.PartitionsAhead < 0 {
		cfg.PartitionsAhead = 0
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("auth secret must not be empty")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
