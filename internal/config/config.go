// Package config parses the risk gate's four positional CLI arguments
// and layers in environment-derived ambient settings the wire
// specification itself is silent on.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the risk gate.
type Config struct {
	Address    string
	Port       string
	MaxBuyPos  uint64
	MaxSellPos uint64

	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AdminPort       int
}

// ErrArgCount is returned when the CLI was not invoked with exactly
// the four required positional arguments; the caller must exit with
// status 2.
var ErrArgCount = fmt.Errorf("usage: riskgate ip_address tcp_port max_buy_position max_sell_position")

// Parse builds a Config from CLI args (excluding argv[0]) and the
// process environment.
func Parse(args []string) (*Config, error) {
	if len(args) != 4 {
		return nil, ErrArgCount
	}

	maxBuy, err := parseNonNegative(args[2])
	if err != nil {
		return nil, fmt.Errorf("invalid max_buy_position: %w", err)
	}
	maxSell, err := parseNonNegative(args[3])
	if err != nil {
		return nil, fmt.Errorf("invalid max_sell_position: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	adminPort, err := getInt("ADMIN_PORT", 8081)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_PORT: %w", err)
	}

	return &Config{
		Address:         args[0],
		Port:            args[1],
		MaxBuyPos:       maxBuy,
		MaxSellPos:      maxSell,
		LogLevel:        logLevel,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		ShutdownTimeout: shutdownTimeout,
		AdminPort:       adminPort,
	}, nil
}

// parseNonNegative parses a signed decimal integer per the
// specification's argv contract, rejecting negative values, and
// returns it as an unsigned 64-bit position limit.
func parseNonNegative(s string) (uint64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("must be non-negative, got %d", v)
	}
	return uint64(v), nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
