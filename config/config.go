package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	MySQLDSN  string
	RedisAddr string

	// StoreTimeout bounds every individual store call in the write pipeline.
	StoreTimeout time.Duration

	SeedEvents bool
}

func FromEnv() (Config, error) {
	var c Config

	c.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}

	c.MySQLDSN = strings.TrimSpace(os.Getenv("MYSQL_DSN"))
	c.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))

	c.StoreTimeout = 5 * time.Second
	if raw := strings.TrimSpace(os.Getenv("STORE_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return c, fmt.Errorf("invalid STORE_TIMEOUT %q: %w", raw, err)
		}
		c.StoreTimeout = d
	}

	c.SeedEvents = true
	if raw := strings.TrimSpace(os.Getenv("SEED_EVENTS")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c, fmt.Errorf("invalid SEED_EVENTS %q: %w", raw, err)
		}
		c.SeedEvents = v
	}

	if c.MySQLDSN == "" {
		return c, fmt.Errorf("MYSQL_DSN is empty")
	}

	return c, nil
}
