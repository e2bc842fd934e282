// Package config handles configuration for gophnotes, including defaults,
// JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Password hashing modes.
const (
	// HashingPgcrypto hashes on the server with crypt(pw, gen_salt('bf')).
	HashingPgcrypto = "pgcrypto"
	// HashingBcrypt hashes in-process with golang.org/x/crypto/bcrypt.
	HashingBcrypt = "bcrypt"
)

// Password policy checkers.
const (
	// CheckDatabase calls the validate_password() SQL function.
	CheckDatabase = "database"
	// CheckLocal applies credentials.PolicyV1 in-process.
	CheckLocal = "local"
)

// Config holds runtime settings.
//
// When DatabaseDSN is empty the DSN is assembled from the DB* fields.
// StatementTimeout of zero means no server-side statement timeout.
type Config struct {
	DatabaseDSN      string
	DBHost           string
	DBPort           int
	DBName           string
	DBUser           string
	DBPassword       string
	DBSSLMode        string
	StatementTimeout time.Duration
	MigrateOnStart   bool

	SingleSession   bool
	PasswordHashing string
	PasswordCheck   string

	LogLevel  string
	LogFormat string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
}

// LoadDefaults populates Config with local development defaults.
func (c *Config) LoadDefaults() {
	c.DBHost = "localhost"
	c.DBPort = 5432
	c.DBName = "postgres"
	c.DBUser = "postgres"
	c.DBPassword = "postgres"
	c.DBSSLMode = "disable"
	c.MigrateOnStart = true
	c.SingleSession = true
	c.PasswordHashing = HashingPgcrypto
	c.PasswordCheck = CheckDatabase
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
}

// DSN returns the connection string handed to the pgx driver. Unknown
// parameters such as statement_timeout are forwarded by pgx as runtime
// parameters. DatabaseDSN may be a postgres:// URL or a keyword/value
// string; the latter is passed through with keywords appended.
func (c *Config) DSN() (string, error) {
	if c.DatabaseDSN != "" && !isURLDSN(c.DatabaseDSN) {
		dsn := strings.TrimSpace(c.DatabaseDSN)
		if c.StatementTimeout > 0 {
			dsn += " statement_timeout=" + strconv.FormatInt(c.StatementTimeout.Milliseconds(), 10)
		}
		return dsn, nil
	}

	var u *url.URL
	if c.DatabaseDSN != "" {
		parsed, err := url.Parse(c.DatabaseDSN)
		if err != nil {
			return "", fmt.Errorf("invalid database dsn: %w", err)
		}
		u = parsed
	} else {
		u = &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.DBUser, c.DBPassword),
			Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
			Path:   "/" + c.DBName,
		}
		q := u.Query()
		if c.DBSSLMode != "" {
			q.Set("sslmode", c.DBSSLMode)
		}
		u.RawQuery = q.Encode()
	}

	if c.StatementTimeout > 0 {
		q := u.Query()
		q.Set("statement_timeout", strconv.FormatInt(c.StatementTimeout.Milliseconds(), 10))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func isURLDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// ArchiveEnabled reports whether note export to object storage is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}

// Validate rejects unknown mode strings.
func (c *Config) Validate() error {
	switch c.PasswordHashing {
	case HashingPgcrypto, HashingBcrypt:
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownHashingMode, c.PasswordHashing)
	}
	switch c.PasswordCheck {
	case CheckDatabase, CheckLocal:
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownPasswordChecker, c.PasswordCheck)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
