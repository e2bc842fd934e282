package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

var knownFlags = []string{
	"-d", "-db-host", "-db-port", "-db-name", "-db-user", "-db-password", "-db-sslmode",
	"-statement-timeout", "-migrate", "-single-session", "-password-hashing", "-password-check",
	"-log-level", "-log-format",
	"-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-access-key", "-s3-secret-key", "-s3-path-style",
}

// parseFlags overlays command-line flags onto config. args are filtered
// with flagx.FilterArgs first, so flags owned by other components (-c)
// are ignored. Boolean flags must use the -flag=false form to disable.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("gophnotes", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN (overrides -db-* flags)")
	fs.StringVar(&config.DBHost, "db-host", config.DBHost, "database host")
	fs.IntVar(&config.DBPort, "db-port", config.DBPort, "database port")
	fs.StringVar(&config.DBName, "db-name", config.DBName, "database name")
	fs.StringVar(&config.DBUser, "db-user", config.DBUser, "database user")
	fs.StringVar(&config.DBPassword, "db-password", config.DBPassword, "database password")
	fs.StringVar(&config.DBSSLMode, "db-sslmode", config.DBSSLMode, "database sslmode")
	fs.DurationVar(&config.StatementTimeout, "statement-timeout", config.StatementTimeout, "server-side statement timeout, 0 disables")
	fs.BoolVar(&config.MigrateOnStart, "migrate", config.MigrateOnStart, "apply migrations on start")

	fs.BoolVar(&config.SingleSession, "single-session", config.SingleSession, "allow at most one active session per user")
	fs.StringVar(&config.PasswordHashing, "password-hashing", config.PasswordHashing, "pgcrypto or bcrypt")
	fs.StringVar(&config.PasswordCheck, "password-check", config.PasswordCheck, "database or local")

	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "debug, info, warn or error")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "text or json")

	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "export bucket, empty disables export")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "s3-access-key", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "s3-secret-key", config.S3SecretKey, "S3 secret key")
	fs.BoolVar(&config.S3UsePathStyle, "s3-path-style", config.S3UsePathStyle, "use path-style S3 addressing")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
