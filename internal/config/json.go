package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// JSONConfig is the on-disk shape of the config file. Absent fields keep
// the value already present in Config, so booleans are pointers.
type JSONConfig struct {
	DatabaseDSN      string          `json:"database_dsn"`
	DBHost           string          `json:"db_host"`
	DBPort           int             `json:"db_port"`
	DBName           string          `json:"db_name"`
	DBUser           string          `json:"db_user"`
	DBPassword       string          `json:"db_password"`
	DBSSLMode        string          `json:"db_sslmode"`
	StatementTimeout *timex.Duration `json:"statement_timeout"`
	MigrateOnStart   *bool           `json:"migrate_on_start"`
	SingleSession    *bool           `json:"single_session"`
	PasswordHashing  string          `json:"password_hashing"`
	PasswordCheck    string          `json:"password_check"`
	LogLevel         string          `json:"log_level"`
	LogFormat        string          `json:"log_format"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
	S3AccessKey      string          `json:"s3_access_key"`
	S3SecretKey      string          `json:"s3_secret_key"`
	S3UsePathStyle   *bool           `json:"s3_use_path_style"`
}

// parseJSON overlays the file named by -c/-config onto config. Without
// either flag nothing is loaded.
func parseJSON(config *Config) error {
	path := flagx.ConfigPath()
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *JSONConfig) apply(config *Config) {
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DBHost, c.DBHost)
	if c.DBPort != 0 {
		config.DBPort = c.DBPort
	}
	setString(&config.DBName, c.DBName)
	setString(&config.DBUser, c.DBUser)
	setString(&config.DBPassword, c.DBPassword)
	setString(&config.DBSSLMode, c.DBSSLMode)
	if c.StatementTimeout != nil {
		config.StatementTimeout = c.StatementTimeout.Duration
	}
	setBool(&config.MigrateOnStart, c.MigrateOnStart)
	setBool(&config.SingleSession, c.SingleSession)
	setString(&config.PasswordHashing, c.PasswordHashing)
	setString(&config.PasswordCheck, c.PasswordCheck)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setBool(&config.S3UsePathStyle, c.S3UsePathStyle)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
