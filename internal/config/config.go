package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Duration struct{ time.Duration }

// [Duration] implements [json.Marshaler]
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil

	default:
		return errors.New("invalid duration")
	}
}

type JwtConfig struct {
	TokenLifetime Duration `json:"token_lifetime"`
	Secret        string   `json:"secret,omitempty"`
	SecretFile    string   `json:"secret_file,omitempty"`
}

type Config struct {
	Mode           string          `json:"mode"`
	Addr           string          `json:"addr"`
	LogFile        string          `json:"log_file,omitempty"`
	AllowedOrigins []string        `json:"allowed_origins,omitempty"`
	DatabaseURL    string          `json:"database_url,omitempty"`
	Postgres       *PostgresConfig `json:"postgres,omitempty"`
	Jwt            JwtConfig       `json:"jwt"`
}

func Default() Config {
	return Config{
		Mode: "production",
		Addr: ":8080",
		Jwt: JwtConfig{
			TokenLifetime: Duration{24 * time.Hour},
		},
	}
}

func (c Config) Fields() logrus.Fields {
	fields := logrus.Fields{
		"mode":               c.Mode,
		"addr":               c.Addr,
		"log_file":           c.LogFile,
		"allowed_origins":    c.AllowedOrigins,
		"jwt_token_lifetime": c.Jwt.TokenLifetime.Duration.String(),
		"jwt_secret_file":    c.Jwt.SecretFile,
	}
	if c.Postgres != nil {
		fields["pg_host"] = c.Postgres.Host
		fields["pg_port"] = c.Postgres.Port
		fields["pg_user"] = c.Postgres.User
		fields["pg_db_name"] = c.Postgres.DbName
	}
	return fields
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// DbURL reports where the database is. Without one the service keeps
// everything in memory.
func (c Config) DbURL() (string, bool) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, true
	}
	if c.Postgres != nil {
		return c.Postgres.URL(), true
	}
	return "", false
}

func ReadConfig(path string, config *Config) error {
	if b, err := os.ReadFile(path); err != nil {
		return err
	} else {
		return json.Unmarshal(b, config)
	}
}

// Load reads the config file at path (if any) on top of [Default] and then
// applies env overrides.
func Load(path string) (Config, error) {
	config := Default()
	if path != "" {
		if err := ReadConfig(path, &config); err != nil {
			return config, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}
	if err := config.LoadEnv(); err != nil {
		return config, err
	}
	return config, nil
}

func (c *Config) LoadEnv() error {
	if development, ok := os.LookupEnv("DEVELOPMENT"); ok {
		if development != "0" {
			c.Mode = "development"
		} else {
			c.Mode = "production"
		}
	}
	if port, ok := os.LookupEnv("APP_PORT"); ok {
		c.Addr = ":" + port
	}
	if logFile, ok := os.LookupEnv("LOG_FILE"); ok {
		c.LogFile = logFile
	}

	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		c.DatabaseURL = dbURL
	} else if _, ok := os.LookupEnv("POSTGRES_HOST"); ok {
		pg, err := NewPostgresConfig()
		if err != nil {
			return fmt.Errorf("unable to load postgres config: %w", err)
		}
		c.Postgres = pg
	}

	if secret, ok := os.LookupEnv("JWT_SECRET"); ok {
		c.Jwt.Secret = secret
	}
	if secretFile, ok := os.LookupEnv("JWT_SECRET_FILE"); ok {
		c.Jwt.SecretFile = secretFile
	}
	return nil
}
