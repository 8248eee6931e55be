package config

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variables that override values from the XML file.
const (
	EnvDBPassword = "LOVEMIRROR_DB_PASSWORD"
	EnvDBHost     = "LOVEMIRROR_DB_HOST"
	EnvJWTSecret  = "LOVEMIRROR_JWT_SECRET"
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	DB             DBConfig             `xml:"DB"`
	Logging        LoggingConfig        `xml:"LOGGING"`
	Scoring        ScoringConfig        `xml:"SCORING"`
	RateLimit      RateLimitConfig      `xml:"RATE_LIMIT"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port           int      `xml:"PORT"`
	Host           string   `xml:"HOST"`
	Path           string   `xml:"PATH"`
	TimeZone       string   `xml:"TIME_ZONE"`
	Production     bool     `xml:"PRODUCTION"`
	AllowedOrigins []string `xml:"ALLOWED_ORIGINS>ORIGIN"`
}

// Addr is the listen address of the HTTP server.
func (c ContextConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthenticationConfig holds bearer token settings. Tokens are issued by the
// hosted auth provider and only verified here.
type AuthenticationConfig struct {
	EnableTokenAuth bool   `xml:"ENABLE_TOKEN_AUTH"`
	JWTSecret       string `xml:"JWT_SECRET"`
	Issuer          string `xml:"ISSUER"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	SSLMode    string       `xml:"SSL_MODE"`
	Names      DBNames      `xml:"NAMES"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Pool       DBPoolConfig `xml:"POOL"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	LoveMirror string `xml:"LOVEMIRROR,attr"`
}

// DBPassword holds password details. TYPE="ENV" means the value names an
// environment variable holding the password.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"` // minutes
}

// DSN builds the postgres connection string.
func (d DBConfig) DSN(timeZone string) string {
	if timeZone == "" {
		timeZone = "UTC"
	}
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.Username, d.Password.Value, d.Names.LoveMirror, d.Port, sslMode, timeZone)
}

func (p DBPoolConfig) Lifetime() time.Duration {
	return time.Duration(p.ConnMaxLifetime) * time.Minute
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Dir      string `xml:"DIR"`
	Level    string `xml:"LEVEL"`
	SQLLevel string `xml:"SQL_LEVEL"`
}

// ScoringConfig points at optional overrides of the built-in scoring data.
type ScoringConfig struct {
	TablesFile string `xml:"TABLES_FILE"`
}

// RateLimitConfig throttles the public rater endpoints per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int `xml:"REQUESTS_PER_MINUTE"`
	Burst             int `xml:"BURST"`
}

// LoadConfig loads and parses the XML configuration from the given file,
// then applies environment overrides. A .env file next to the process is
// loaded first when present.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config %s", xmlPath)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", xmlPath)
	}
	return Parse(data)
}

// Parse decodes an XML document and applies defaults and environment
// overrides.
func Parse(data []byte) (*APIConfig, error) {
	var cfg APIConfig
	if err := xml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config XML")
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (c *APIConfig) applyDefaults() {
	if c.Context.Host == "" {
		c.Context.Host = "0.0.0.0"
	}
	if c.Context.Path == "" {
		c.Context.Path = "/api"
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = "logs"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.SQLLevel == "" {
		c.Logging.SQLLevel = "warn"
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 30
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
}

func (c *APIConfig) applyEnv() {
	if c.DB.Password.Type == "ENV" {
		c.DB.Password.Value = os.Getenv(c.DB.Password.Value)
	}
	if v, ok := os.LookupEnv(EnvDBPassword); ok {
		c.DB.Password.Value = v
	}
	if v, ok := os.LookupEnv(EnvDBHost); ok {
		c.DB.Host = v
	}
	if v, ok := os.LookupEnv(EnvJWTSecret); ok {
		c.Authentication.JWTSecret = v
	}
}

// Validate reports the first missing or malformed setting.
func (c *APIConfig) Validate() error {
	switch {
	case c.Context.Port <= 0 || c.Context.Port > 65535:
		return errors.Errorf("CONTEXT/PORT %d out of range", c.Context.Port)
	case c.DB.Host == "":
		return errors.New("DB/HOST is required")
	case c.DB.Port <= 0:
		return errors.New("DB/PORT is required")
	case c.DB.Names.LoveMirror == "":
		return errors.New("DB/NAMES LOVEMIRROR attribute is required")
	case c.DB.Username == "":
		return errors.New("DB/USERNAME is required")
	case c.Authentication.EnableTokenAuth && c.Authentication.JWTSecret == "":
		return errors.Errorf("AUTHENTICATION/JWT_SECRET or %s is required when token auth is enabled", EnvJWTSecret)
	case c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0:
		return errors.New("RATE_LIMIT values must not be negative")
	}
	return nil
}
