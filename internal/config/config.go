package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/matrizrfm/auth-api/internal/constants"
)

// AppConfig represents the entire application configuration.
// It is built once at startup and handed to every component that needs it.
type AppConfig struct {
	App          AppSettings        `yaml:"app"`
	Database     DatabaseSettings   `yaml:"database"`
	Server       ServerSettings     `yaml:"server"`
	JWT          JWTSettings        `yaml:"jwt"`
	Logging      LoggingSettings    `yaml:"logging"`
	CORS         CORSSettings       `yaml:"cors"`
	PasswordHash HashSettings       `yaml:"password_hash"`
	ResetToken   ResetTokenSettings `yaml:"reset_token"`
	Mail         MailSettings       `yaml:"mail"`
	Metrics      MetricsSettings    `yaml:"metrics"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// JWTSettings contains session token settings
type JWTSettings struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET"`
	Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY"`
	Issuer string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// ResetTokenSettings controls password reset tokens and the links mailed for them.
// A zero SweepInterval leaves expired tokens to be removed when next presented.
type ResetTokenSettings struct {
	Expiry        time.Duration `yaml:"expiry" env:"RESET_TOKEN_EXPIRY"`
	FrontendURL   string        `yaml:"frontend_url" env:"FRONTEND_URL"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"RESET_TOKEN_SWEEP_INTERVAL"`
}

// MailSettings selects and configures the outbound mail provider
type MailSettings struct {
	Provider           string        `yaml:"provider" env:"MAIL_PROVIDER"`
	FromAddress        string        `yaml:"from_address" env:"EMAIL_FROM"`
	FromName           string        `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	SMTPHost           string        `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort           int           `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUser           string        `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword       string        `yaml:"smtp_password" env:"SMTP_PASS"`
	SESRegion          string        `yaml:"ses_region" env:"SES_REGION"`
	SESAccessKeyID     string        `yaml:"ses_access_key_id" env:"SES_ACCESS_KEY_ID"`
	SESSecretAccessKey string        `yaml:"ses_secret_access_key" env:"SES_SECRET_ACCESS_KEY"`
	SendGridAPIKey     string        `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	Timeout            time.Duration `yaml:"timeout" env:"MAIL_TIMEOUT"`
}

// MetricsSettings controls the Prometheus endpoint
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `yaml:"path" env:"METRICS_PATH"`
}

// ConnectionString returns the lib/pq keyword/value connection string
func (dbs *DatabaseSettings) ConnectionString() string {
	sslMode := dbs.SSLMode
	if sslMode == "" {
		sslMode = constants.DefaultPostgresSSLMode
	}

	parts := []string{
		fmt.Sprintf("host=%s", dbs.Host),
		fmt.Sprintf("port=%d", dbs.Port),
		fmt.Sprintf("user=%s", dbs.User),
	}
	if dbs.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", quoteConnValue(dbs.Password)))
	}
	parts = append(parts,
		fmt.Sprintf("dbname=%s", dbs.Name),
		fmt.Sprintf("sslmode=%s", sslMode),
		constants.PostgresConnectTimeout,
	)

	return strings.Join(parts, " ")
}

// quoteConnValue quotes a value for the keyword/value DSN format when needed
func quoteConnValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// IsMemory reports whether the in-memory store is selected
func (dbs *DatabaseSettings) IsMemory() bool {
	return strings.ToLower(dbs.Driver) == constants.DriverMemory
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// ResetURL returns the link mailed to a user for the given plain reset token
func (rs *ResetTokenSettings) ResetURL(token string) string {
	base := strings.TrimRight(rs.FrontendURL, "/")
	return base + constants.ResetPasswordPagePath + "?" + constants.QueryParamResetKey + "=" + url.QueryEscape(token)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// Load loads the configuration from a config file and environment variables.
// A missing file is not an error: environment variables and defaults still apply.
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{
		Metrics: MetricsSettings{Enabled: true},
	}

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// Default returns a configuration with every default applied, backed by the
// in-memory store. Intended for tests and local experiments.
func Default() *AppConfig {
	config := &AppConfig{
		App:      AppSettings{Environment: constants.EnvTesting},
		Database: DatabaseSettings{Driver: constants.DriverMemory},
		JWT:      JWTSettings{Secret: constants.DevJWTSecret},
		Metrics:  MetricsSettings{Enabled: true},
	}
	setDefaults(config)
	return config
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultAppName
	}
	if config.App.Version == "" {
		config.App.Version = constants.DefaultAppVersion
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	// Database defaults
	if config.Database.Driver == "" {
		config.Database.Driver = constants.DriverPostgres
	}
	if config.Database.Host == "" {
		config.Database.Host = constants.DefaultDBHost
	}
	if config.Database.Port == 0 {
		config.Database.Port = constants.DefaultDBPort
	}
	if config.Database.Name == "" {
		config.Database.Name = constants.DefaultDBName
	}
	if config.Database.User == "" {
		config.Database.User = constants.DefaultDBUser
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = constants.DefaultPostgresSSLMode
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	// JWT defaults
	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}
	if config.JWT.Secret == "" && !config.App.IsProduction() {
		config.JWT.Secret = constants.DevJWTSecret
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// Reset token defaults
	if config.ResetToken.Expiry == 0 {
		config.ResetToken.Expiry = constants.DefaultResetTokenExpiry
	}
	if config.ResetToken.FrontendURL == "" {
		config.ResetToken.FrontendURL = constants.DefaultFrontendURL
	}

	// CORS defaults to the web client only
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{config.ResetToken.FrontendURL}
	}

	// Mail defaults
	if config.Mail.Provider == "" {
		config.Mail.Provider = constants.MailProviderLog
	}
	if config.Mail.FromAddress == "" {
		config.Mail.FromAddress = constants.DefaultMailFrom
	}
	if config.Mail.FromName == "" {
		config.Mail.FromName = constants.DefaultMailFromName
	}
	if config.Mail.SMTPHost == "" {
		config.Mail.SMTPHost = constants.DefaultSMTPHost
	}
	if config.Mail.SMTPPort == 0 {
		config.Mail.SMTPPort = constants.DefaultSMTPPort
	}
	if config.Mail.SESRegion == "" {
		config.Mail.SESRegion = constants.DefaultSESRegion
	}
	if config.Mail.Timeout == 0 {
		config.Mail.Timeout = constants.DefaultMailTimeout
	}

	if config.Metrics.Path == "" {
		config.Metrics.Path = constants.DefaultMetricsPath
	}

	// Password hash defaults, lower outside production
	if config.PasswordHash.Memory == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
		} else {
			config.PasswordHash.Memory = constants.DevPasswordHashMemory
		}
	}
	if config.PasswordHash.Iterations == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
		} else {
			config.PasswordHash.Iterations = constants.DevPasswordHashIterations
		}
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().
			Str("environment", config.App.Environment).
			Msg("Unknown environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// In production, ensure we have a proper JWT secret
	if config.App.IsProduction() && (config.JWT.Secret == "" || config.JWT.Secret == constants.DevJWTSecret) {
		return fmt.Errorf("JWT secret must be set in production")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret must be set")
	}
	if config.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT expiry must be positive")
	}
	if config.ResetToken.Expiry <= 0 {
		return fmt.Errorf("reset token expiry must be positive")
	}
	if config.ResetToken.SweepInterval < 0 {
		return fmt.Errorf("reset token sweep interval must not be negative")
	}
	if _, err := url.ParseRequestURI(config.ResetToken.FrontendURL); err != nil {
		return fmt.Errorf("invalid frontend url: %w", err)
	}

	switch strings.ToLower(config.Database.Driver) {
	case constants.DriverPostgres:
		if config.Database.User == "" {
			return fmt.Errorf("database user must be set")
		}
	case constants.DriverMemory:
		if config.App.IsProduction() {
			return fmt.Errorf("memory database driver is not allowed in production")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	switch strings.ToLower(config.Mail.Provider) {
	case constants.MailProviderLog:
	case constants.MailProviderSMTP:
		if config.Mail.SMTPHost == "" {
			return fmt.Errorf("smtp host must be set for the smtp mail provider")
		}
	case constants.MailProviderSES:
		if config.Mail.SESRegion == "" {
			return fmt.Errorf("ses region must be set for the ses mail provider")
		}
	case constants.MailProviderSendGrid:
		if config.Mail.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key must be set for the sendgrid mail provider")
		}
	default:
		return fmt.Errorf("unsupported mail provider: %s", config.Mail.Provider)
	}

	// Validate log level
	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration without secrets
func logConfig(config *AppConfig) {
	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("db_driver", config.Database.Driver).
		Str("db_host", config.Database.Host).
		Int("db_port", config.Database.Port).
		Str("db_name", config.Database.Name).
		Str("mail_provider", config.Mail.Provider).
		Dur("reset_token_expiry", config.ResetToken.Expiry).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")
}
