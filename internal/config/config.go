package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Auth      AuthConfig
	S3        S3Config
	Log       LogConfig
	Extractor ExtractorConfig
	CORS      CORSConfig
	Batch     BatchConfig
	GSPPI     GSPPIConfig
	Email     EmailConfig
	Upload    UploadConfig
	Profile   ProfileConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// BatchConfig holds settings for the scheduled GSPPI batch worker.
type BatchConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	PollIntervalSecs int      `mapstructure:"poll_interval_secs"`
	Concurrency      int      `mapstructure:"concurrency"`
	NotifyTo         []string `mapstructure:"notify_to"`
}

// PollInterval returns the batch interval as a duration.
func (b *BatchConfig) PollInterval() time.Duration {
	return time.Duration(b.PollIntervalSecs) * time.Second
}

// GSPPIConfig holds settings for the client's digital invoice API.
type GSPPIConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	APIKey        string `mapstructure:"api_key"`
	TimeoutSecs   int    `mapstructure:"timeout_secs"`
	MaxDownloadMB int64  `mapstructure:"max_download_mb"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig holds limits for uploaded invoices.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB << 20
}

// ProfileConfig points at the billing profile file. An empty path selects
// the built-in profile.
type ProfileConfig struct {
	Path string `mapstructure:"path"`
}

// ExtractorProviderConfig holds settings for a single extraction provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	BaseURL      string `mapstructure:"base_url"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds the ordered provider chain used to extract invoices.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config. The rules extractor is
// used when no provider is named.
func (e *ExtractorConfig) PrimaryConfig() *ExtractorProviderConfig {
	if e.Primary.Provider != "" {
		return &e.Primary
	}
	p := e.Primary
	p.Provider = "rules"
	return &p
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (e *ExtractorConfig) TertiaryConfig() *ExtractorProviderConfig {
	if e.Tertiary.Provider != "" {
		return &e.Tertiary
	}
	return nil
}

// Chain returns the configured providers in fallback order.
func (e *ExtractorConfig) Chain() []*ExtractorProviderConfig {
	chain := []*ExtractorProviderConfig{e.PrimaryConfig()}
	if s := e.SecondaryConfig(); s != nil {
		chain = append(chain, s)
	}
	if t := e.TertiaryConfig(); t != nil {
		chain = append(chain, t)
	}
	return chain
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// AuthConfig holds API client credentials. Clients maps a client id to the
// bcrypt hash of its secret.
type AuthConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Clients map[string]string `mapstructure:"clients"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads configuration from environment variables with the INVOICECHECK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICECHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.enabled", true)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoicecheck")
	v.SetDefault("db.password", "invoicecheck_secret")
	v.SetDefault("db.name", "invoicecheck_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// JWT and client auth defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "1h")
	v.SetDefault("jwt.issuer", "invoicecheck")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.clients", "")

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "invoicecheck-archive")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Batch defaults
	v.SetDefault("batch.enabled", false)
	v.SetDefault("batch.poll_interval_secs", 900)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.notify_to", "")

	// GSPPI defaults
	v.SetDefault("gsppi.base_url", "")
	v.SetDefault("gsppi.api_key", "")
	v.SetDefault("gsppi.timeout_secs", 30)
	v.SetDefault("gsppi.max_download_mb", 10)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@invoicecheck.local")
	v.SetDefault("email.from_name", "Invoice Check")

	// Upload and profile defaults
	v.SetDefault("upload.max_file_size_mb", 10)
	v.SetDefault("profile.path", "")

	// Extractor chain defaults
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("extractor."+tier+".provider", "")
		v.SetDefault("extractor."+tier+".api_key", "")
		v.SetDefault("extractor."+tier+".default_model", "")
		v.SetDefault("extractor."+tier+".base_url", "")
		v.SetDefault("extractor."+tier+".max_retries", 2)
		v.SetDefault("extractor."+tier+".timeout_secs", 120)
	}

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "INVOICECHECK_SERVER_PORT",
		"server.read_timeout":      "INVOICECHECK_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "INVOICECHECK_SERVER_WRITE_TIMEOUT",
		"server.environment":       "INVOICECHECK_SERVER_ENVIRONMENT",
		"db.enabled":               "INVOICECHECK_DB_ENABLED",
		"db.host":                  "INVOICECHECK_DB_HOST",
		"db.port":                  "INVOICECHECK_DB_PORT",
		"db.user":                  "INVOICECHECK_DB_USER",
		"db.password":              "INVOICECHECK_DB_PASSWORD",
		"db.name":                  "INVOICECHECK_DB_NAME",
		"db.sslmode":               "INVOICECHECK_DB_SSLMODE",
		"db.max_open":              "INVOICECHECK_DB_MAX_OPEN",
		"db.max_idle":              "INVOICECHECK_DB_MAX_IDLE",
		"jwt.secret":               "INVOICECHECK_JWT_SECRET",
		"jwt.access_expiry":        "INVOICECHECK_JWT_ACCESS_EXPIRY",
		"jwt.issuer":               "INVOICECHECK_JWT_ISSUER",
		"auth.enabled":             "INVOICECHECK_AUTH_ENABLED",
		"auth.clients":             "INVOICECHECK_AUTH_CLIENTS",
		"s3.enabled":               "INVOICECHECK_S3_ENABLED",
		"s3.region":                "INVOICECHECK_S3_REGION",
		"s3.bucket":                "INVOICECHECK_S3_BUCKET",
		"s3.endpoint":              "INVOICECHECK_S3_ENDPOINT",
		"s3.access_key":            "INVOICECHECK_S3_ACCESS_KEY",
		"s3.secret_key":            "INVOICECHECK_S3_SECRET_KEY",
		"s3.presign_expiry":        "INVOICECHECK_S3_PRESIGN_EXPIRY",
		"log.level":                "INVOICECHECK_LOG_LEVEL",
		"log.format":               "INVOICECHECK_LOG_FORMAT",
		"log.output":               "INVOICECHECK_LOG_OUTPUT",
		"cors.allowed_origins":     "INVOICECHECK_CORS_ALLOWED_ORIGINS",
		"batch.enabled":            "INVOICECHECK_BATCH_ENABLED",
		"batch.poll_interval_secs": "INVOICECHECK_BATCH_POLL_INTERVAL_SECS",
		"batch.concurrency":        "INVOICECHECK_BATCH_CONCURRENCY",
		"batch.notify_to":          "INVOICECHECK_BATCH_NOTIFY_TO",
		"gsppi.base_url":           "INVOICECHECK_GSPPI_BASE_URL",
		"gsppi.api_key":            "INVOICECHECK_GSPPI_API_KEY",
		"gsppi.timeout_secs":       "INVOICECHECK_GSPPI_TIMEOUT_SECS",
		"gsppi.max_download_mb":    "INVOICECHECK_GSPPI_MAX_DOWNLOAD_MB",
		"email.provider":           "INVOICECHECK_EMAIL_PROVIDER",
		"email.region":             "INVOICECHECK_EMAIL_REGION",
		"email.from_address":       "INVOICECHECK_EMAIL_FROM_ADDRESS",
		"email.from_name":          "INVOICECHECK_EMAIL_FROM_NAME",
		"upload.max_file_size_mb":  "INVOICECHECK_UPLOAD_MAX_FILE_SIZE_MB",
		"profile.path":             "INVOICECHECK_PROFILE_PATH",
	}
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		for _, field := range []string{"provider", "api_key", "default_model", "base_url", "max_retries", "timeout_secs"} {
			key := "extractor." + tier + "." + field
			envBindings[key] = "INVOICECHECK_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOICECHECK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICECHECK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	clients, err := ParseClients(v.GetString("auth.clients"))
	if err != nil {
		return nil, err
	}
	cfg.Auth = AuthConfig{
		Enabled: v.GetBool("auth.enabled"),
		Clients: clients,
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Output: v.GetString("log.output"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	tier := func(name string) ExtractorProviderConfig {
		prefix := "extractor." + name + "."
		return ExtractorProviderConfig{
			Provider:     v.GetString(prefix + "provider"),
			APIKey:       v.GetString(prefix + "api_key"),
			DefaultModel: v.GetString(prefix + "default_model"),
			BaseURL:      v.GetString(prefix + "base_url"),
			MaxRetries:   v.GetInt(prefix + "max_retries"),
			TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
		}
	}
	cfg.Extractor = ExtractorConfig{
		Primary:   tier("primary"),
		Secondary: tier("secondary"),
		Tertiary:  tier("tertiary"),
	}

	cfg.Batch = BatchConfig{
		Enabled:          v.GetBool("batch.enabled"),
		PollIntervalSecs: v.GetInt("batch.poll_interval_secs"),
		Concurrency:      v.GetInt("batch.concurrency"),
		NotifyTo:         splitList(v.GetString("batch.notify_to")),
	}
	cfg.GSPPI = GSPPIConfig{
		BaseURL:       v.GetString("gsppi.base_url"),
		APIKey:        v.GetString("gsppi.api_key"),
		TimeoutSecs:   v.GetInt("gsppi.timeout_secs"),
		MaxDownloadMB: v.GetInt64("gsppi.max_download_mb"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Profile = ProfileConfig{
		Path: v.GetString("profile.path"),
	}

	return cfg, nil
}

// ParseClients parses "id:bcrypt-hash" pairs separated by commas.
func ParseClients(raw string) (map[string]string, error) {
	clients := map[string]string{}
	for _, pair := range splitList(raw) {
		id, hash, ok := strings.Cut(pair, ":")
		if !ok || id == "" || hash == "" {
			return nil, fmt.Errorf("config: malformed auth client entry %q", pair)
		}
		clients[id] = hash
	}
	return clients, nil
}

// splitList parses a comma-separated string, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
