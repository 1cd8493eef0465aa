package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// JWTConfig holds the signing secret, algorithm and token lifetimes.
type JWTConfig struct {
	SecretKey  string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	MailTTL    time.Duration
}

// MailConfig holds outbound mail settings.
type MailConfig struct {
	SendGridAPIKey string
	FromAddress    string
	FromName       string
	SandboxMode    bool
	PublicBaseURL  string
}

// Config is built once at start-up and handed to constructors by value or pointer.
// Nothing in the application mutates it after LoadConfig returns.
type Config struct {
	Database struct {
		URL string
	}
	Redis struct {
		URL string
	}
	Server struct {
		Port               string
		CORSAllowedOrigins []string
		LoginRatePerMinute int
	}
	JWT    JWTConfig
	Mail   MailConfig
	Ledger struct {
		SweepSchedule string
	}
	Password struct {
		BcryptCost int
	}
}

var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// LoadConfig reads an optional .env file from path, then the process environment.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside of local development.
	_ = godotenv.Load(filepath.Join(path, ".env"))

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	v.SetDefault("REFRESH_TOKEN_EXPIRES_MINUTES", 7*24*60)
	v.SetDefault("MAIL_TOKEN_EXPIRE_MINUTES", 2*60)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("MAIL_FROM_NAME", "Blog API")
	v.SetDefault("MAIL_SANDBOX_MODE", false)
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("LEDGER_SWEEP_SCHEDULE", "@every 1h")
	v.SetDefault("BCRYPT_COST", 10)

	cfg := &Config{}
	cfg.Database.URL = v.GetString("DATABASE_URL")
	cfg.Redis.URL = v.GetString("REDIS_URL")
	cfg.Server.Port = v.GetString("SERVER_PORT")
	cfg.Server.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.Server.LoginRatePerMinute = v.GetInt("LOGIN_RATE_PER_MINUTE")
	cfg.JWT.SecretKey = v.GetString("SECRET_KEY")
	cfg.JWT.Algorithm = strings.ToUpper(v.GetString("ALGORITHM"))
	cfg.JWT.AccessTTL = time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute
	cfg.JWT.RefreshTTL = time.Duration(v.GetInt("REFRESH_TOKEN_EXPIRES_MINUTES")) * time.Minute
	cfg.JWT.MailTTL = time.Duration(v.GetInt("MAIL_TOKEN_EXPIRE_MINUTES")) * time.Minute
	cfg.Mail.SendGridAPIKey = v.GetString("SENDGRID_API_KEY")
	cfg.Mail.FromAddress = v.GetString("MAIL_FROM_ADDRESS")
	cfg.Mail.FromName = v.GetString("MAIL_FROM_NAME")
	cfg.Mail.SandboxMode = v.GetBool("MAIL_SANDBOX_MODE")
	cfg.Mail.PublicBaseURL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")
	cfg.Ledger.SweepSchedule = v.GetString("LEDGER_SWEEP_SCHEDULE")
	cfg.Password.BcryptCost = v.GetInt("BCRYPT_COST")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem that would make the service unsafe to start.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("config: SECRET_KEY is required")
	}
	if !supportedAlgorithms[c.JWT.Algorithm] {
		return fmt.Errorf("config: unsupported signing algorithm %q", c.JWT.Algorithm)
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 || c.JWT.MailTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return errors.New("config: refresh token lifetime must exceed the access token lifetime")
	}
	if c.Database.URL == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
