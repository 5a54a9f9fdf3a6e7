package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	GinMode  string

	// BackendURL may be empty; routes that need it answer "API not configured".
	BackendURL     string
	BackendTimeout time.Duration

	JWTSecret    []byte
	TokenCookie  string
	FlashSecret  []byte
	CookieSecure bool

	LogLevel string
	LogFile  string

	WizardTTL time.Duration

	Storage StorageConfig
	Mail    MailConfig
}

// MailConfig drives contact-form notifications. Driver "none" disables them.
type MailConfig struct {
	Driver        string // none|smtp|mailtrap
	From          string
	FromName      string
	NotifyTo      []string
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	SMTPTLSMode   string
	SMTPSkipTLS   bool
	MailtrapURL   string
	MailtrapToken string
}

// StorageConfig selects where staged color-variant images are kept until a
// wizard streams them to the backend.
type StorageConfig struct {
	Driver         string // local|s3
	LocalDir       string
	LocalURLPrefix string
	S3Region       string
	S3Bucket       string
	S3Prefix       string
	S3PublicURL    string
}

// Load reads a .env file when present (ignored if missing, prod uses real env vars)
// and builds the config from the environment.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		GinMode:     envOr("GIN_MODE", "release"),
		BackendURL:  strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_API_URL")), "/"),
		TokenCookie: envOr("TOKEN_COOKIE", "token"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFile:     os.Getenv("LOG_FILE"),
		Storage: StorageConfig{
			Driver:         envOr("STORAGE_DRIVER", "local"),
			LocalDir:       envOr("LOCAL_UPLOAD_DIR", "./storage/uploads"),
			LocalURLPrefix: envOr("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
			S3Region:       os.Getenv("S3_REGION"),
			S3Bucket:       os.Getenv("S3_BUCKET"),
			S3Prefix:       envOr("S3_PREFIX", "staging"),
			S3PublicURL:    os.Getenv("S3_PUBLIC_BASE_URL"),
		},
	}

	cfg.Mail = MailConfig{
		Driver:        envOr("MAIL_DRIVER", "none"),
		From:          envOr("MAIL_FROM", "no-reply@localhost"),
		FromName:      envOr("MAIL_FROM_NAME", "Silicon Storefront"),
		NotifyTo:      splitList(os.Getenv("CONTACT_NOTIFY_TO")),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      envOr("SMTP_PORT", "1025"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SMTPTLSMode:   envOr("SMTP_TLS_MODE", "none"),
		MailtrapURL:   os.Getenv("MAILTRAP_API_URL"),
		MailtrapToken: os.Getenv("MAILTRAP_API_TOKEN"),
	}

	var err error
	if cfg.Mail.SMTPSkipTLS, err = boolOr("SMTP_SKIP_VERIFY", false); err != nil {
		return Config{}, err
	}
	if cfg.BackendTimeout, err = durationOr("BACKEND_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.WizardTTL, err = durationOr("WIZARD_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.CookieSecure, err = boolOr("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}

	if cfg.Storage.Driver == "s3" && (cfg.Storage.S3Region == "" || cfg.Storage.S3Bucket == "") {
		return Config{}, fmt.Errorf("S3 config missing: S3_REGION and S3_BUCKET required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWTSecret = []byte(jwtSecret)

	// Flash cookies fall back to the token secret.
	cfg.FlashSecret = []byte(envOr("FLASH_SECRET", jwtSecret))

	return cfg, nil
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationOr(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", k)
	}
	return d, nil
}

func boolOr(k string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", k, err)
	}
	return b, nil
}
