package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string `env:"APP_ENV" envDefault:"development"`
	Port           string `env:"PORT" envDefault:"8080"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	PublicURL      string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	// TrustedProxies lists the proxy addresses or CIDRs whose
	// X-Forwarded-For is honoured. Empty means the peer address is used.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`
	// BootstrapAdminID is granted the admin role at startup when set.
	BootstrapAdminID string `env:"BOOTSTRAP_ADMIN_USER_ID"`

	BaaS BaaSConfig

	MeiliSearchHost string `env:"MEILISEARCH_HOST" envDefault:"http://localhost:7700"`
	MeiliMasterKey  string `env:"MEILI_MASTER_KEY"`

	CloudinaryURL          string `env:"CLOUDINARY_URL"`
	CloudinaryUploadFolder string `env:"CLOUDINARY_UPLOAD_FOLDER" envDefault:"quezon_portal"`

	RateLimitContact time.Duration `env:"RATE_LIMIT_CONTACT" envDefault:"1m"`
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	DownloadsDir    string `env:"DOWNLOADS_DIR" envDefault:"./public/downloads"`
	MaintenanceMode bool   `env:"MAINTENANCE_MODE" envDefault:"false"`
}

// BaaSConfig holds the hosted backend project settings. ServiceRoleKey is
// only ever read by server processes and operator CLIs.
type BaaSConfig struct {
	URL            string `env:"BAAS_URL"`
	AnonKey        string `env:"BAAS_ANON_KEY"`
	ServiceRoleKey string `env:"BAAS_SERVICE_ROLE_KEY"`
	JWTSecret      string `env:"BAAS_JWT_SECRET"`
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if !strings.HasPrefix(cfg.MeiliSearchHost, "http") {
		cfg.MeiliSearchHost = "http://" + cfg.MeiliSearchHost + ":7700"
	}

	return cfg, nil
}

// LoadBaaS reads only the hosted backend settings, for the operator CLIs.
func LoadBaaS() (*BaaSConfig, error) {
	_ = godotenv.Load()

	cfg := &BaaSConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config.LoadBaaS: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.BaaS.URL == "" {
		missing = append(missing, "BAAS_URL")
	}
	if c.BaaS.AnonKey == "" {
		missing = append(missing, "BAAS_ANON_KEY")
	}
	if c.BaaS.JWTSecret == "" {
		missing = append(missing, "BAAS_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
