package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is built once at process start and treated as read-only afterwards.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	Backend   BackendConfig   `mapstructure:"backend"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	LLM       LLMConfig       `mapstructure:"llm"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Env          string        `mapstructure:"env"`
	Debug        bool          `mapstructure:"debug"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

type JWTConfig struct {
	Secret                   string `mapstructure:"secret"`
	Algorithm                string `mapstructure:"algorithm"`
	AccessTokenExpireMinutes int    `mapstructure:"access_token_expire_minutes"`
}

// AccessTokenTTL is the default lifetime of tokens issued at login.
func (c JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type BackendConfig struct {
	CORSOrigins string `mapstructure:"cors_origins"`
}

// AllowedOrigins splits the comma-separated origin list, dropping blanks.
func (c BackendConfig) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type RateLimitConfig struct {
	AuthPerMinute int `mapstructure:"auth_per_minute"`
}

type LLMConfig struct {
	APIBaseURL string `mapstructure:"api_base_url"`
	APIKey     string `mapstructure:"api_key"`
}

// Enabled reports whether an LLM endpoint has been configured.
func (c LLMConfig) Enabled() bool {
	return c.APIBaseURL != "" && c.APIKey != ""
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

var signingAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8000)
	v.SetDefault("app.read_timeout", 15*time.Second)
	v.SetDefault("app.write_timeout", 30*time.Second)
	v.SetDefault("app.idle_timeout", 60*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.access_token_expire_minutes", 60)

	v.SetDefault("security.bcrypt_cost", 12)

	v.SetDefault("backend.cors_origins", "http://localhost:5173")

	v.SetDefault("rate_limit.auth_per_minute", 30)

	v.SetDefault("llm.api_base_url", "")
	v.SetDefault("llm.api_key", "")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")
}

// Load reads defaults, then the YAML file at path (if it exists), then the
// environment. Nested keys map to env vars with dots replaced by underscores,
// so jwt.secret is JWT_SECRET and database.url is DATABASE_URL.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("config: DATABASE_URL must be set")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	c.JWT.Algorithm = strings.ToUpper(c.JWT.Algorithm)
	if !signingAlgorithms[c.JWT.Algorithm] {
		return fmt.Errorf("config: JWT_ALGORITHM %q is not supported (HS256, HS384, HS512)", c.JWT.Algorithm)
	}
	if c.JWT.AccessTokenExpireMinutes <= 0 {
		return errors.New("config: JWT_ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return errors.New("config: SECURITY_BCRYPT_COST must be between 4 and 31")
	}
	if c.App.Env == "production" && c.App.Debug {
		return errors.New("config: APP_DEBUG must not be true when APP_ENV=production")
	}
	if c.App.Port <= 0 {
		return errors.New("config: APP_PORT must be positive")
	}
	return nil
}
