package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Insecure placeholder secrets that must never reach production.
var insecureDefaults = map[string]bool{
	"a-default-secret-key-change-me": true,
	"change-me":                      true,
	"":                               true,
}

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Panel    PanelConfig
}

type AppConfig struct {
	Name         string
	ConfigDir    string
	TemplatesDir string
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SessionConfig struct {
	Secret string
	// RedisAddr selects the redis-backed session store when set;
	// empty means encrypted cookie store.
	RedisAddr     string
	RedisPassword string
	CookieName    string
	MaxAgeSeconds int
}

type PanelConfig struct {
	BaseURL        string
	ApplicationKey string
	ClientKey      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, relying on environment variables")
	}

	cfg := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "AzrovaDash"),
			ConfigDir:    getEnv("CONFIG_DIR", "config"),
			TemplatesDir: getEnv("TEMPLATES_DIR", "web/templates"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "azrova"),
			Password: getEnv("DB_PASSWORD", "azrova"),
			DBName:   getEnv("DB_NAME", "azrovadash"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret:        getEnv("SESSION_SECRET", ""),
			RedisAddr:     getEnv("SESSION_REDIS_ADDR", ""),
			RedisPassword: getEnv("SESSION_REDIS_PASSWORD", ""),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "azrova_session"),
			MaxAgeSeconds: getEnvInt("SESSION_MAX_AGE_SECONDS", 86400),
		},
		Panel: PanelConfig{
			BaseURL:        getEnv("PANEL_URL", ""),
			ApplicationKey: getEnv("PANEL_API_KEY", ""),
			ClientKey:      getEnv("PANEL_CLIENT_KEY", ""),
		},
	}

	// Do not log secrets.
	log.Printf("[config] %s loaded: port=%s db=%s/%s panel=%s config_dir=%s",
		cfg.App.Name, cfg.Server.Port, cfg.Database.Host, cfg.Database.DBName,
		cfg.Panel.BaseURL, cfg.App.ConfigDir)

	return cfg
}

// Validate checks that required secrets are present. Missing panel credentials
// are warned about rather than fatal: every panel-dependent route degrades to
// an error response without them, but the process can still serve login pages.
func (c *Config) Validate() error {
	if insecureDefaults[c.Session.Secret] {
		return fmt.Errorf("SESSION_SECRET must be set to a secure value (current value is insecure or empty)")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	if c.Panel.BaseURL == "" || c.Panel.ApplicationKey == "" {
		log.Println("[config] WARNING: PANEL_URL or PANEL_API_KEY not set; panel API calls will fail")
	}
	if c.Panel.ClientKey == "" {
		log.Println("[config] WARNING: PANEL_CLIENT_KEY not set; live server status polling will fail")
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
