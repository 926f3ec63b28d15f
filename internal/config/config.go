package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrNoDSN — DB_DSN не задан ни в окружении, ни в .env
var ErrNoDSN = errors.New("DB_DSN is empty (check your .env)")

// Config — все настройки приложения
type Config struct {
	AppEnv        string        `mapstructure:"APP_ENV"`
	AppPort       string        `mapstructure:"APP_PORT"`
	AppURL        string        `mapstructure:"APP_URL"`
	DbDSN         string        `mapstructure:"DB_DSN"`
	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	StorageRoot   string        `mapstructure:"STORAGE_ROOT"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	TokenTTL      time.Duration `mapstructure:"TOKEN_TTL"`
	CorsOrigin    string        `mapstructure:"CORS_ORIGIN"`
}

var keys = map[string]any{
	"APP_ENV":        "development",
	"APP_PORT":       "8080",
	"APP_URL":        "http://localhost:8080",
	"DB_DSN":         "",
	"SESSION_SECRET": "dev_fallback_secret",
	"STORAGE_ROOT":   "storage/app/public",
	"LOG_LEVEL":      "info",
	"REDIS_ADDR":     "",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"TOKEN_TTL":      "720h",
	"CORS_ORIGIN":    "http://localhost:3000",
}

// Load грузит .env из нескольких мест (текущая папка, родительская, корень репо),
// а затем читает переменные окружения через viper.
func Load() (*Config, error) {
	_ = godotenv.Load(".env", "../.env", "../../.env")

	v := viper.New()
	for k, def := range keys {
		v.SetDefault(k, def)
		// без BindEnv Unmarshal не видит ключи, которых нет в конфиг-файле
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}
	v.AutomaticEnv()

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}
	cf.AppURL = strings.TrimRight(cf.AppURL, "/")
	return cf, nil
}

// RequireDSN нужен командам, которые ходят в БД
func (c *Config) RequireDSN() error {
	if c.DbDSN == "" {
		return ErrNoDSN
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
