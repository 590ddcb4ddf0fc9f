// Package config loads service settings from an optional config file
// and the environment. Environment variables win and use the EAS_
// prefix, e.g. EAS_HTTP_PORT=9000.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN          string `mapstructure:"dsn"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
		MaxIdleConns int    `mapstructure:"max_idle_conns"`
	} `mapstructure:"postgres"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Stats struct {
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
		NumDays  int           `mapstructure:"num_days"`
	} `mapstructure:"stats"`

	Events struct {
		RetentionDays      int           `mapstructure:"retention_days"`
		CompactionInterval time.Duration `mapstructure:"compaction_interval"`
	} `mapstructure:"events"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http.port", "8080")
	v.SetDefault("postgres.dsn", "postgres://localhost:5432/analytics?sslmode=disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("stats.cache_ttl", 5*time.Minute)
	v.SetDefault("stats.num_days", 7)
	v.SetDefault("events.retention_days", 186)
	v.SetDefault("events.compaction_interval", time.Hour)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("EAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
