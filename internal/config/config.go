package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	RetentionSweep string `mapstructure:"retention_sweep"`
}

type TrackerConfig struct {
	IdleInterval  time.Duration `mapstructure:"idle_interval"`
	DropThreshold float64       `mapstructure:"drop_threshold"`
}

type ScraperConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	UserAgent     string        `mapstructure:"user_agent"`
}

type NotifierConfig struct {
	Channel    string        `mapstructure:"channel"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Gmail      GmailConfig   `mapstructure:"gmail"`
	WebhookURL string        `mapstructure:"webhook_url"`
}

type GmailConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	TokenFile string `mapstructure:"token_file"`
	From      string `mapstructure:"from"`
}

type RetentionConfig struct {
	MaxObservationAgeDays int `mapstructure:"max_observation_age_days"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.retention_sweep", "@every 24h")
	v.SetDefault("tracker.idle_interval", "4h")
	v.SetDefault("tracker.drop_threshold", 0.25)
	v.SetDefault("scraper.timeout", "15s")
	v.SetDefault("scraper.retry_attempts", 3)
	v.SetDefault("scraper.retry_delay", "1s")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0")
	v.SetDefault("notifier.channel", "log")
	v.SetDefault("notifier.timeout", "10s")
	v.SetDefault("notifier.gmail.endpoint", "https://gmail.googleapis.com/gmail/v1/users/me/messages/send")
	v.SetDefault("notifier.gmail.token_file", "token.json")
	v.SetDefault("notifier.gmail.from", "")
	v.SetDefault("notifier.webhook_url", "")
	v.SetDefault("retention.max_observation_age_days", 0)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
