package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// QuotaConfig controls the generation allowance handed to every user per period.
type QuotaConfig struct {
	DefaultAllowance int
	PeriodMonths     int
	MaxBoostAmount   int
}

// AnalyticsConfig controls lookback windows for the pattern queries.
type AnalyticsConfig struct {
	DefaultWeeks int
	RecentWeeks  int
	MinSample    int
}

// Config keeps runtime settings for the Monthly Zen bot.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	LLMAPIKey     string
	LLMModel      string
	ReportTime    string // HH:MM, local time of the morning intention broadcast
	SweepInterval time.Duration
	Quota         QuotaConfig
	Analytics     AnalyticsConfig
}

// Load reads configuration from an optional monthlyzen.yaml and MONTHLYZEN_*
// environment variables, falling back to defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("monthlyzen")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/monthlyzen")

	v.SetEnvPrefix("MONTHLYZEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.url", "monthlyzen.db")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("report.time", "08:00")
	v.SetDefault("quota.sweep_interval_minutes", 60)
	v.SetDefault("quota.default_allowance", 50)
	v.SetDefault("quota.period_months", 1)
	v.SetDefault("quota.max_boost_amount", 100)
	v.SetDefault("analytics.default_weeks", 4)
	v.SetDefault("analytics.recent_weeks", 2)
	v.SetDefault("analytics.min_sample", 3)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		TelegramToken: strings.TrimSpace(v.GetString("telegram.token")),
		DatabaseURL:   strings.TrimSpace(v.GetString("database.url")),
		LLMAPIKey:     strings.TrimSpace(v.GetString("llm.api_key")),
		LLMModel:      strings.TrimSpace(v.GetString("llm.model")),
		ReportTime:    strings.TrimSpace(v.GetString("report.time")),
		SweepInterval: time.Duration(v.GetInt("quota.sweep_interval_minutes")) * time.Minute,
		Quota: QuotaConfig{
			DefaultAllowance: v.GetInt("quota.default_allowance"),
			PeriodMonths:     v.GetInt("quota.period_months"),
			MaxBoostAmount:   v.GetInt("quota.max_boost_amount"),
		},
		Analytics: AnalyticsConfig{
			DefaultWeeks: v.GetInt("analytics.default_weeks"),
			RecentWeeks:  v.GetInt("analytics.recent_weeks"),
			MinSample:    v.GetInt("analytics.min_sample"),
		},
	}

	if cfg.Quota.DefaultAllowance <= 0 {
		return cfg, fmt.Errorf("quota.default_allowance must be positive")
	}
	if cfg.Quota.PeriodMonths <= 0 {
		return cfg, fmt.Errorf("quota.period_months must be positive")
	}
	if cfg.Analytics.RecentWeeks > cfg.Analytics.DefaultWeeks {
		return cfg, fmt.Errorf("analytics.recent_weeks cannot exceed analytics.default_weeks")
	}
	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("telegram.token is required (MONTHLYZEN_TELEGRAM_TOKEN)")
	}

	return cfg, nil
}
