package config

import (
	"time"

	"arden/api_monitor/internal/alerts"
	pkgconfig "arden/api_monitor/pkg/config"
	"arden/api_monitor/pkg/email"
)

type Config struct {
	DatabaseURL       string
	AgentSharedSecret string
	DefaultAlertEmail string
	SweepInterval     time.Duration
	Alerts            alerts.Config
	SMTP              email.Config
}

func Load() Config {
	defaults := alerts.DefaultConfig()
	return Config{
		DatabaseURL:       pkgconfig.GetEnv("DATABASE_URL", ""),
		AgentSharedSecret: pkgconfig.GetEnv("AGENT_SHARED_SECRET", "change-me"),
		DefaultAlertEmail: pkgconfig.GetEnv("DEFAULT_ALERT_EMAIL", "alerts@arden.ai"),
		SweepInterval:     pkgconfig.GetEnvDuration("SWEEP_INTERVAL", 30*time.Second),
		Alerts: alerts.Config{
			OfflineAfter:     pkgconfig.GetEnvDuration("OFFLINE_AFTER", defaults.OfflineAfter),
			DiskFloorPct:     pkgconfig.GetEnvFloat("DISK_FREE_PCT_FLOOR", defaults.DiskFloorPct),
			DiskRealertEvery: pkgconfig.GetEnvDuration("DISK_REALERT_INTERVAL", defaults.DiskRealertEvery),
		},
		SMTP: email.Config{
			Host:     pkgconfig.GetEnv("SMTP_HOST", ""),
			Port:     pkgconfig.GetEnv("SMTP_PORT", "587"),
			User:     pkgconfig.GetEnv("SMTP_USER", ""),
			Password: pkgconfig.GetEnv("SMTP_PASS", ""),
			From:     pkgconfig.GetEnv("SMTP_FROM", "alerts@arden.ai"),
			FromName: pkgconfig.GetEnv("SMTP_FROM_NAME", "Arden Monitor"),
		},
	}
}
