package main

import (
	"context"

	"arden/api_monitor/internal/alerts"
	appconfig "arden/api_monitor/internal/config"
	"arden/api_monitor/internal/handlers"
	"arden/api_monitor/internal/notifier"
	"arden/api_monitor/internal/store"
	"arden/api_monitor/pkg/auth"
	"arden/api_monitor/pkg/config"
	"arden/api_monitor/pkg/database"
	"arden/api_monitor/pkg/email"
	"arden/api_monitor/pkg/logging"
	"arden/api_monitor/pkg/monitoring"
	"arden/api_monitor/pkg/server"
	"arden/api_monitor/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("lighthouse")

	// Load environment variables
	config.LoadEnv(logger)
	cfg := appconfig.Load()

	logger.Info("Starting Lighthouse (Node Liveness & Alerting API)")

	// Connect to database and apply schema
	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer db.Close()
	if err := database.Migrate(db, logger); err != nil {
		logger.WithError(err).Fatal("Failed to apply database schema")
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("lighthouse", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("lighthouse", version.Version, version.GitCommit)

	// Alert transport
	sender := email.NewSender(cfg.SMTP)
	notify := notifier.NewEmail(sender, logger).
		WithFailureCounter(metricsCollector.NewCounter("notify_failures_total", "Alerts dropped due to delivery failures", nil).WithLabelValues())

	// Add health checks
	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("smtp", monitoring.SMTPHealthCheck(sender.Configured))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL":        cfg.DatabaseURL,
		"AGENT_SHARED_SECRET": cfg.AgentSharedSecret,
	}))

	// Directory store and alert engine
	dir := store.NewPostgres(db)
	engine := alerts.NewEngine(dir, notify, cfg.Alerts, logger).
		WithMetrics(
			metricsCollector.NewCounter("sweeps_total", "Alert engine sweep passes", nil).WithLabelValues(),
			metricsCollector.NewCounter("alerts_sent_total", "Alerts triggered by the sweep", []string{"condition"}),
		)

	// Initialize handlers
	handlers.Init(dir, engine, logger, cfg.DefaultAlertEmail)
	handlers.InitMetrics(
		metricsCollector.NewCounter("heartbeats_total", "Heartbeat reports ingested", nil).WithLabelValues(),
		metricsCollector.NewCounter("metric_reports_total", "Metric reports ingested", nil).WithLabelValues(),
	)

	// Background sweeper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx, cfg.SweepInterval)

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "lighthouse", healthChecker, metricsCollector)

	// Agent-facing routes (require the shared secret)
	api := router.Group("/api")
	api.Use(auth.AgentAuthMiddleware(cfg.AgentSharedSecret))
	{
		api.POST("/heartbeat", handlers.PostHeartbeat)
		api.POST("/metrics", handlers.PostMetrics)
		api.POST("/sweep", handlers.PostSweep)

		api.GET("/sites", handlers.GetSites)
		api.GET("/nodes", handlers.GetNodes)
		api.GET("/nodes/:agent_id", handlers.GetNode)
	}

	// Start server with graceful shutdown
	serverConfig := server.DefaultConfig("lighthouse", "18010")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
