package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"trackit/internal/config"
	cronrunner "trackit/internal/cron"
	"trackit/internal/db"
	"trackit/internal/handler"
	"trackit/internal/logger"
	"trackit/internal/notifier"
	gormrepository "trackit/internal/repository/gorm"
	"trackit/internal/scraper"
	"trackit/internal/service"
)

func main() {
	cfgPath := os.Getenv("TRACKIT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TRACKIT_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default feature switches failed", zap.Error(err))
	}

	fetcher := &scraper.Fetcher{
		Client:    &http.Client{Timeout: cfg.Scraper.Timeout},
		Attempts:  cfg.Scraper.RetryAttempts,
		Delay:     cfg.Scraper.RetryDelay,
		UserAgent: cfg.Scraper.UserAgent,
	}
	registry := scraper.NewRegistry(
		&scraper.FlipkartScraper{Fetcher: fetcher},
		&scraper.EbayScraper{Fetcher: fetcher},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := &service.TrackerService{
		Repo:          store,
		Scrapers:      registry,
		Notifier:      buildNotifier(cfg.Notifier, logger),
		Logger:        logger,
		Flags:         settingsSvc,
		IdleInterval:  cfg.Tracker.IdleInterval,
		DropThreshold: decimal.NewFromFloat(cfg.Tracker.DropThreshold),
	}
	control := &service.TrackingControl{
		Repo:    store,
		Tracker: tracker,
		Logger:  logger,
		BaseCtx: ctx,
	}
	if resumed, err := control.Resume(ctx); err != nil {
		logger.Warn("resume tracking failed", zap.Error(err))
	} else if resumed {
		logger.Info("tracking flag on at boot, loop resumed")
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	productHandler := &handler.ProductHandler{Repo: store, Logger: logger}
	productHandler.Register(engine)
	trackingHandler := &handler.TrackingHandler{Repo: store, Control: control, Logger: logger}
	trackingHandler.Register(engine)
	settingsHandler := &handler.SettingsHandler{Repo: store, Settings: settingsSvc}
	settingsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	retention := &service.RetentionService{
		Repo:       store,
		Logger:     logger,
		Flags:      settingsSvc,
		MaxAgeDays: cfg.Retention.MaxObservationAgeDays,
	}
	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err := cronRunner.Add(cfg.Cron.RetentionSweep, func(ctx context.Context) {
			if err := retention.RunOnce(ctx); err != nil {
				logger.Warn("retention sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register retention sweep failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func buildNotifier(cfg config.NotifierConfig, logger *zap.Logger) notifier.Notifier {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	switch strings.ToLower(strings.TrimSpace(cfg.Channel)) {
	case "gmail":
		return &notifier.GmailSender{
			Endpoint:  cfg.Gmail.Endpoint,
			TokenFile: cfg.Gmail.TokenFile,
			From:      cfg.Gmail.From,
			HTTP:      httpClient,
		}
	case "webhook":
		return &notifier.WebhookSender{URL: cfg.WebhookURL, HTTP: httpClient}
	default:
		return &notifier.LogSender{Logger: logger}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
