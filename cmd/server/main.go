package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	abiz "github.com/lk2023060901/workspace-backend/internal/activity/biz"
	activityservice "github.com/lk2023060901/workspace-backend/internal/activity/service"
	"github.com/lk2023060901/workspace-backend/internal/auth"
	authbiz "github.com/lk2023060901/workspace-backend/internal/auth/biz"
	"github.com/lk2023060901/workspace-backend/internal/auth/middleware"
	authservice "github.com/lk2023060901/workspace-backend/internal/auth/service"
	cbiz "github.com/lk2023060901/workspace-backend/internal/catalog/biz"
	catalogdata "github.com/lk2023060901/workspace-backend/internal/catalog/data"
	catalogservice "github.com/lk2023060901/workspace-backend/internal/catalog/service"
	"github.com/lk2023060901/workspace-backend/internal/conf"
	"github.com/lk2023060901/workspace-backend/internal/data"
	emailservice "github.com/lk2023060901/workspace-backend/internal/email/service"
	fbiz "github.com/lk2023060901/workspace-backend/internal/favorite/biz"
	favoriteservice "github.com/lk2023060901/workspace-backend/internal/favorite/service"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/sse"
	"github.com/lk2023060901/workspace-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/workspace-backend/internal/server"
	tbiz "github.com/lk2023060901/workspace-backend/internal/theme/biz"
	themedata "github.com/lk2023060901/workspace-backend/internal/theme/data"
	themeservice "github.com/lk2023060901/workspace-backend/internal/theme/service"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "config file path")
)

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(&config.Log); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully", zap.String("path", *configFile))

	d, cleanup, err := data.NewData(config, log)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Repositories
	var pendingRepo authbiz.PendingAuthRepo = authbiz.NewMemoryPendingAuthRepo()
	var limiter middleware.ScriptRunner
	if d.Redis != nil {
		pendingRepo = authbiz.NewRedisPendingAuthRepo(d.Redis)
		limiter = d.Redis
	}

	var themeRepo tbiz.PreferenceRepo
	switch config.Theme.Store {
	case "redis":
		themeRepo = themedata.NewRedisPreferenceRepo(d.Redis)
	case "postgres":
		themeRepo, err = themedata.NewPostgresPreferenceRepo(d.DB)
		if err != nil {
			log.Fatal("failed to initialize theme store", zap.Error(err))
		}
	default:
		themeRepo = themedata.NewMemoryPreferenceRepo()
	}
	catalogRepo := catalogdata.NewStaticRepo()

	// Use cases
	jwtManager := auth.NewJWTManager(config.Auth.JWTSecret, config.Auth.JWTIssuer, config.Auth.TokenTTL)
	totpManager := auth.NewTOTPManager(config.Auth.TOTPIssuer, config.Auth.TOTPSeed)

	var sender authbiz.CodeSender = authbiz.NewLogSender(log)
	if config.Email.Enabled {
		emailCfg := config.Email.EmailConfig
		mailer, err := emailservice.NewEmailService(&emailCfg)
		if err != nil {
			log.Fatal("failed to initialize email service", zap.Error(err))
		}
		sender = emailservice.NewCodeSender(mailer, sender)
	}
	var deliveryPool *workerpool.Pool
	if config.Auth.DeliveryWorkers > 0 {
		deliveryPool, err = workerpool.New(&workerpool.Config{Workers: config.Auth.DeliveryWorkers}, log.Logger)
		if err != nil {
			log.Fatal("failed to create delivery pool", zap.Error(err))
		}
		sender = authbiz.NewPooledSender(deliveryPool, sender, log)
	}

	favoriteUC := fbiz.NewFavoriteUseCase(fbiz.NewRegistry(), catalogRepo, log)
	catalogUC := cbiz.NewCatalogUseCase(catalogRepo, favoriteUC)
	activityUC := abiz.NewActivityUseCase(log)
	themeUC := tbiz.NewThemeUseCase(themeRepo, config.Theme.Default, log)
	authUC := authbiz.NewAuthUseCase(pendingRepo, jwtManager, totpManager, authbiz.Options{
		Simulate:       config.Auth.Simulate,
		PendingTTL:     config.Auth.PendingTTL,
		ResendCooldown: config.Auth.ResendCooldown,
		MaxAttempts:    config.Auth.MaxAttempts,
		QRTTL:          config.Auth.QRTTL,
		Sender:         sender,
	}, log, favoriteUC, activityUC)

	httpServer := server.NewHTTPServer(config, log, jwtManager, limiter, server.Services{
		Auth:     authservice.NewAuthService(authUC, log),
		Favorite: favoriteservice.NewFavoriteService(favoriteUC, sse.NewHub(), log),
		Catalog:  catalogservice.NewCatalogService(catalogUC),
		Activity: activityservice.NewActivityService(activityUC),
		Theme:    themeservice.NewThemeService(themeUC, log),
	})

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully",
		zap.String("addr", config.Server.Addr()),
		zap.Bool("simulate_auth", config.Auth.Simulate),
		zap.String("theme_store", config.Theme.Store),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	if deliveryPool != nil {
		if err := deliveryPool.Shutdown(ctx); err != nil {
			log.Warn("pending code deliveries dropped", zap.Error(err))
		}
	}

	log.Info("server exited")
}
