package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/internal/receipt/download"
	"github.com/fekuna/omnipos-storefront/internal/receipt/generator"
	"github.com/fekuna/omnipos-storefront/internal/receipt/publisher"
	"github.com/fekuna/omnipos-storefront/internal/receipt/renderer"
	"github.com/fekuna/omnipos-storefront/internal/server"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/fekuna/omnipos-storefront/pkg/broker"
	"github.com/fekuna/omnipos-storefront/pkg/cache"
	"github.com/fekuna/omnipos-storefront/pkg/database"
	"github.com/fekuna/omnipos-storefront/pkg/supabase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	authH "github.com/fekuna/omnipos-storefront/internal/auth/handler"
	authUCPkg "github.com/fekuna/omnipos-storefront/internal/auth/usecase"

	cartH "github.com/fekuna/omnipos-storefront/internal/cart/handler"

	catH "github.com/fekuna/omnipos-storefront/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-storefront/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-storefront/internal/category/usecase"

	prodH "github.com/fekuna/omnipos-storefront/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-storefront/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-storefront/internal/product/usecase"

	rcptH "github.com/fekuna/omnipos-storefront/internal/receipt/handler"
	rcptRepoPkg "github.com/fekuna/omnipos-storefront/internal/receipt/repository"
	rcptUCPkg "github.com/fekuna/omnipos-storefront/internal/receipt/usecase"

	sessH "github.com/fekuna/omnipos-storefront/internal/session/handler"

	teamH "github.com/fekuna/omnipos-storefront/internal/team/handler"
	teamUCPkg "github.com/fekuna/omnipos-storefront/internal/team/usecase"
)

const (
	healthInterval  = 15 * time.Second
	janitorInterval = time.Minute
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the gRPC health endpoint",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Create missing collections before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := openDB(cfg, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()
	if autoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	// Redis is optional; a nil client caches nothing.
	var redisClient *cache.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("could not connect to redis, catalog cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// Kafka is optional; without brokers receipt events are dropped.
	events := publisher.NewReceiptPublisher(nil)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		events = publisher.NewReceiptPublisher(producer)
		appLogger.Info("publishing receipt events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	branding, err := config.LoadBranding(cfg.Receipt.BrandingFile)
	if err != nil {
		return err
	}

	sb := supabase.NewClient(&supabase.Config{
		URL:            cfg.Supabase.URL,
		AnonKey:        cfg.Supabase.AnonKey,
		ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
		Timeout:        cfg.Supabase.Timeout,
	})

	pdf := renderer.NewRodRenderer(renderer.Config{
		Bin:        cfg.Browser.Bin,
		ControlURL: cfg.Browser.ControlURL,
		Headless:   cfg.Browser.Headless,
	}, appLogger)
	defer pdf.Close()

	downloads := download.NewCache(cfg.Receipt.DownloadTTL)
	defer downloads.Close()

	// Use cases
	catUC := catUCPkg.NewCategoryUseCase(catRepoPkg.NewPGRepository(db), redisClient, cfg.Redis.TTL, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepoPkg.NewPGRepository(db), redisClient, cfg.Redis.TTL, cfg.Receipt.CatalogPageSize, appLogger)
	gen := generator.NewGenerator(generator.PagePolicy{
		First: cfg.Receipt.FirstPageItems,
		Rest:  cfg.Receipt.OtherPageItems,
	}, branding, pdf)
	rcptOpts := rcptUCPkg.Options{
		CacheControl:   cfg.Receipt.CacheControl,
		PersistTimeout: cfg.Receipt.PersistTimeout,
	}
	rcptUC := rcptUCPkg.NewReceiptUseCase(rcptRepoPkg.NewPGRepository(db), gen, sb.Bucket(cfg.Supabase.Bucket), downloads, events, rcptOpts, appLogger)
	authUC := authUCPkg.NewAuthUseCase(sb, appLogger)
	teamUC := teamUCPkg.NewTeamUseCase(sb, cfg.Team.HiddenEmail, appLogger)

	sessions := session.NewStore(cfg.Session.IdleTimeout)
	cookies := session.NewCookieStore(cfg.Session.Secret, int(cfg.Session.IdleTimeout.Seconds()), cfg.Session.Secure)
	manager := session.NewManager(sessions, cookies, cfg.Session.CookieName, appLogger)
	if cfg.Team.AdminEmail == "" {
		appLogger.Warn("ADMIN_EMAIL is not set, admin routes will reject every user")
	}

	// Handlers
	handlers := &server.Handlers{
		Auth:     authH.NewAuthHandler(authUC, manager, appLogger),
		Session:  sessH.NewSessionHandler(appLogger),
		Category: catH.NewCategoryHandler(catUC, appLogger),
		Product:  prodH.NewProductHandler(prodUC, appLogger),
		Cart:     cartH.NewCartHandler(prodUC, appLogger),
		Receipt:  rcptH.NewReceiptHandler(rcptUC, downloads, appLogger),
		Team:     teamH.NewTeamHandler(teamUC, appLogger),
	}

	health := server.NewHealth(db, appLogger)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPPort,
		Handler:           server.NewRouter(handlers, manager, cfg.Team.AdminEmail, health, appLogger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	grpcPort := cfg.Server.GRPCPort
	if !strings.HasPrefix(grpcPort, ":") {
		grpcPort = ":" + grpcPort
	}
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		return err
	}
	grpcServer := server.NewGRPCServer(health)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("starting http server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		appLogger.Info("starting grpc server", zap.String("port", grpcPort))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		return health.Watch(gctx, healthInterval)
	})
	g.Go(func() error {
		return sessions.RunJanitor(gctx, janitorInterval, func(n int) {
			appLogger.Debug("pruned idle sessions", zap.Int("count", n))
		})
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		health.Shutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("http shutdown error", zap.Error(err))
		}
		grpcServer.GracefulStop()
		return nil
	})

	err = g.Wait()
	appLogger.Info("server stopped")
	return err
}
