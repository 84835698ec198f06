package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pc_store/internal/config"
	"github.com/Skotchmaster/pc_store/internal/httpserver"
	"github.com/Skotchmaster/pc_store/internal/mykafka"
	"github.com/Skotchmaster/pc_store/internal/repo"
	"github.com/Skotchmaster/pc_store/internal/service"
	pkgdb "github.com/Skotchmaster/pc_store/pkg/db"
	"github.com/Skotchmaster/pc_store/pkg/logging"
	middleware "github.com/Skotchmaster/pc_store/pkg/middleware/auth"
	"github.com/Skotchmaster/pc_store/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/pc_store/pkg/middleware/logging"
	"github.com/Skotchmaster/pc_store/pkg/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	if cfg.JWTSecretRandom {
		logger.Warn("jwt_secret_generated", "reason", "JWT_SECRET is empty, tokens will not survive a restart")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, db, err := openStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		log.Fatalf("store open: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers, logger)
	auth := middleware.NewAuth(cfg.JWTSecret, cfg.AuthRequired)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpserver.NewValidator()
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	if cfg.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			AuthCookie:        tokens.AccessCookieName,
			Secure:            cfg.CookieSecure,
			EnforceSameOrigin: true,
			SkipPaths:         []string{"/api/users/login"},
		}))
	}

	httpserver.Register(e, &httpserver.Deps{
		Store:          store,
		ProductHandler: &httpserver.ProductHTTP{Svc: &service.CatalogService{Store: store}, Producer: producer},
		Categories: &httpserver.LabelHTTP{
			Svc:      service.NewLabelService(store, service.Categories),
			Producer: producer,
			Plural:   "categories",
		},
		Brands: &httpserver.LabelHTTP{
			Svc:      service.NewLabelService(store, service.Brands),
			Producer: producer,
			Plural:   "brands",
		},
		UserHandler: &httpserver.UserHTTP{
			Svc:      &service.UserService{Store: store, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL},
			Producer: producer,
			Auth:     auth,
		},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{Store: store}, Producer: producer},
		CartHandler:  &httpserver.CartHTTP{Svc: &service.CartService{Store: store}},
		UploadHandler: &httpserver.UploadHTTP{
			Dir:       cfg.UploadDir,
			PublicURL: cfg.PublicURL,
			MaxBytes:  cfg.MaxUploadBytes,
		},
		Auth: auth,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "store", cfg.StoreDriver, "auth_required", cfg.AuthRequired)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if db != nil {
		if err := pkgdb.Close(db); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}

	logger.Info("server_stopped")
}

// openStore builds the document store for the configured driver. db is nil
// for the file driver.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repo.Store, *gorm.DB, error) {
	if cfg.StoreDriver == config.DriverFile {
		return repo.NewStore(repo.NewFileBackend(cfg.DataFile), logger), nil, nil
	}

	db, err := pkgdb.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	backend, err := repo.NewGormBackend(ctx, db, repo.DefaultDocumentName)
	if err != nil {
		_ = pkgdb.Close(db)
		return nil, nil, fmt.Errorf("migrate documents: %w", err)
	}
	return repo.NewStore(backend, logger), db, nil
}
