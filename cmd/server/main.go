package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shop_backend/internal/config"
	"github.com/Skotchmaster/shop_backend/internal/db"
	"github.com/Skotchmaster/shop_backend/internal/events"
	"github.com/Skotchmaster/shop_backend/internal/httpserver"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/mail"
	authmw "github.com/Skotchmaster/shop_backend/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/shop_backend/internal/middleware/logging"
	"github.com/Skotchmaster/shop_backend/internal/migrate"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/search"
	"github.com/Skotchmaster/shop_backend/internal/service"
	"github.com/Skotchmaster/shop_backend/internal/storage/minio"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)
	ctx := logging.IntoContext(context.Background(), log)

	if cfg.Database.AutoMigrate {
		if err := migrate.Up(ctx, cfg.Database.DSN); err != nil {
			log.Error("migrate_error", "error", err)
			os.Exit(1)
		}
	}

	gdb, err := db.OpenWithRetry(ctx, cfg.Database.DSN, 30*time.Second)
	if err != nil {
		log.Error("db_connect_error", "error", err)
		os.Exit(1)
	}
	r := repo.New(gdb)

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers)
	}

	var mailer mail.Sender = mail.LogSender{}
	if cfg.MailEnabled() {
		smtp, err := mail.NewSMTPSender(cfg.SMTP)
		if err != nil {
			log.Error("smtp_error", "error", err)
			os.Exit(1)
		}
		mailer = smtp
	}

	products := &service.ProductService{Repo: r, Events: publisher}
	blogs := &service.BlogService{Repo: r}

	if cfg.SearchEnabled() {
		es, err := search.New(cfg.Search)
		if err != nil {
			log.Error("search_error", "error", err)
			os.Exit(1)
		}
		if err := es.Ping(ctx); err != nil {
			log.Warn("search_unavailable", "error", err)
		}
		products.Index = es
	}

	if cfg.StorageEnabled() {
		store, err := minio.NewClient(ctx, cfg.Storage)
		if err != nil {
			log.Error("storage_error", "error", err)
			os.Exit(1)
		}
		products.Uploader = store
		blogs.Uploader = store
	}

	tm := tokens.NewManager([]byte(cfg.JWT.Secret), tokens.WithTTL(cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL))
	transactional := cfg.ConsistencyMode == config.ConsistencyTransactional

	deps := httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:      r,
				Tokens:    tm,
				Mailer:    mailer,
				Events:    publisher,
				PublicURL: cfg.PublicURL,
			},
			CookieMaxAge: cfg.Cookie.MaxAge,
			CookieSecure: cfg.Cookie.Secure,
		},
		UserHandler: &httpserver.UserHTTP{Svc: &service.UserService{Repo: r}},
		CartHandler: &httpserver.CartHTTP{
			Carts: &service.CartService{
				Repo:          r,
				Policy:        service.PolicyFromConfig(cfg.CouponPolicy),
				Transactional: transactional,
			},
			Orders: &service.OrderService{Repo: r, Events: publisher, Transactional: transactional},
		},
		ProductHandler: &httpserver.ProductHTTP{Svc: products},
		BlogHandler:    &httpserver.BlogHTTP{Svc: blogs},
		CouponHandler:  &httpserver.CouponHTTP{Svc: &service.CouponService{Repo: r}},
		Brands:         &httpserver.TaxonomyHTTP{Svc: &service.TaxonomyService{Repo: r, Kind: models.TaxonomyBrand}},
		Categories:     &httpserver.TaxonomyHTTP{Svc: &service.TaxonomyService{Repo: r, Kind: models.TaxonomyProductCategory}},
		BlogCategories: &httpserver.TaxonomyHTTP{Svc: &service.TaxonomyService{Repo: r, Kind: models.TaxonomyBlogCategory}},
		Auth:           authmw.NewAuthenticator(tm, r),
		Ready:          r.Ping,
		AuthRateLimit:  cfg.AuthRateLimit,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler(cfg.ExposeErrors())
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(log),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowCredentials: true,
		}),
		middleware.Secure(),
	)

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           e,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Info("http_server_started", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		log.Warn("force_exit")
		os.Exit(1)
	}()

	log.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown_error", "error", err)
	}

	if err := publisher.Close(); err != nil {
		log.Error("kafka_close_error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("db_close_error", "error", err)
		}
	} else {
		log.Error("db_handle_error", "error", err)
	}

	log.Info("shutdown_complete")
}
