package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lotto-happy/internal/backend"
	"lotto-happy/internal/cache"
	"lotto-happy/internal/catalog"
	"lotto-happy/internal/config"
	"lotto-happy/internal/db"
	"lotto-happy/internal/handlers"
	"lotto-happy/internal/logger"
	"lotto-happy/internal/middleware"
	"lotto-happy/internal/services"
	"lotto-happy/internal/store"
)

// memoryDB selects the in-process local book instead of a database.
const memoryDB = "memory"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Operators
	cat := catalog.Default()
	if cfg.OperatorsFile != "" {
		c, err := catalog.Load(cfg.OperatorsFile)
		if err != nil {
			return err
		}
		cat = c
	}

	// 2. Backend client
	client := backend.New(backend.Config{
		BaseURL:    cfg.BackendURL,
		Timeout:    cfg.BackendTimeout,
		MaxRetries: cfg.BackendMaxRetries,
		RPS:        cfg.BackendRPS,
		Burst:      int(cfg.BackendRPS),
	}, log)

	// 3. Local book (Turso / SQLite, or memory)
	var local *services.LocalBook
	if cfg.UseLocalFallback {
		repo, closeRepo, err := openRepository(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRepo()
		local = services.NewLocalBook(repo, log)
		log.Info("local book enabled", zap.Bool("memory", cfg.DBURL == memoryDB))
	}

	// 4. Cache
	bettingOpts := []services.BettingOption{}
	var adminOpts []services.AdminOption
	var publicCache services.Cache
	if local != nil {
		bettingOpts = append(bettingOpts, services.WithLocalBook(local))
	}
	if cfg.RedisAddr != "" {
		c, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer c.Close()
			bettingOpts = append(bettingOpts, services.WithCache(c))
			adminOpts = append(adminOpts, services.WithDrawCache(c))
			publicCache = c
		}
	}

	// 5. Telegram
	var notifier services.Notifier = services.NopNotifier{}
	if cfg.TelegramToken != "" {
		tg, err := services.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramAdminChatID, log)
		if err != nil {
			log.Warn("telegram bot disabled", zap.Error(err))
		} else {
			notifier = tg
			go tg.Listen(ctx)
		}
	} else {
		log.Warn("TELEGRAM_TOKEN not set, admin notifications disabled")
	}

	// 6. Services and jobs
	admin := services.NewAdmin(client, local, cat, notifier, log, adminOpts...)
	sched, err := services.NewScheduler(local, admin, notifier, cfg.ServiceToken, log)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	limiter.StartCleanup(10*time.Minute, ctx.Done())

	api := &handlers.API{
		Accounts: client,
		Betting:  services.NewBetting(client, cat, log, bettingOpts...),
		Wallet:   services.NewWallet(client, notifier, cfg.MinWithdrawal, log),
		Reseller: services.NewReseller(client, cfg.MinRecharge, log),
		Admin:    admin,
		Public:   services.NewPublic(client, cat, publicCache),
		Auth:     middleware.NewAuthenticator(cfg.JWTSecret, log),
		AdminAuth: &middleware.AdminAuth{
			Password:     cfg.AdminPassword,
			BotToken:     cfg.TelegramToken,
			AdminIDs:     cfg.AdminTelegramIDs,
			ServiceToken: cfg.ServiceToken,
			Log:          log.Named("admin-auth"),
		},
		Limiter: limiter,
		Log:     log,
	}

	// 7. Start
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("backend", cfg.BackendURL))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRepository(ctx context.Context, cfg *config.Config) (store.Repository, func(), error) {
	if cfg.DBURL == memoryDB {
		return store.NewMemory(), func() {}, nil
	}
	conn, err := db.Open(ctx, cfg.DBURL, cfg.DBAuthToken)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return db.NewSQLStore(conn), func() { conn.Close() }, nil
}
