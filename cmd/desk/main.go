package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Spok95/frontdesk/internal/bot"
	"github.com/Spok95/frontdesk/internal/config"
	"github.com/Spok95/frontdesk/internal/dialog"
	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/bookings"
	"github.com/Spok95/frontdesk/internal/domain/deals"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/users"
	"github.com/Spok95/frontdesk/internal/frontdesk"
	"github.com/Spok95/frontdesk/internal/infra/db"
	httpx "github.com/Spok95/frontdesk/internal/infra/http"
	"github.com/Spok95/frontdesk/internal/infra/logger"
	"github.com/Spok95/frontdesk/internal/infra/metrics"
	"github.com/Spok95/frontdesk/internal/infra/payments"
)

func runMigrations(dsn, dir string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, dir)
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN, cfg.Postgres.Migrations); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	invoices := billing.NewRepo(pool)
	met := metrics.New(prometheus.DefaultRegisterer)

	desk := frontdesk.New(log, frontdesk.Deps{
		Rooms:    rooms.NewRepo(pool),
		Deals:    deals.NewRepo(pool),
		Bookings: bookings.NewRepo(pool),
		Invoices: invoices,
		Metrics:  met,
		Location: cfg.Location(),
	})
	pay := payments.NewService(cfg.Payments.BaseURL, cfg.Billing.Currency)

	srv := httpx.New(log, desk, httpx.Options{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ExposeMetrics:     cfg.Metrics.Enabled,
		Metrics:           met,
		Payments:          payments.NewHandler(log, invoices),
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if cfg.Telegram.Token != "" {
		go runBot(ctx, log, cfg, pool, desk, pay)
	} else {
		log.Info("telegram token not set, chat desk disabled")
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}

func runBot(ctx context.Context, log *slog.Logger, cfg config.Config, pool *pgxpool.Pool, desk bot.Desk, pay *payments.Service) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("telegram bot authorized", "username", api.Self.UserName)

	b := bot.New(api, log,
		users.NewRepo(pool), dialog.NewRepo(pool),
		desk, pay,
		cfg.Telegram.AdminChatID, cfg.Billing.Currency)
	if err := b.Run(ctx, int(cfg.Telegram.PollTimeout/time.Second)); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
	}
}
