package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"horario/internal/api"
	"horario/internal/config"
	"horario/internal/conflicts"
	"horario/internal/db"
	"horario/internal/editor"
	"horario/internal/events"
	"horario/internal/metrics"
	"horario/internal/model"
	"horario/internal/notify"
	"horario/internal/reservations"
)

// seedHorizonDays bounds holiday expansion when a restaurant is seeded.
const seedHorizonDays = 365

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("HORARIO_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	database, err := db.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer database.Close()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
	}

	var checker conflicts.Checker
	if cfg.Reservations.Enabled {
		client := reservations.NewClient(cfg.Reservations.BaseURL, cfg.Reservations.APIKey, cfg.ReservationsTimeout())
		if rdb != nil && cfg.ReservationsCacheTTL() > 0 {
			client.UseRedisCache(rdb, cfg.ReservationsCacheTTL())
		}
		checker = client
	} else {
		logger.Warn().Msg("reservations disabled; saves skip the conflict check")
	}

	bus := events.NewEventBus()
	notify.Bind(bus, newNotifier(cfg, &logger))

	registry := editor.NewRegistry(database, nil, editor.Options{
		Delay:   cfg.AutosaveDelay(),
		Checker: conflicts.NewAdvisory(checker, &logger),
		Bus:     bus,
		Logger:  &logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = config.WatchVenues(ctx, cfg.VenuesPath(), 30*time.Second,
		func(venues *config.VenuesConfig) {
			registry.SetSeeder(func(restaurantID string) (model.Schedule, error) {
				today := model.DateOf(time.Now())
				return venues.Seed(restaurantID, today, today.AddDays(seedHorizonDays))
			})
			logger.Info().Str("venues", venues.String()).Msg("venues config loaded")
			_ = bus.Publish(events.Event{Type: events.VenuesReloaded, CreatedAt: time.Now()})
		},
		func(err error) {
			logger.Error().Err(err).Msg("venues reload failed; keeping previous config")
		},
	)
	if err != nil {
		logger.Warn().Err(err).Msg("venues config unavailable; new restaurants start from the default week")
	}

	backupCfg := cfg.Backup
	backupCfg.StoragePath = cfg.BackupStoragePath()
	if err := db.NewBackupService(database, backupCfg, cfg.BackupSchedule(), &logger).Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("start backup service")
	}

	go startHealthServer(ctx, cfg.HealthCheckPort(), database, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.PrometheusPort(), &logger)
	}

	server := api.NewHTTPServer(registry, api.Options{
		Address:            cfg.ServerAddress(),
		APIKey:             cfg.Server.APIKey,
		RateLimitPerMinute: cfg.RateLimitPerMinute(),
		Logger:             &logger,
	})
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("api server error")
			stop()
		}
	}()

	logger.Info().Msg("horario started")
	<-ctx.Done()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("api shutdown")
	}
	if n := registry.Flush(); n > 0 {
		logger.Info().Int("sessions", n).Msg("flushed pending autosaves")
	}
	logger.Info().Msg("horario stopped")
}

func newNotifier(cfg *config.Config, logger *zerolog.Logger) notify.Notifier {
	if cfg.Telegram.BotToken == "" {
		return notify.NewLogNotifier(logger)
	}
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("telegram unavailable; notifications go to the log")
		return notify.NewLogNotifier(logger)
	}
	botAPI.Debug = cfg.Telegram.Debug
	logger.Info().Str("bot", botAPI.Self.UserName).Int64("chat_id", cfg.Telegram.ChatID).Msg("telegram notifications enabled")
	return notify.NewTelegramNotifier(botAPI, cfg.Telegram.ChatID, cfg.TelegramMessagesPerMinute(), logger)
}

func startHealthServer(ctx context.Context, port int, database *db.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := database.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	serve(ctx, fmt.Sprintf(":%d", port), mux, "health", logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	serve(ctx, fmt.Sprintf(":%d", port), mux, "metrics", logger)
}

func serve(ctx context.Context, addr string, handler http.Handler, name string, logger *zerolog.Logger) {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Str("server", name).Msg("server error")
	}
}
