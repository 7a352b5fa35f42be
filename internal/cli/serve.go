package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghm/hotel-booking/internal/booking"
	"github.com/ghm/hotel-booking/internal/chat"
	"github.com/ghm/hotel-booking/internal/config"
	"github.com/ghm/hotel-booking/internal/handler"
	"github.com/ghm/hotel-booking/internal/logging"
	"github.com/ghm/hotel-booking/internal/middleware"
	"github.com/ghm/hotel-booking/internal/queue"
	"github.com/ghm/hotel-booking/internal/router"
)

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and serve the frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Env)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, migrate, log)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create missing tables before serving")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, migrate bool, log *zap.Logger) error {
	st, err := openStores(ctx, cfg, migrate, log)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	cacheCfg, rlCfg := config.LoadCacheConfig(), config.LoadRateLimitConfig()
	var rdb *redis.Client
	if cacheCfg.Enabled || rlCfg.Enabled {
		rdb, err = config.NewRedisClient(ctx, config.LoadRedisConfig())
		if err != nil {
			log.Warn("redis unavailable; cache and rate limiting disabled", zap.Error(err))
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	hub := chat.NewHub(log.Named("chat"), allowOrigins(cfg.CORSOrigins))
	go hub.Run(ctx)

	publishers := []booking.EventPublisher{hub}
	if cfg.AMQPURL != "" {
		publishers = append(publishers, queue.NewPublisher(cfg.AMQPURL))
		if cfg.BookingLogConsumer {
			consumer := &queue.Consumer{URL: cfg.AMQPURL, Dir: cfg.BookingLogDir, Log: log.Named("booking-log")}
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("booking consumer stopped", zap.Error(err))
				}
			}()
		}
	}
	svc := booking.New(st.roomBookings, st.beach, st.tables, log.Named("booking"), publishers...)

	e := router.New(router.Deps{
		Cfg:      cfg,
		Log:      log,
		Auth:     handler.NewAuthHandler(cfg, st.users, log),
		Rooms:    handler.NewRoomHandler(st.rooms, log),
		Reviews:  handler.NewReviewHandler(st.reviews, log),
		Bookings: handler.NewBookingHandler(svc, log),
		Chat:     handler.NewChatHandler(hub, log),
		Cache:    middleware.NewResponseCache(cacheCfg, rdb, log),
		Limiter:  middleware.RateLimit(rlCfg, rdb, log),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", ":"+cfg.Port), zap.String("store", cfg.StoreDriver))
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}
	svc.Wait()
	return nil
}

// allowOrigins accepts websocket upgrades from the CORS origins, from
// same-origin pages and from clients that send no Origin at all.
func allowOrigins(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowed["*"] || allowed[origin] {
			return true
		}
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
}
