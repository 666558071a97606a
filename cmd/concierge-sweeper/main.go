// Concierge Sweeper — уборка signup-сессий.
//
// Sweeper:
//   - Переводит бездействующие ACTIVE-сессии в ABANDONED
//   - Удаляет терминальные сессии после срока хранения
//   - Один активный экземпляр (leader election через advisory lock)
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Concierge/internal/repo"
	"github.com/shaiso/Concierge/internal/sweeper"
	"github.com/shaiso/Concierge/internal/telemetry"
)

const sweepLockKey int64 = 424242

// defaultSweepCron — раз в час, в начале часа.
const defaultSweepCron = "0 * * * *"

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger("concierge-sweeper")
	logger.Info("starting concierge-sweeper")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Расписание уборки
	cronExpr := os.Getenv("SWEEP_CRON")
	if cronExpr == "" {
		cronExpr = defaultSweepCron
	}
	if err := sweeper.ValidateCronExpr(cronExpr); err != nil {
		logger.Error("invalid SWEEP_CRON", "error", err)
		os.Exit(1)
	}

	var ttl time.Duration
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			logger.Error("invalid SESSION_TTL_HOURS", "value", v)
			os.Exit(1)
		}
		ttl = time.Duration(hours) * time.Hour
	}

	sw := sweeper.New(sweeper.Config{
		Sessions:   repo.NewSessionRepo(pool),
		SessionTTL: ttl,
		Logger:     logger,
	})

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// sweep loop
	go func() {
		var hasLock bool
		defer func() {
			if hasLock {
				_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", sweepLockKey)
			}
		}()

		for {
			next, err := sweeper.NextSweep(cronExpr, time.Now())
			if err != nil {
				logger.Error("failed to compute next sweep", "error", err)
				return
			}

			select {
			case <-time.After(time.Until(next)):
				// пытаемся стать лидером (или подтвердить лидерство)
				if !hasLock {
					var ok bool
					if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", sweepLockKey).Scan(&ok); err != nil {
						logger.Error("advisory lock error", "error", err)
						continue
					}
					hasLock = ok
				}

				if !hasLock {
					// не лидер — пропускаем проход
					continue
				}

				if err := sw.Tick(ctx); err != nil {
					logger.Error("sweep tick failed", "error", err)
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// serve
	port := ":8081"
	if v := os.Getenv("SWEEP_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("concierge-sweeper stopped")
}
