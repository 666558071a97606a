package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Concierge/internal/api"
	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/engine"
	"github.com/shaiso/Concierge/internal/mq"
	"github.com/shaiso/Concierge/internal/repo"
	"github.com/shaiso/Concierge/internal/signup"
	"github.com/shaiso/Concierge/internal/telemetry"
	"github.com/shaiso/Concierge/internal/wpcom"
)

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "concierge_api_http_requests_total",
		Help: "Total HTTP requests handled by concierge_api",
	})
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger("concierge-api")
	logger.Info("starting concierge-api")

	// Подключаемся к базе данных
	pool, err := repo.NewPool(context.Background())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	sessionRepo := repo.NewSessionRepo(pool)

	// RabbitMQ: без брокера события деградируют в логирование
	var publisher *mq.Publisher
	var recorder telemetry.Recorder = &telemetry.LogRecorder{Logger: logger}

	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err := mq.NewConnection(mqURL, "concierge-api", logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, tracks events go to log", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(context.Background(), mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
		recorder = mq.NewRecorder(publisher, logger)
	}

	// Клиент REST API WordPress.com
	wpClient := wpcom.NewHTTPClient(
		os.Getenv("WPCOM_BASE_URL"),
		os.Getenv("WPCOM_TOKEN"),
	)

	eng := engine.New(engine.Config{
		Recorder: recorder,
		Logger:   logger,
	})

	// Каталог продуктов нужен privacy-protection-проверкам. Читается
	// один раз на старте: каталог меняется релизами, не в рантайме.
	var products map[string]domain.Product
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		products, err = wpClient.Products(ctx)
		cancel()
		if err != nil {
			logger.Warn("products catalog unavailable, privacy protection disabled", "error", err)
		} else {
			logger.Info("products catalog loaded", "count", len(products))
		}
	}

	signupSvc := signup.New(signup.Config{
		Client:   wpClient,
		Flows:    eng.Flows(),
		Fallback: sessionRepo,
		Recorder: recorder,
		Products: products,
		Logger:   logger,
	})

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		Sessions:  sessionRepo,
		Engine:    eng,
		Signup:    signupSvc,
		WPCom:     wpClient,
		Publisher: publisher,
		Logger:    logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
