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

	"newsboard/internal/config"
	"newsboard/internal/db"
	"newsboard/internal/fetcher"
	"newsboard/internal/loader"
	"newsboard/internal/logger"
	"newsboard/internal/queue"
	"newsboard/internal/server"
	"newsboard/internal/worker"
	"newsboard/web"

	"github.com/namsral/flag"
)

var (
	flConfig = flag.String("config", "config.json", "path to JSON or YAML configuration file")
	flDebug  = flag.Bool("debug", false, "enable debug logging")
)

// broker - очередь задач: RabbitMQ или очередь в памяти.
type broker interface {
	fetcher.Publisher
	Consume(ctx context.Context, handler queue.Handler) error
}

func main() {
	flag.Parse()

	logger.Init(*flDebug)
	defer logger.Log.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загрузка конфигурации
	cfg, err := config.LoadConfig(*flConfig)
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Config validation error: %v", err)
	}

	// Инициализация БД
	database, err := db.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("DB connection error: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Log.Fatalf("DB migration error: %v", err)
	}

	// Очередь задач: RabbitMQ, если настроен, иначе в памяти процесса
	tasks, closeTasks, err := newBroker(cfg)
	if err != nil {
		logger.Log.Fatalf("Queue error: %v", err)
	}
	defer closeTasks()

	wrk := worker.NewWorker(database)
	if err := tasks.Consume(ctx, wrk.HandleTask); err != nil {
		logger.Log.Fatalf("Queue consume error: %v", err)
	}

	// Периодический опрос лент
	go fetcher.StartPolling(ctx, tasks, cfg.RSS, cfg.PollInterval(), cfg.RabbitMQQueue)

	// HTTP сервер
	newsLoader := loader.New(loader.NewClient(cfg.LoaderBaseURL, cfg.LoaderTimeoutDuration()), cfg.NewsCount)
	srv := server.NewServer(database, newsLoader, web.IndexHTML, web.Static())

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Log.Infof("Starting HTTP server on %s", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.Errorf("Forced shutdown: %v", err)
	}
}

func newBroker(cfg *config.Config) (broker, func(), error) {
	if cfg.RabbitMQURL == "" {
		local := queue.NewLocal(cfg.Workers, len(cfg.RSS))
		logger.Log.Info("RabbitMQ is not configured, using in-process queue")
		return local, local.Close, nil
	}

	producer, err := queue.NewProducer(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, fmt.Errorf("producer: %w", err)
	}
	consumer, err := queue.NewConsumer(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.Workers)
	if err != nil {
		producer.Close()
		return nil, nil, fmt.Errorf("consumer: %w", err)
	}

	closeAll := func() {
		consumer.Close()
		producer.Close()
	}
	return rabbit{producer, consumer}, closeAll, nil
}

type rabbit struct {
	*queue.Producer
	*queue.Consumer
}
