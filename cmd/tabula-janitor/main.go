// Tabula Janitor — периодическое обслуживание журнала операций.
//
// Janitor:
//   - Переотправляет потерянные PENDING операции в очередь
//   - Финализирует instances, зависшие в DELETING
//   - Удаляет завершённые операции старше срока хранения
//
// Допускается несколько экземпляров: лидер выбирается через
// advisory lock в PostgreSQL, тик выполняет только лидер.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Tabula/internal/janitor"
	"github.com/shaiso/Tabula/internal/mq"
	"github.com/shaiso/Tabula/internal/repo"
	"github.com/shaiso/Tabula/internal/telemetry"
)

const janitorLockKey int64 = 842842

const defaultCronSpec = "*/5 * * * *"

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting tabula-janitor")

	// Расписание тиков
	cronSpec := os.Getenv("JANITOR_CRON")
	if cronSpec == "" {
		cronSpec = defaultCronSpec
	}
	if err := janitor.ValidateSpec(cronSpec); err != nil {
		logger.Error("invalid JANITOR_CRON", "spec", cronSpec, "error", err)
		os.Exit(1)
	}

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
	logger.Info("database connected")

	instanceRepo := repo.NewInstanceRepo(pool)
	operationRepo := repo.NewOperationRepo(pool)

	// RabbitMQ (опционально; без него пропускается requeue stale операций)
	var publisher janitor.Publisher
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err := mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, stale requeue disabled", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	j := janitor.New(janitor.Config{
		Operations: operationRepo,
		Instances:  instanceRepo,
		Publisher:  publisher,
		Logger:     logger,
	})

	// Цикл тиков по cron-расписанию
	go func() {
		var hasLock bool
		defer func() {
			if hasLock {
				_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", janitorLockKey)
			}
		}()

		for {
			next, err := janitor.NextRun(cronSpec, time.Now())
			if err != nil {
				// spec проверен на старте, сюда не попадаем
				logger.Error("cron parse error", "error", err)
				return
			}
			timer := time.NewTimer(time.Until(next))

			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			// пытаемся стать лидером (или подтвердить лидерство)
			if !hasLock {
				var ok bool
				if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", janitorLockKey).Scan(&ok); err != nil {
					logger.Error("advisory lock error", "error", err)
					continue
				}
				hasLock = ok
			}

			if !hasLock {
				// не лидер — пропускаем тик
				continue
			}

			if err := j.Tick(ctx); err != nil {
				logger.Error("janitor tick failed", "error", err)
			}
		}
	}()

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("JANITOR_PORT"); v != "" {
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
	logger.Info("tabula-janitor stopped")
}
