package provisioner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Tabula/internal/mq"
)

// Default configuration values.
const (
	defaultPollInterval = 10 * time.Second
	defaultBatchSize    = 50
	defaultPrefetch     = 5
)

// Provisioner выполняет control-plane операции.
//
// Provisioner — stateless компонент системы, который:
//   - Получает операции из очереди RabbitMQ (event-driven)
//   - Периодически проверяет PENDING операции в БД (polling fallback)
//   - Применяет операцию к ресурсам (instance/cluster)
//   - Записывает результат в журнал операций
//
// Provisioners масштабируются горизонтально — несколько экземпляров
// могут потреблять из одной очереди.
type Provisioner struct {
	// Stores
	instances  InstanceStore
	clusters   ClusterStore
	operations OperationStore

	// MQ
	conn *mq.Connection

	// Consumer
	consumer *mq.Consumer

	// Configuration
	pollInterval time.Duration
	batchSize    int

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Provisioner.
type Config struct {
	// Stores
	Instances  InstanceStore
	Clusters   ClusterStore
	Operations OperationStore

	// MQ (опционально; если nil — работает только polling)
	Conn *mq.Connection

	// Polling configuration
	PollInterval time.Duration // интервал polling (default: 10s)
	BatchSize    int           // количество операций за один poll (default: 50)

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Provisioner.
func New(cfg Config) *Provisioner {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Provisioner{
		instances:    cfg.Instances,
		clusters:     cfg.Clusters,
		operations:   cfg.Operations,
		conn:         cfg.Conn,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Start запускает Provisioner.
//
// Запускает:
//   - Consumer для ops.pending (если задано соединение)
//   - Polling горутину для fallback
func (p *Provisioner) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancelFunc = cancel

	p.logger.Info("starting provisioner",
		"poll_interval", p.pollInterval,
		"batch_size", p.batchSize,
	)

	if p.conn != nil {
		p.consumer = mq.NewConsumer(p.conn, p.logger, mq.ConsumerConfig{
			Queue:    string(mq.QueueOpsPending),
			Handler:  p.handleOperationPending,
			Prefetch: defaultPrefetch,
		})

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			if err := p.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				p.logger.Error("operation consumer error", "error", err)
			}
		}()
	}

	// Запускаем polling
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.pollLoop(ctx)
	}()

	p.logger.Info("provisioner started")
	return nil
}

// Stop останавливает Provisioner.
func (p *Provisioner) Stop() {
	p.stoppedMu.Lock()
	p.stopped = true
	p.stoppedMu.Unlock()

	p.logger.Info("stopping provisioner...")

	if p.cancelFunc != nil {
		p.cancelFunc()
	}

	if p.consumer != nil {
		p.consumer.Stop()
	}

	// Ждём завершения горутин
	p.wg.Wait()

	p.logger.Info("provisioner stopped")
}

// IsStopped проверяет, остановлен ли Provisioner.
func (p *Provisioner) IsStopped() bool {
	p.stoppedMu.RLock()
	defer p.stoppedMu.RUnlock()
	return p.stopped
}

// pollLoop — цикл polling для fallback.
func (p *Provisioner) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Первый poll сразу при старте (подхватываем операции, созданные пока были выключены)
	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll выполняет один цикл polling.
func (p *Provisioner) poll(ctx context.Context) {
	ops, err := p.operations.ListPending(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("failed to list pending operations", "error", err)
		return
	}

	if len(ops) == 0 {
		return
	}

	p.logger.Debug("poll found pending operations", "count", len(ops))

	for i := range ops {
		op := &ops[i]

		if err := p.ProcessOperation(ctx, op.ID); err != nil {
			p.logger.Error("failed to process operation from poll",
				"operation_id", op.ID,
				"error", err,
			)
		}
	}
}
