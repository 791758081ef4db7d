// Package janitor реализует фоновое обслуживание журнала операций.
//
// Janitor периодически:
//   - Переотправляет в очередь PENDING операции, сообщения о которых
//     потерялись (stale requeue)
//   - Финализирует instances, зависшие в DELETING без операции
//   - Удаляет завершённые операции старше срока хранения (purge)
//
// Структура:
//   - janitor.go — основная логика Janitor (Tick)
//   - cron.go    — парсинг cron-выражения расписания (JANITOR_CRON)
//
// Использование:
//
//	j := janitor.New(janitor.Config{
//	    Operations: operationRepo,
//	    Publisher:  publisher,  // опционально
//	    Logger:     logger,
//	})
//
//	// Вызывается по расписанию
//	if err := j.Tick(ctx); err != nil {
//	    logger.Error("janitor tick failed", "error", err)
//	}
//
// Leader Election:
//
// Janitor не реализует leader election самостоятельно.
// Это делается в main.go через pg_try_advisory_lock.
// Метод Tick() вызывается только лидером.
package janitor
