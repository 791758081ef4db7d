// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - operation.pending — новая control-plane операция ожидает выполнения
//
// Exchanges:
//   - tabula.ops — события операций
//   - tabula.dlq — dead letter queue
package mq
