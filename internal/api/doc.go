// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go           — Handler с DI (репозитории, publisher, logger)
//   - routes.go            — регистрация маршрутов
//   - middleware.go        — middleware (logging, recovery)
//   - response.go          — унифицированные JSON-ответы и обработка ошибок
//   - dto.go               — Data Transfer Objects (request/response)
//   - instance_handler.go  — обработчики для /instances
//   - cluster_handler.go   — обработчики для /instances/{name}/clusters
//   - operation_handler.go — обработчики для /operations
//
// API предоставляет REST endpoints для управления instances, clusters
// и журналом операций. Создание и удаление ресурсов асинхронны: API
// записывает намерение (операцию), отвечает 202 Accepted и публикует
// событие для provisioner'а.
package api
