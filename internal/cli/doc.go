// Package cli реализует инструмент командной строки Tabula.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Tabula API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для управления instances и clusters.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Tabula API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	instances, err := client.ListInstances()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: tabula instances --json | jq .
//
// ## Commands
//
// Команды соответствуют административным сценариям:
//   - run          — создать PRODUCTION instance, если его нет, и показать детали
//   - dev-instance — создать DEVELOPMENT instance
//   - del-instance — удалить instance вместе с кластерами
//   - add-cluster  — добавить кластер в существующий instance
//   - del-cluster  — удалить кластер
//   - instances    — список instances
//   - operations   — журнал control-plane операций
//
// Каждая команда создаётся через фабричную функцию (NewRunCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
