// Package provisioner доводит ресурсы до целевого состояния.
//
// # Обзор
//
// Provisioner — stateless компонент системы Tabula, который выполняет
// control-plane операции, записанные API. Provisioner отвечает за:
//
//   - Получение операций из очереди RabbitMQ (event-driven)
//   - Периодическую проверку PENDING операций в БД (polling fallback)
//   - Выполнение операции в зависимости от типа (create/delete instance/cluster)
//   - Перевод ресурсов CREATING → READY и удаление DELETING строк
//
// Provisioners масштабируются горизонтально — несколько экземпляров
// потребляют из одной очереди ops.pending.
//
// # Обработка операции
//
//  1. Получение операции (из очереди или polling)
//  2. Загрузка операции из БД, проверка статуса PENDING
//  3. Перевод в RUNNING
//  4. Применение: создание переводит ресурсы в READY,
//     удаление убирает строки из БД
//  5. Успех → MarkDone, ошибка → MarkFailed с текстом
//
// Операции идемпотентны: повторная доставка сообщения для уже
// завершённой операции подтверждается без побочных эффектов.
package provisioner
