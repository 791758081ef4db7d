// Package domain содержит доменные типы Tabula.
//
// Основные сущности:
//   - Instance  — административная единица хранилища, владеет кластерами
//   - Cluster   — выделенные узлы хранения внутри instance
//   - Operation — длительная control-plane операция (создание/удаление)
//
// Типы не зависят от инфраструктуры (БД, HTTP, MQ) и используются
// всеми остальными пакетами.
package domain
