package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema — DDL всех таблиц Tabula.
//
// Состояния и статусы хранятся как TEXT: enum-типы усложняют миграции,
// а валидация значений живёт в domain.
const schema = `
CREATE TABLE IF NOT EXISTS instances (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    type       TEXT NOT NULL,
    labels     JSONB,
    state      TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS clusters (
    id          UUID PRIMARY KEY,
    instance_id UUID NOT NULL REFERENCES instances(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    zone        TEXT NOT NULL,
    storage     TEXT NOT NULL,
    serve_nodes INT NOT NULL DEFAULT 0,
    state       TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    UNIQUE (instance_id, name)
);

CREATE TABLE IF NOT EXISTS operations (
    id            UUID PRIMARY KEY,
    type          TEXT NOT NULL,
    instance_id   UUID NOT NULL,
    instance_name TEXT NOT NULL,
    cluster_id    UUID,
    status        TEXT NOT NULL,
    error         TEXT,
    created_at    TIMESTAMPTZ NOT NULL,
    started_at    TIMESTAMPTZ,
    finished_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_clusters_instance   ON clusters (instance_id);
CREATE INDEX IF NOT EXISTS idx_operations_status   ON operations (status, created_at);
CREATE INDEX IF NOT EXISTS idx_operations_instance ON operations (instance_id);
`

// Migrate создаёт таблицы, если их ещё нет.
// Вызывается из cmd main'ов при старте; идемпотентен.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
