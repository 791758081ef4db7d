package janitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Tabula/internal/domain"
)

// --- Cron Tests ---

func TestNextRun_EveryFiveMinutes(t *testing.T) {
	from := time.Date(2026, 1, 15, 10, 2, 0, 0, time.UTC)

	next, err := NextRun("*/5 * * * *", from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 1, 15, 10, 5, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestNextRun_Daily(t *testing.T) {
	from := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	next, err := NextRun("0 3 * * *", from)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 1, 16, 3, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestNextRun_Invalid(t *testing.T) {
	if _, err := NextRun("not a cron", time.Now()); err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestValidateSpec(t *testing.T) {
	if err := ValidateSpec("*/10 * * * *"); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}
	if err := ValidateSpec("61 * * * *"); err == nil {
		t.Error("expected error for minute 61")
	}
	// Шестипольный формат (с секундами) не поддерживается
	if err := ValidateSpec("0 0 3 * * *"); err == nil {
		t.Error("expected error for six-field expression")
	}
}

// --- Janitor Tests ---

type fakeOperationStore struct {
	stale    []domain.Operation
	staleErr error

	purged   int64
	purgeErr error

	purgeCalledWith time.Duration
}

func (f *fakeOperationStore) ListStalePending(_ context.Context, _ time.Duration, limit int) ([]domain.Operation, error) {
	if f.staleErr != nil {
		return nil, f.staleErr
	}
	if len(f.stale) > limit {
		return f.stale[:limit], nil
	}
	return f.stale, nil
}

func (f *fakeOperationStore) PurgeFinished(_ context.Context, olderThan time.Duration) (int64, error) {
	f.purgeCalledWith = olderThan
	return f.purged, f.purgeErr
}

type fakePublisher struct {
	published []uuid.UUID
	failFor   map[uuid.UUID]bool
}

func (f *fakePublisher) PublishOperationPending(_ context.Context, operationID uuid.UUID) error {
	if f.failFor[operationID] {
		return errors.New("publish failed")
	}
	f.published = append(f.published, operationID)
	return nil
}

type fakeInstanceStore struct {
	stuck    []domain.Instance
	stuckErr error

	deleted   []uuid.UUID
	deleteErr error
}

func (f *fakeInstanceStore) ListStuckDeleting(_ context.Context, _ time.Duration, limit int) ([]domain.Instance, error) {
	if f.stuckErr != nil {
		return nil, f.stuckErr
	}
	if len(f.stuck) > limit {
		return f.stuck[:limit], nil
	}
	return f.stuck, nil
}

func (f *fakeInstanceStore) Delete(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func staleOp(age time.Duration) domain.Operation {
	op := domain.NewOperation(domain.OpCreateInstance, uuid.New(), "prod-a")
	op.CreatedAt = time.Now().Add(-age)
	return *op
}

func TestNew_Defaults(t *testing.T) {
	j := New(Config{})

	if j.staleAfter != defaultStaleAfter {
		t.Errorf("expected default stale after %v, got %v", defaultStaleAfter, j.staleAfter)
	}
	if j.retention != defaultRetention {
		t.Errorf("expected default retention %v, got %v", defaultRetention, j.retention)
	}
	if j.batchSize != defaultBatchSize {
		t.Errorf("expected default batch size %d, got %d", defaultBatchSize, j.batchSize)
	}
}

func TestTick_RequeuesStaleOperations(t *testing.T) {
	store := &fakeOperationStore{
		stale: []domain.Operation{staleOp(10 * time.Minute), staleOp(20 * time.Minute)},
	}
	pub := &fakePublisher{}

	j := New(Config{Operations: store, Publisher: pub})
	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.published) != 2 {
		t.Errorf("expected 2 requeued operations, got %d", len(pub.published))
	}
}

func TestTick_PublishFailureDoesNotBlockOthers(t *testing.T) {
	ops := []domain.Operation{staleOp(10 * time.Minute), staleOp(20 * time.Minute)}
	store := &fakeOperationStore{stale: ops}
	pub := &fakePublisher{failFor: map[uuid.UUID]bool{ops[0].ID: true}}

	j := New(Config{Operations: store, Publisher: pub})
	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.published) != 1 {
		t.Errorf("expected 1 requeued operation, got %d", len(pub.published))
	}
	if len(pub.published) == 1 && pub.published[0] != ops[1].ID {
		t.Error("the second operation should have been requeued")
	}
}

func TestTick_NoPublisherSkipsRequeue(t *testing.T) {
	store := &fakeOperationStore{
		stale: []domain.Operation{staleOp(10 * time.Minute)},
	}

	j := New(Config{Operations: store})
	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Без publisher'а тик только чистит журнал
}

func stuckInstance(age time.Duration) domain.Instance {
	return domain.Instance{
		ID:        uuid.New(),
		Name:      "prod-a",
		Type:      domain.InstanceTypeProduction,
		State:     domain.StateDeleting,
		UpdatedAt: time.Now().Add(-age),
	}
}

func TestTick_FinalizesStuckDeletingInstances(t *testing.T) {
	instances := &fakeInstanceStore{
		stuck: []domain.Instance{stuckInstance(time.Hour), stuckInstance(2 * time.Hour)},
	}

	j := New(Config{Operations: &fakeOperationStore{}, Instances: instances})
	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(instances.deleted) != 2 {
		t.Errorf("expected 2 finalized instances, got %d", len(instances.deleted))
	}
}

func TestTick_FinalizeDeleteErrorDoesNotFailTick(t *testing.T) {
	instances := &fakeInstanceStore{
		stuck:     []domain.Instance{stuckInstance(time.Hour)},
		deleteErr: errors.New("db down"),
	}

	j := New(Config{Operations: &fakeOperationStore{}, Instances: instances})
	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(instances.deleted) != 0 {
		t.Errorf("expected no finalized instances, got %d", len(instances.deleted))
	}
}

func TestTick_NoInstanceStoreSkipsFinalize(t *testing.T) {
	j := New(Config{Operations: &fakeOperationStore{}})
	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTick_PurgesWithConfiguredRetention(t *testing.T) {
	store := &fakeOperationStore{purged: 42}
	retention := 48 * time.Hour

	j := New(Config{Operations: store, Retention: retention})
	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.purgeCalledWith != retention {
		t.Errorf("expected purge with retention %v, got %v", retention, store.purgeCalledWith)
	}
}

func TestTick_PurgeError(t *testing.T) {
	store := &fakeOperationStore{purgeErr: errors.New("db down")}

	j := New(Config{Operations: store})
	if err := j.Tick(context.Background()); err == nil {
		t.Error("expected error from purge")
	}
}

func TestTick_BatchSizeLimit(t *testing.T) {
	store := &fakeOperationStore{
		stale: []domain.Operation{staleOp(time.Hour), staleOp(time.Hour), staleOp(time.Hour)},
	}
	pub := &fakePublisher{}

	j := New(Config{Operations: store, Publisher: pub, BatchSize: 2})
	if err := j.Tick(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.published) != 2 {
		t.Errorf("expected batch limit of 2, got %d", len(pub.published))
	}
}
