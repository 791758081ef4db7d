package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewOperation(t *testing.T) {
	instanceID := uuid.New()
	op := NewOperation(OpCreateInstance, instanceID, "my-instance")

	if op.Status != OpStatusPending {
		t.Errorf("expected PENDING, got %s", op.Status)
	}
	if op.InstanceID != instanceID {
		t.Error("instance id mismatch")
	}
	if op.InstanceName != "my-instance" {
		t.Errorf("expected instance name my-instance, got %s", op.InstanceName)
	}
	if op.ClusterID != nil {
		t.Error("instance operation must not have cluster id")
	}
	if op.IsFinished() {
		t.Error("new operation must not be finished")
	}
}

func TestOperation_ForCluster(t *testing.T) {
	clusterID := uuid.New()
	op := NewOperation(OpCreateCluster, uuid.New(), "my-instance").ForCluster(clusterID)

	if op.ClusterID == nil || *op.ClusterID != clusterID {
		t.Error("cluster id not set")
	}
}

func TestOperation_Lifecycle(t *testing.T) {
	op := NewOperation(OpDeleteInstance, uuid.New(), "my-instance")

	op.MarkRunning()
	if op.Status != OpStatusRunning {
		t.Errorf("expected RUNNING, got %s", op.Status)
	}
	if op.StartedAt == nil {
		t.Error("started_at not set")
	}
	if op.IsFinished() {
		t.Error("running operation must not be finished")
	}

	op.MarkDone()
	if op.Status != OpStatusDone {
		t.Errorf("expected DONE, got %s", op.Status)
	}
	if op.FinishedAt == nil {
		t.Error("finished_at not set")
	}
	if !op.IsFinished() {
		t.Error("done operation must be finished")
	}
}

func TestOperation_MarkFailed(t *testing.T) {
	op := NewOperation(OpCreateInstance, uuid.New(), "my-instance")
	op.MarkRunning()
	op.MarkFailed("zone exhausted")

	if op.Status != OpStatusFailed {
		t.Errorf("expected FAILED, got %s", op.Status)
	}
	if op.Error != "zone exhausted" {
		t.Errorf("unexpected error text: %s", op.Error)
	}
	if !op.IsFinished() {
		t.Error("failed operation must be finished")
	}
}

func TestOperation_Duration(t *testing.T) {
	op := NewOperation(OpCreateInstance, uuid.New(), "my-instance")

	if op.Duration() != 0 {
		t.Error("unfinished operation must have zero duration")
	}

	start := time.Now().Add(-2 * time.Second)
	finish := time.Now()
	op.StartedAt = &start
	op.FinishedAt = &finish

	if d := op.Duration(); d < time.Second {
		t.Errorf("unexpected duration: %s", d)
	}
}

func TestOperationStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status OperationStatus
		want   bool
	}{
		{OpStatusPending, false},
		{OpStatusRunning, false},
		{OpStatusDone, true},
		{OpStatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
