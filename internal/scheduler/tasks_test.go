package scheduler

import (
	"context"
	"errors"
	"testing"

	"gtm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type recordingRefresher struct {
	workspaces []uuid.UUID
	err        error
}

func (r *recordingRefresher) RefreshPerformance(_ context.Context, ws uuid.UUID) error {
	r.workspaces = append(r.workspaces, ws)
	return r.err
}

func TestPerformanceRefreshPayloadRoundTrip(t *testing.T) {
	ws := uuid.New()
	task, err := NewPerformanceRefreshTask(PerformanceRefreshPayload{WorkspaceID: ws.String()})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TaskPerformanceRefresh {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	got, err := ParsePerformanceRefreshPayload(task)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.WorkspaceID != ws.String() {
		t.Fatalf("expected %s, got %s", ws, got.WorkspaceID)
	}
}

func TestParsePerformanceRefreshPayloadRejectsBadWorkspace(t *testing.T) {
	task := asynq.NewTask(TaskPerformanceRefresh, []byte(`{"workspaceId":"nope"}`))
	if _, err := ParsePerformanceRefreshPayload(task); err == nil {
		t.Fatal("expected error")
	}
}

func TestHandlePerformanceRefresh(t *testing.T) {
	ref := &recordingRefresher{}
	w := &Worker{refresher: ref, log: logger.Discard()}
	ws := uuid.New()

	task, _ := NewPerformanceRefreshTask(PerformanceRefreshPayload{WorkspaceID: ws.String()})
	if err := w.handlePerformanceRefresh(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ref.workspaces) != 1 || ref.workspaces[0] != ws {
		t.Fatalf("expected refresh for %s, got %v", ws, ref.workspaces)
	}
}

func TestHandlePerformanceRefreshSkipsRetryOnBadPayload(t *testing.T) {
	w := &Worker{refresher: &recordingRefresher{}, log: logger.Discard()}
	err := w.handlePerformanceRefresh(context.Background(), asynq.NewTask(TaskPerformanceRefresh, []byte(`{`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestHandlePerformanceRefreshReturnsRefresherError(t *testing.T) {
	boom := errors.New("db down")
	w := &Worker{refresher: &recordingRefresher{err: boom}, log: logger.Discard()}
	task, _ := NewPerformanceRefreshTask(PerformanceRefreshPayload{WorkspaceID: uuid.NewString()})

	if err := w.handlePerformanceRefresh(context.Background(), task); !errors.Is(err, boom) {
		t.Fatalf("expected refresher error, got %v", err)
	}
}

func TestNilClientEnqueueIsNoop(t *testing.T) {
	var c *Client
	if err := c.EnqueuePerformanceRefresh(context.Background(), uuid.New()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestPerformanceRefreshTaskIDIsPerWorkspace(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	if performanceRefreshTaskID(a) == performanceRefreshTaskID(b) {
		t.Fatal("expected distinct task ids")
	}
	if performanceRefreshTaskID(a) != performanceRefreshTaskID(a) {
		t.Fatal("expected stable task id")
	}
}
