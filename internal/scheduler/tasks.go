package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskPerformanceRefresh = "journey.performance.refresh"

type PerformanceRefreshPayload struct {
	WorkspaceID string `json:"workspaceId"`
}

func NewPerformanceRefreshTask(payload PerformanceRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPerformanceRefresh, data), nil
}

func ParsePerformanceRefreshPayload(task *asynq.Task) (PerformanceRefreshPayload, error) {
	var payload PerformanceRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PerformanceRefreshPayload{}, err
	}
	if _, err := uuid.Parse(payload.WorkspaceID); err != nil {
		return PerformanceRefreshPayload{}, fmt.Errorf("invalid workspace id: %w", err)
	}
	return payload, nil
}

// performanceRefreshTaskID keeps at most one pending refresh per workspace.
func performanceRefreshTaskID(workspaceID uuid.UUID) string {
	return TaskPerformanceRefresh + ":" + workspaceID.String()
}
