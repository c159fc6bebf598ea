package tasks

import (
	"context"
	"log/slog"

	"geonews/app/cleanup"
)

type CleanupTask struct {
	Task
	sweeper       *cleanup.Sweeper
	retentionDays int
}

func NewCleanupTask(sweeper *cleanup.Sweeper, retentionDays int) *CleanupTask {
	return &CleanupTask{
		Task:          NewTask(TaskTypeCleanup, "retention"),
		sweeper:       sweeper,
		retentionDays: retentionDays,
	}
}

func (t *CleanupTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	deleted, err := t.sweeper.Run(ctx, t.retentionDays)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "Cleanup",
		"duration", t.GetDuration(),
		"deleted", deleted)

	return nil
}
