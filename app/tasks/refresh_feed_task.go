package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/pet-comb/app/feed"
)

type RefreshFeedTask struct {
	Task
	syncer *feed.Syncer
}

func NewRefreshFeedTask(syncer *feed.Syncer) *RefreshFeedTask {
	return &RefreshFeedTask{
		Task:   NewTask(TaskTypeRefreshFeed),
		syncer: syncer,
	}
}

func (t *RefreshFeedTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.syncer.Run(ctx)
	if errors.Is(err, feed.ErrRefreshInProgress) {
		slog.Debug("Refresh already running, skipping", "id", t.GetID())
		return nil
	}
	if err != nil {
		slog.Error("Task failed", "type", "RefreshFeed", "id", t.GetID(), "error", err)
		return fmt.Errorf("failed to refresh feed: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshFeed",
		"duration", t.GetDuration(),
		"total", result.Total,
		"new", result.New,
		"touched", result.Touched)

	return nil
}
