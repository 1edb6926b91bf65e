package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TypeProximityCheck is the task type for a proximity-notifier run.
const TypeProximityCheck = "proximity:check"

// ProximityPayload identifies the user whose location changed.
type ProximityPayload struct {
	UserID string `json:"userId"`
}

// NewProximityTask builds a proximity-check task for one user.
func NewProximityTask(userID string) (*asynq.Task, error) {
	b, err := json.Marshal(ProximityPayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProximityCheck, b), nil
}

// Client enqueues background tasks. It implements the user service's
// LocationTrigger.
type Client struct {
	inner *asynq.Client
}

// NewClient wraps an asynq client.
func NewClient(inner *asynq.Client) *Client {
	return &Client{inner: inner}
}

// LocationChanged enqueues a proximity check for the user.
func (c *Client) LocationChanged(ctx context.Context, userID string) error {
	task, err := NewProximityTask(userID)
	if err != nil {
		return fmt.Errorf("failed to build proximity task: %w", err)
	}
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue proximity task: %w", err)
	}
	return nil
}
