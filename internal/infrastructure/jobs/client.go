package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/gestion-api/internal/application/settlement"
)

var _ settlement.Notifier = (*Client)(nil)

// Client encola tareas.
type Client struct {
	client *asynq.Client
}

// NewClient construye el cliente asynq.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// NotifyOwner encola el aviso de liquidación enviada.
func (c *Client) NotifyOwner(ctx context.Context, liquidationID string) error {
	task, err := NewNotifyOwnerTask(liquidationID)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Unique(10*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskNotifyOwner, err)
	}
	return nil
}

// Close libera la conexión.
func (c *Client) Close() error {
	return c.client.Close()
}
