package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/ekyc/pkg/slogx"
	"github.com/hibiken/asynq"
)

const (
	// QueueMail is the asynq queue verification mail is enqueued on.
	QueueMail = "mail"
	// TaskTypeVerification is the asynq task type for verification mail.
	TaskTypeVerification = "mail:verification"
	// DefaultMaxRetry bounds delivery attempts per message.
	DefaultMaxRetry = 5
)

// enqueuer is the part of *asynq.Client we use.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher hands verification mail to a background worker. Dispatch
// succeeds once the task is durably enqueued.
type QueueDispatcher struct {
	client   enqueuer
	maxRetry int
	now      func() time.Time
}

// NewQueueDispatcher creates a dispatcher enqueuing through client.
func NewQueueDispatcher(client *asynq.Client) *QueueDispatcher {
	return &QueueDispatcher{client: client, maxRetry: DefaultMaxRetry}
}

// NewVerificationTask encodes msg as an asynq task.
func NewVerificationTask(msg VerificationMessage) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode verification task: %w", err)
	}
	return asynq.NewTask(TaskTypeVerification, payload), nil
}

func (d *QueueDispatcher) SendVerificationCode(ctx context.Context, msg VerificationMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}

	task, err := NewVerificationTask(msg)
	if err != nil {
		return err
	}

	opts := []asynq.Option{
		asynq.Queue(QueueMail),
		asynq.MaxRetry(d.maxRetry),
	}
	// Retries stop once the code has expired.
	if msg.ExpiresIn > 0 {
		now := time.Now
		if d.now != nil {
			now = d.now
		}
		opts = append(opts, asynq.Deadline(now().Add(msg.ExpiresIn)))
	}

	info, err := d.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue verification email: %w", err)
	}

	slogx.FromContext(ctx).Info("verification email queued",
		slog.String("task_id", info.ID),
		slog.String("to", slogx.MaskEmail(msg.To)),
	)
	return nil
}

// VerificationTaskHandler decodes verification tasks and delivers them via
// next. Undecodable payloads are dropped rather than retried.
func VerificationTaskHandler(next Dispatcher) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var msg VerificationMessage
		if err := json.Unmarshal(t.Payload(), &msg); err != nil {
			return fmt.Errorf("decode verification task: %v: %w", err, asynq.SkipRetry)
		}
		if err := msg.validate(); err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return next.SendVerificationCode(ctx, msg)
	}
}
