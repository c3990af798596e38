package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fundloop/fundloop/backend/internal/config"
	"github.com/fundloop/fundloop/backend/pkg/logger"
	"github.com/hibiken/asynq"
)

const (
	TaskTypePaymentReceipt  = "notify:payment_receipt"
	TaskTypePaymentReminder = "notify:payment_reminder"
)

// NotificationTask is a queued notification to a user's primary email.
type NotificationTask struct {
	Type      string  `json:"type"`
	UserID    uint    `json:"user_id"`
	ProjectID uint    `json:"project_id"`
	PaymentID uint    `json:"payment_id,omitempty"`
	Email     string  `json:"email"`
	Amount    float64 `json:"amount,omitempty"`
	DueDate   string  `json:"due_date,omitempty"`
}

// NotifyQueue decouples notification delivery from request handling.
type NotifyQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(task *NotificationTask) error
	// IsAsync returns true if the queue processes tasks asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalNotifyQueue NotifyQueue
	notifyQueueOnce   sync.Once
)

// InitNotifyQueue initializes the global notification queue based on config.
// Without Redis, tasks are handled in-process.
func InitNotifyQueue(cfg *config.Config) NotifyQueue {
	notifyQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncNotifyQueue(&cfg.Redis)
			if err != nil {
				logger.Warnf("[NotifyQueue] Redis unavailable, falling back to sync mode: %v", err)
				globalNotifyQueue = NewSyncNotifyQueue()
			} else {
				logger.Infof("[NotifyQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
				globalNotifyQueue = queue
			}
		} else {
			logger.Infof("[NotifyQueue] Sync queue initialized (Redis disabled)")
			globalNotifyQueue = NewSyncNotifyQueue()
		}
	})
	return globalNotifyQueue
}

// GetNotifyQueue returns the global notification queue instance.
func GetNotifyQueue() NotifyQueue {
	return globalNotifyQueue
}

// AsyncNotifyQueue implements NotifyQueue using asynq (Redis-based).
type AsyncNotifyQueue struct {
	client *asynq.Client
}

func NewAsyncNotifyQueue(cfg *config.RedisConfig) (*AsyncNotifyQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection before accepting tasks
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncNotifyQueue{client: client}, nil
}

func (q *AsyncNotifyQueue) Enqueue(task *NotificationTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(task.Type, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Infof("[NotifyQueue] Task enqueued: id=%s, type=%s", info.ID, task.Type)
	return nil
}

func (q *AsyncNotifyQueue) IsAsync() bool {
	return true
}

func (q *AsyncNotifyQueue) Close() error {
	return q.client.Close()
}

// SyncNotifyQueue handles tasks in-process when Redis is disabled.
type SyncNotifyQueue struct {
	processor func(context.Context, *NotificationTask) error
}

func NewSyncNotifyQueue() *SyncNotifyQueue {
	return &SyncNotifyQueue{}
}

// SetProcessor sets the function invoked for each task.
func (q *SyncNotifyQueue) SetProcessor(processor func(context.Context, *NotificationTask) error) {
	q.processor = processor
}

// Enqueue processes the task in a goroutine so callers are not blocked.
func (q *SyncNotifyQueue) Enqueue(task *NotificationTask) error {
	if q.processor == nil {
		logger.Debug().Str("type", task.Type).Msg("no notification processor set, task dropped")
		return nil
	}

	go func() {
		if err := q.processor(context.Background(), task); err != nil {
			logger.Errorf("[NotifyQueue] Task processing failed: %v", err)
		}
	}()

	return nil
}

func (q *SyncNotifyQueue) IsAsync() bool {
	return false
}

func (q *SyncNotifyQueue) Close() error {
	return nil
}
