package services

import (
	"context"
	"testing"
	"time"
)

func TestSyncNotifyQueue_ProcessorInvoked(t *testing.T) {
	queue := NewSyncNotifyQueue()

	got := make(chan *NotificationTask, 1)
	queue.SetProcessor(func(ctx context.Context, task *NotificationTask) error {
		got <- task
		return nil
	})

	task := &NotificationTask{
		Type:      TaskTypePaymentReminder,
		UserID:    1,
		ProjectID: 2,
		Email:     "owner@example.com",
		DueDate:   "2023-05-04",
	}
	if err := queue.Enqueue(task); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	select {
	case received := <-got:
		if received.Email != "owner@example.com" {
			t.Errorf("Email = %q, expected owner@example.com", received.Email)
		}
		if received.Type != TaskTypePaymentReminder {
			t.Errorf("Type = %q, expected %q", received.Type, TaskTypePaymentReminder)
		}
	case <-time.After(time.Second):
		t.Fatal("processor was not invoked")
	}
}

func TestSyncNotifyQueue_NoProcessor(t *testing.T) {
	queue := NewSyncNotifyQueue()

	// Tasks are dropped, not errored, when no processor is wired.
	if err := queue.Enqueue(&NotificationTask{Type: TaskTypePaymentReceipt}); err != nil {
		t.Errorf("Enqueue() without processor error = %v", err)
	}

	if queue.IsAsync() {
		t.Error("sync queue should report IsAsync() == false")
	}
	if err := queue.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
