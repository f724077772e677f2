package notify

import (
	"fmt"

	"github.com/google/uuid"
)

// queued is one email waiting for delivery.
type queued struct {
	ID       string
	Message  EmailMessage
	Attempts int
}

// Queue is an in-memory buffered email queue. Enqueue never blocks the
// booking flow: a full queue is reported as an error and the email dropped.
type Queue struct {
	ch chan queued
}

// NewQueue builds a queue with the given buffer capacity.
func NewQueue(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 256
	}
	return &Queue{ch: make(chan queued, buffer)}
}

// Enqueue adds msg to the queue.
func (q *Queue) Enqueue(msg EmailMessage) error {
	item := queued{ID: uuid.NewString(), Message: msg}
	select {
	case q.ch <- item:
		return nil
	default:
		return fmt.Errorf("notify: email queue full, dropping mail to %s", msg.To)
	}
}

// Len reports how many emails are waiting.
func (q *Queue) Len() int {
	return len(q.ch)
}

// TryDequeue pops the next queued email without blocking. Used for draining
// on shutdown and by tests.
func (q *Queue) TryDequeue() (EmailMessage, bool) {
	select {
	case item := <-q.ch:
		return item.Message, true
	default:
		return EmailMessage{}, false
	}
}

// requeue puts a failed item back for another attempt. Best-effort: if the
// queue has filled meanwhile the item is lost.
func (q *Queue) requeue(item queued) bool {
	select {
	case q.ch <- item:
		return true
	default:
		return false
	}
}
