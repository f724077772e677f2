package notify

import (
	"context"
	"time"

	"github.com/pulsefit/gymchat/pkg/logging"
)

// Dispatcher drains the email queue and delivers through a sender, retrying
// failures with exponential backoff up to a bounded attempt count.
type Dispatcher struct {
	queue       *Queue
	sender      EmailSender
	logger      *logging.Logger
	maxAttempts int
	baseDelay   time.Duration

	// onDrop, when set, observes permanently failed emails. Used by metrics.
	onDrop func(EmailMessage)
}

// NewDispatcher builds a dispatcher for queue and sender.
func NewDispatcher(queue *Queue, sender EmailSender, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		queue:       queue,
		sender:      sender,
		logger:      logger,
		maxAttempts: 3,
		baseDelay:   2 * time.Second,
	}
}

// WithMaxAttempts bounds delivery attempts per email.
func (d *Dispatcher) WithMaxAttempts(n int) *Dispatcher {
	if n > 0 {
		d.maxAttempts = n
	}
	return d
}

// WithBaseDelay sets the first retry delay.
func (d *Dispatcher) WithBaseDelay(delay time.Duration) *Dispatcher {
	if delay > 0 {
		d.baseDelay = delay
	}
	return d
}

// WithDropObserver registers a callback for emails that exhaust retries.
func (d *Dispatcher) WithDropObserver(fn func(EmailMessage)) *Dispatcher {
	d.onDrop = fn
	return d
}

// Run delivers queued email until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("email dispatcher started", "max_attempts", d.maxAttempts)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("email dispatcher stopped", "pending", d.queue.Len())
			return
		case item := <-d.queue.ch:
			d.deliver(ctx, item)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, item queued) {
	item.Attempts++
	err := d.sender.Send(ctx, item.Message)
	if err == nil {
		return
	}

	if item.Attempts >= d.maxAttempts {
		d.logger.Error("email dropped after max attempts",
			"error", err,
			"to", item.Message.To,
			"subject", item.Message.Subject,
			"attempts", item.Attempts,
		)
		if d.onDrop != nil {
			d.onDrop(item.Message)
		}
		return
	}

	d.logger.Warn("email send failed, will retry",
		"error", err,
		"to", item.Message.To,
		"attempt", item.Attempts,
	)

	delay := d.nextDelay(item.Attempts)
	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			if !d.queue.requeue(item) {
				d.logger.Error("email dropped, queue full on retry", "to", item.Message.To)
				if d.onDrop != nil {
					d.onDrop(item.Message)
				}
			}
		}
	}()
}

func (d *Dispatcher) nextDelay(attempts int) time.Duration {
	delay := d.baseDelay * time.Duration(1<<(attempts-1))
	if delay > time.Minute {
		delay = time.Minute
	}
	return delay
}
