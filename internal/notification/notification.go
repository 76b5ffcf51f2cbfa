// Package notification carries booking notifications from the engines to the
// mail worker. Delivery is best-effort: callers get an Outcome, never an error.
package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindEdit         Kind = "edit"
	KindCancellation Kind = "cancellation"
)

type Message struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Recipient string `json:"recipient"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Service   string `json:"service"`

	PreviousDate    string `json:"previous_date,omitempty"`
	PreviousTime    string `json:"previous_time,omitempty"`
	PreviousService string `json:"previous_service,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome reports what happened to the notification that followed a committed
// mutation. It never reflects on the mutation itself.
type Outcome struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
	err    error
}

func (o Outcome) Err() error { return o.err }

func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

const publishTimeout = 3 * time.Second

// Dispatch hands msg to n and swallows any failure into the returned Outcome.
func Dispatch(ctx context.Context, n Notifier, msg Message, logger *slog.Logger) Outcome {
	if n == nil {
		return Skipped("notifications disabled")
	}
	if msg.Recipient == "" {
		return Skipped("no recipient")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	// The request may already be finishing; the publish gets its own deadline.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := n.Notify(pubCtx, msg); err != nil {
		if logger != nil {
			logger.Warn("notification not delivered",
				"kind", msg.Kind, "message_id", msg.ID, "err", err)
		}
		return Outcome{Status: StatusFailed, Reason: err.Error(), err: err}
	}
	return Outcome{Status: StatusSent}
}

// Publisher is the transport a QueueNotifier writes to.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type QueueNotifier struct {
	pub Publisher
}

func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

func RoutingKey(kind Kind) string {
	return "notification." + string(kind)
}

func (q *QueueNotifier) Notify(ctx context.Context, msg Message) error {
	return q.pub.Publish(ctx, RoutingKey(msg.Kind), msg)
}
