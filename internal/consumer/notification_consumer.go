package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/notification"
	"github.com/faroemiliano/backBarberia1991/pkg/mailer"
	amqp "github.com/rabbitmq/amqp091-go"
)

const sendTimeout = 15 * time.Second

type NotificationConsumer struct {
	sender mailer.Sender
	logger *slog.Logger
}

func NewNotificationConsumer(sender mailer.Sender, logger *slog.Logger) *NotificationConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationConsumer{sender: sender, logger: logger.With("component", "notification_consumer")}
}

// Start renders and sends every delivery until msgs closes. The returned
// channel closes once the loop exits.
func (nc *NotificationConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			nc.handleMessage(ctx, msg)
		}
		nc.logger.Info("channel closed, stopping consumer")
	}()
	return done
}

func (nc *NotificationConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var n notification.Message
	if err := json.Unmarshal(msg.Body, &n); err != nil {
		nc.logger.Error("failed to unmarshal", "message_id", msg.MessageId, "err", err)
		msg.Nack(false, false)
		return
	}
	log := nc.logger.With("message_id", n.ID, "kind", n.Kind)

	email, err := notification.Render(n)
	if err != nil {
		log.Error("failed to render", "err", err)
		msg.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := nc.sender.Send(sendCtx, n.Recipient, email.Subject, email.Text, email.HTML); err != nil {
		if msg.Redelivered {
			log.Error("send failed after retry, dropping", "err", err)
			msg.Nack(false, false)
			return
		}
		log.Warn("send failed, requeueing", "err", err)
		msg.Nack(false, true)
		return
	}

	log.Info("notification sent")
	msg.Ack(false)
}
