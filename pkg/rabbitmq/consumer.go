package rabbitmq

import (
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

func NewConsumer(url string, logger *slog.Logger) (*Consumer, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(QueueName, true, false, false, false, nil)
	if err != nil {
		closeAll(ch, conn)
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.QueueBind(q.Name, BindingKey, ExchangeName, false, nil); err != nil {
		closeAll(ch, conn)
		return nil, fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	// one unacked delivery per worker
	if err := ch.Qos(1, 0, false); err != nil {
		closeAll(ch, conn)
		return nil, fmt.Errorf("rabbitmq qos: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{conn: conn, channel: ch, logger: logger}, nil
}

func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // auto-ack = false, we ack manually after processing
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}

	c.logger.Info("consuming from queue", "queue", QueueName)
	return msgs, nil
}

func (c *Consumer) Close() {
	closeAll(c.channel, c.conn)
}
