package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
)

// SettledQueue carries housekeeping work for settled orders: stock
// decrements, cart clearing, receipt mail. Durable; consumed with
// manual ack by cmd/settlement-worker.
const SettledQueue = "order_settled"

// Connect dials RabbitMQ. Built once in main and handed to whoever
// needs it.
func Connect(cfg *config.RabbitMQConfig) (*amqp.Connection, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	return conn, nil
}
