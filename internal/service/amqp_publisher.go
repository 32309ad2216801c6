package service

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/SahilSagvekar/vedessa-sub001/internal/infra/mq"
)

// amqpPublisher pushes settled-order housekeeping onto the durable
// queue consumed by cmd/settlement-worker.
type amqpPublisher struct {
	conn *amqp.Connection
}

// NewAMQPSettledPublisher builds the publisher.
func NewAMQPSettledPublisher(conn *amqp.Connection) SettledPublisher {
	return &amqpPublisher{conn: conn}
}

func (p *amqpPublisher) PublishSettled(ctx context.Context, msg *SettledMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(mq.SettledQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		"",
		mq.SettledQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.MessageID,
			Body:         body,
		},
	)
}
