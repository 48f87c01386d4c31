package queue

import (
	"context"
	"fmt"

	"newsboard/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler обрабатывает тело одного сообщения. Ошибка возвращает сообщение в очередь.
type Handler func(ctx context.Context, body []byte) error

func declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
}

// Producer публикует задачи в RabbitMQ.
type Producer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewProducer(url string) (*Producer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &Producer{conn: conn, ch: ch}, nil
}

func (p *Producer) Publish(ctx context.Context, queueName string, body []byte) error {
	if _, err := declare(p.ch, queueName); err != nil {
		return err
	}

	return p.ch.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "text/plain",
			Body:         body,
		},
	)
}

func (p *Producer) Close() {
	p.ch.Close()
	p.conn.Close()
}

// Consumer раздаёт сообщения очереди нескольким обработчикам.
type Consumer struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queue   string
	workers int
}

func NewConsumer(url, queue string, workers int) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &Consumer{
		conn:    conn,
		ch:      ch,
		queue:   queue,
		workers: workers,
	}, nil
}

// Consume запускает workers горутин, которые обрабатывают сообщения до
// закрытия канала доставки.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	q, err := declare(c.ch, c.queue)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}

	logger.Log.Infof("Consuming queue: %s (messages: %d)", q.Name, q.Messages)

	msgs, err := c.ch.Consume(
		q.Name,
		"",    // consumer
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.Name, err)
	}

	for i := 0; i < c.workers; i++ {
		go func() {
			for msg := range msgs {
				if err := handler(ctx, msg.Body); err == nil {
					msg.Ack(false)
				} else {
					msg.Nack(false, true)
					logger.Log.Errorf("Task failed: %v", err)
				}
			}
		}()
	}
	return nil
}

func (c *Consumer) Close() {
	c.ch.Close()
	c.conn.Close()
}
