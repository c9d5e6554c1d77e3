package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// SyncHandler processes an expense sync message.
type SyncHandler func(ctx context.Context, msg *ExpenseSyncMessage) error

// DeleteHandler processes an expense delete message.
type DeleteHandler func(ctx context.Context, msg *ExpenseDeleteMessage) error

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishExpenseSync publishes a sync message for an expense row.
func (c *Client) PublishExpenseSync(ctx context.Context, id int64, userID string) error {
	body, err := NewExpenseSyncMessage(id, userID).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published expense sync message",
		"expense_id", id,
		"user_id", userID,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishExpenseDelete publishes a delete message for an expense row.
func (c *Client) PublishExpenseDelete(ctx context.Context, id int64, userID string) error {
	body, err := NewExpenseDeleteMessage(id, userID).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published expense delete message",
		"expense_id", id,
		"user_id", userID,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

func (c *Client) publish(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// ConsumeMessages consumes sync and delete messages until ctx is cancelled,
// dispatching on the message type field. Handler failures nack with requeue;
// undecodable messages are dropped.
func (c *Client) ConsumeMessages(ctx context.Context, onSync SyncHandler, onDelete DeleteHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming expense messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.dispatch(ctx, delivery, onSync, onDelete)
		}
	}
}

func (c *Client) dispatch(ctx context.Context, delivery amqp091.Delivery, onSync SyncHandler, onDelete DeleteHandler) {
	msgType, err := messageType(delivery.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to decode message envelope", "error", err)
		delivery.Nack(false, false) // reject and don't requeue
		return
	}

	var handleErr error
	switch msgType {
	case TypeExpenseSync:
		msg, err := ExpenseSyncMessageFromJSON(delivery.Body)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal sync message", "error", err)
			delivery.Nack(false, false)
			return
		}
		handleErr = onSync(ctx, msg)
	case TypeExpenseDelete:
		msg, err := ExpenseDeleteMessageFromJSON(delivery.Body)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal delete message", "error", err)
			delivery.Nack(false, false)
			return
		}
		handleErr = onDelete(ctx, msg)
	default:
		slog.WarnContext(ctx, "Unknown message type", "type", msgType)
		delivery.Nack(false, false)
		return
	}

	if handleErr != nil {
		slog.ErrorContext(ctx, "Failed to handle message", "error", handleErr, "type", msgType)
		delivery.Nack(false, true) // reject and requeue
		return
	}
	delivery.Ack(false)
}

// exponentialBackoff returns the wait before reconnect attempt n, doubling
// from one second and capped at 30s.
func exponentialBackoff(attempt int) time.Duration {
	backoff := time.Second << uint(attempt)
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}

// isConnectionError reports whether the error looks like a broken broker
// connection worth a reconnect, as opposed to a handler or protocol error.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"connection refused",
		"connection closed",
		"unexpected EOF",
		"broken pipe",
		"use of closed network connection",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// ConsumeWithReconnect keeps a consumer alive across broker restarts,
// redialing with exponential backoff on connection errors.
func ConsumeWithReconnect(ctx context.Context, url, exchange, queue string, onSync SyncHandler, onDelete DeleteHandler) error {
	for attempt := 0; ; attempt++ {
		client, err := NewClient(url, exchange, queue)
		if err != nil {
			if !isConnectionError(err) {
				return err
			}
			wait := exponentialBackoff(attempt)
			slog.WarnContext(ctx, "AMQP dial failed, retrying", "error", err, "wait", wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		attempt = 0
		err = client.ConsumeMessages(ctx, onSync, onDelete)
		client.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !isConnectionError(err) && err.Error() != "message channel closed" {
			return err
		}
		slog.WarnContext(ctx, "AMQP consumer stopped, reconnecting", "error", err)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
