package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mind-engage/mindengage-quiz/internal/ledger"
)

const (
	Exchange                     = "quiz.events" // topic exchange for submission events
	SubmissionRecordedRoutingKey = "submission.recorded"
)

// Publisher is the part of *amqp.Channel the notifier needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQP publishes every recorded submission to the quiz.events exchange.
type AMQP struct {
	mu   sync.Mutex // amqp channels are not safe for concurrent publishing
	ch   Publisher
	conn *amqp.Connection
}

// DialAMQP connects, opens a channel and declares the exchange.
func DialAMQP(url string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(
		Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}
	return &AMQP{ch: ch, conn: conn}, nil
}

// NewAMQP wraps an existing channel.
func NewAMQP(ch Publisher) *AMQP { return &AMQP{ch: ch} }

func (a *AMQP) Notify(ctx context.Context, rec ledger.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode submission")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ch.PublishWithContext(ctx,
		Exchange,
		SubmissionRecordedRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         TypeSubmissionRecorded,
			Body:         body,
		})
}

func (a *AMQP) Close() error {
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}
