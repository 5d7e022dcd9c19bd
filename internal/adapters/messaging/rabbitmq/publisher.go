// Package rabbitmq publishes completed ledger entries to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the durable topic exchange ledger events go to.
const ExchangeName = "transaction_events"

// TransactionEvent is the message body published for a ledger entry.
type TransactionEvent struct {
	TransactionID     string    `json:"transaction_id"`
	AccountID         string    `json:"account_id"`
	ReceiverAccountID string    `json:"receiver_account_id,omitempty"`
	Type              string    `json:"type"`
	Status            string    `json:"status"`
	Amount            string    `json:"amount"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// RoutingKey returns e.g. "transaction.deposit.completed".
func RoutingKey(txn domain.Transaction) string {
	return fmt.Sprintf("transaction.%s.%s", strings.ToLower(string(txn.Type)), strings.ToLower(string(txn.Status)))
}

// NewTransactionEvent builds the message body for txn.
func NewTransactionEvent(txn domain.Transaction) TransactionEvent {
	return TransactionEvent{
		TransactionID:     txn.TransactionID,
		AccountID:         txn.AccountID,
		ReceiverAccountID: txn.ReceiverAccountID,
		Type:              string(txn.Type),
		Status:            string(txn.Status),
		Amount:            txn.Amount.String(),
		OccurredAt:        txn.LastUpdatedAt,
	}
}

// Publisher owns one AMQP connection and channel. Both are re-established on the next
// publish after the broker drops them.
type Publisher struct {
	mu      sync.Mutex
	dial    func() (*amqp.Connection, error)
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

var _ portssvc.EventPublisher = (*Publisher)(nil)

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewPublisher dials amqpURL and declares the exchange.
func NewPublisher(amqpURL string, logger *slog.Logger) (*Publisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	dial := func() (*amqp.Connection, error) {
		conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		return conn, nil
	}
	conn, err := dial()
	if err != nil {
		return nil, err
	}
	p := &Publisher{dial: dial, conn: conn, logger: logger}
	if err := p.openChannel(); err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// ensureChannel must be called with mu held.
func (p *Publisher) ensureChannel(ctx context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		p.logger.WarnContext(ctx, "RabbitMQ connection closed, redialing")
		p.channel = nil
		conn, err := p.dial()
		if err != nil {
			return err
		}
		p.conn = conn
	}
	if p.channel == nil || p.channel.IsClosed() {
		p.logger.WarnContext(ctx, "RabbitMQ channel closed, reopening")
		return p.openChannel()
	}
	return nil
}

// openChannel must be called with mu held or before the publisher is shared.
func (p *Publisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}
	p.channel = ch
	return nil
}

func (p *Publisher) PublishTransaction(ctx context.Context, txn domain.Transaction) error {
	body, err := json.Marshal(NewTransactionEvent(txn))
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    txn.TransactionID,
		Timestamp:    time.Now(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(ctx); err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx, ExchangeName, RoutingKey(txn), false, false, msg)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// NoopPublisher drops events. It is used when no broker is configured.
type NoopPublisher struct {
	Logger *slog.Logger
}

var _ portssvc.EventPublisher = NoopPublisher{}

func (n NoopPublisher) PublishTransaction(ctx context.Context, txn domain.Transaction) error {
	if n.Logger != nil {
		n.Logger.DebugContext(ctx, "Publish skipped, no broker configured",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("routing_key", RoutingKey(txn)))
	}
	return nil
}

func (NoopPublisher) Close() error { return nil }
