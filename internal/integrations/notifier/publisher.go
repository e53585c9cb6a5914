package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	statusOK      = "ok"
	statusError   = "error"
	statusDropped = "dropped"

	// DefaultBufferSize событий, ожидающих отправки
	DefaultBufferSize = 256

	amqpHeartbeat = 10 * time.Second
	amqpLocale    = "en_US"
)

// Publisher публикует события бронирований в durable очередь RabbitMQ.
// Publish только ставит событие в буфер; отправкой занимается отдельная горутина,
// поэтому HTTP запрос не ждет брокер. Соединение открывается лениво
// и пересоздается после ошибки; подключение ограничено timeout.
type Publisher struct {
	url     string
	queue   string
	timeout time.Duration
	dial    Dialer
	logger  Logger
	metrics Metrics

	events  chan BookingEvent
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	// используются только горутиной отправки
	ch   Channel
	conn io.Closer
}

// NewPublisher создает издателя событий и запускает горутину отправки
func NewPublisher(url, queue string, timeout time.Duration, bufferSize int, logger Logger, metrics Metrics) *Publisher {
	return NewPublisherWithDialer(url, queue, timeout, bufferSize, dialAMQP, logger, metrics)
}

// NewPublisherWithDialer создает издателя с произвольным способом подключения
func NewPublisherWithDialer(url, queue string, timeout time.Duration, bufferSize int, dial Dialer, logger Logger, metrics Metrics) *Publisher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	p := &Publisher{
		url:     url,
		queue:   queue,
		timeout: timeout,
		dial:    dial,
		logger:  logger,
		metrics: metrics,
		events:  make(chan BookingEvent, bufferSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish ставит событие в очередь на отправку и не блокируется.
// Если буфер заполнен, событие отбрасывается с ErrBufferFull.
func (p *Publisher) Publish(_ context.Context, event BookingEvent) error {
	select {
	case <-p.done:
		p.metrics.IncEventPublished(statusDropped)
		return fmt.Errorf("%w: %s booking_id=%d", ErrClosed, event.Type, event.BookingID)
	default:
	}

	select {
	case p.events <- event:
		return nil
	default:
		p.metrics.IncEventPublished(statusDropped)
		return fmt.Errorf("%w: %s booking_id=%d", ErrBufferFull, event.Type, event.BookingID)
	}
}

// Close останавливает отправку и досылает буфер, затем закрывает канал и соединение
func (p *Publisher) Close() error {
	p.once.Do(func() { close(p.done) })
	<-p.stopped
	return nil
}

func (p *Publisher) run() {
	defer close(p.stopped)
	defer p.reset()

	for {
		select {
		case event := <-p.events:
			p.send(event)
		case <-p.done:
			p.drain()
			return
		}
	}
}

// drain досылает буфер. Если брокер недоступен, оставшиеся события отбрасываются
// без повторных попыток подключения.
func (p *Publisher) drain() {
	unreachable := false
	for {
		select {
		case event := <-p.events:
			if unreachable {
				p.metrics.IncEventPublished(statusDropped)
				p.logger.Warn("notifier: broker unavailable on shutdown, dropped %s booking_id=%d", event.Type, event.BookingID)
				continue
			}
			if err := p.publish(event); err != nil {
				p.metrics.IncEventPublished(statusError)
				p.logger.Warn("notifier: %v", err)
				unreachable = errors.Is(err, ErrConnect)
				continue
			}
			p.metrics.IncEventPublished(statusOK)
		default:
			return
		}
	}
}

func (p *Publisher) send(event BookingEvent) {
	if err := p.publish(event); err != nil {
		p.metrics.IncEventPublished(statusError)
		p.logger.Warn("notifier: %v", err)
		return
	}
	p.metrics.IncEventPublished(statusOK)
}

// publish отправляет одно событие. Сообщения помечаются как persistent.
func (p *Publisher) publish(event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrPublish, event.Type, err)
	}

	if err := p.ensureChannel(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         event.Type,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("%w: %s booking_id=%d: %v", ErrPublish, event.Type, event.BookingID, err)
	}
	return nil
}

func (p *Publisher) ensureChannel() error {
	if p.ch != nil {
		return nil
	}

	ch, conn, err := p.dial(p.url, p.timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if conn != nil {
			_ = conn.Close()
		}
		return fmt.Errorf("%w: declare queue %s: %v", ErrConnect, p.queue, err)
	}

	p.ch = ch
	p.conn = conn
	p.logger.Info("notifier: connected to broker, queue=%s", p.queue)
	return nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// dialAMQP подключается с ограничением по времени на TCP и на AMQP handshake
func dialAMQP(url string, timeout time.Duration) (Channel, io.Closer, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: amqpHeartbeat,
		Locale:    amqpLocale,
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return ch, conn, nil
}

// Noop издатель для работы без брокера
type Noop struct{}

func (Noop) Publish(context.Context, BookingEvent) error { return nil }
