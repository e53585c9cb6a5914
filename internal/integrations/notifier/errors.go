package notifier

import "errors"

var (
	// ErrConnect возвращается, когда не удалось подключиться к брокеру
	ErrConnect = errors.New("notifier: failed to connect to broker")

	// ErrBufferFull возвращается, когда буфер событий заполнен
	ErrBufferFull = errors.New("notifier: event buffer is full")

	// ErrClosed возвращается после Close
	ErrClosed = errors.New("notifier: publisher is closed")

	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("notifier: failed to publish event")
)
