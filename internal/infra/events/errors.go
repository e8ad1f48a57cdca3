package events

import "errors"

var (
	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("events: failed to encode event")

	// ErrPublish возвращается, когда событие не удалось записать в Kafka
	ErrPublish = errors.New("events: failed to publish event")
)
