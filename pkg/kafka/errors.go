package kafka

import "errors"

var (
	ErrProducerClosed = errors.New("kafka producer is closed")

	// ErrEmptyKey is returned for messages without a partition key. Every
	// event is keyed so that changes to one record stay ordered.
	ErrEmptyKey = errors.New("message key cannot be empty")

	// ErrEmptyValue also covers values the builder failed to encode.
	ErrEmptyValue = errors.New("message value cannot be empty")

	ErrMissingBrokers = errors.New("at least one broker is required")
	ErrMissingTopic   = errors.New("topic cannot be empty")
)
