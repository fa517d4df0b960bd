package queue

import "time"

const (
	DefaultMaxInFlight = 3
	DefaultMinInterval = 500 * time.Millisecond
)
