// File: timer.go
// Title: Performance Timer
// Description: Measures how long an operation took and logs the duration when
//              the operation completes or fails.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with performance timing
// - 2026-10-18 v0.2.0: Single completion path, checkpoints removed

package log

import (
	"time"
)

// Timer measures the duration of one operation
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer creates a timer for operation; completion is logged at debug level
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the log level for the completion message
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the elapsed time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Stop logs "<operation> completed" with the elapsed time. Calling Stop or
// StopWithError a second time is a no-op returning zero.
func (t *Timer) Stop() time.Duration {
	return t.finish(nil)
}

// StopWithError logs "<operation> failed" at error level with the elapsed time
func (t *Timer) StopWithError(err error) time.Duration {
	return t.finish(err)
}

// IsRunning returns true if the timer has not been stopped
func (t *Timer) IsRunning() bool {
	return !t.stopped
}

func (t *Timer) finish(err error) time.Duration {
	if t.stopped {
		return 0
	}
	elapsed := t.Elapsed()
	t.stopped = true

	if t.logger == nil {
		return elapsed
	}

	fields := t.fields.Merge(Fields{
		"operation":   t.operation,
		"duration_ms": durationMillis(elapsed),
	})
	if err != nil {
		fields["success"] = false
		t.logger.log(LevelError, t.operation+" failed", err, fields)
		return elapsed
	}
	t.logger.log(t.level, t.operation+" completed", nil, fields)
	return elapsed
}
