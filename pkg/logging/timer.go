package logging

import (
	"time"
)

// TimedOperation measures one stage and logs it with its latency
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation at INFO with extra result fields
func (t *TimedOperation) End(fields ...Field) time.Duration {
	return t.EndWithLevel(InfoLevel, fields...)
}

// EndWithLevel logs the operation at the given level
func (t *TimedOperation) EndWithLevel(level Level, fields ...Field) time.Duration {
	elapsed := t.Elapsed()
	all := make([]Field, 0, len(t.fields)+len(fields)+1)
	all = append(all, t.fields...)
	all = append(all, fields...)
	all = append(all, Latency(elapsed))
	t.logger.Log(level, t.msg, all...)
	return elapsed
}

// EndError logs the operation as failed
func (t *TimedOperation) EndError(err error) time.Duration {
	return t.EndWithLevel(ErrorLevel, Error(err))
}
