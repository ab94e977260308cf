package service

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes each execution to the structured log. The human-readable
// timestamp is second-granularity; ordering is already fixed by the
// matching loop, not the clock.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{log: logger}
}

func (s *LogSink) Publish(_ context.Context, ev TradeEvent) error {
	s.log.Info("executed trade",
		zap.Uint64("seq", ev.Seq),
		zap.Int64("quantity", ev.Quantity),
		zap.String("price", ev.Price.String()),
		zap.String("time", ev.Time.Format("2006-01-02 15:04:05")),
	)
	return nil
}
