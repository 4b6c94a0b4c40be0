package winnow

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordSequence is called after each sequence has been sketched.
	// length is the sequence length in bases, minimizers the number of
	// records appended.
	RecordSequence(length, minimizers int, duration time.Duration)

	// RecordFile is called after each input file.
	RecordFile(sequences int, duration time.Duration, err error)

	// RecordSave is called after a sketch has been persisted.
	RecordSave(bytes int64, duration time.Duration, err error)

	// RecordLoad is called after a sketch has been loaded.
	RecordLoad(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSequence(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordFile(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordSave(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SequenceCount      atomic.Int64
	SequenceBases      atomic.Int64
	SequenceMinimizers atomic.Int64
	SequenceTotalNanos atomic.Int64
	FileCount          atomic.Int64
	FileErrors         atomic.Int64
	SaveCount          atomic.Int64
	SaveErrors         atomic.Int64
	SaveBytes          atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadBytes          atomic.Int64
}

// RecordSequence implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSequence(length, minimizers int, duration time.Duration) {
	b.SequenceCount.Add(1)
	b.SequenceBases.Add(int64(length))
	b.SequenceMinimizers.Add(int64(minimizers))
	b.SequenceTotalNanos.Add(duration.Nanoseconds())
}

// RecordFile implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFile(sequences int, duration time.Duration, err error) {
	b.FileCount.Add(1)
	if err != nil {
		b.FileErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int64, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(bytes)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SequenceCount:      b.SequenceCount.Load(),
		SequenceBases:      b.SequenceBases.Load(),
		SequenceMinimizers: b.SequenceMinimizers.Load(),
		SequenceAvgNanos:   b.getAvgSequenceNanos(),
		FileCount:          b.FileCount.Load(),
		FileErrors:         b.FileErrors.Load(),
		SaveCount:          b.SaveCount.Load(),
		SaveErrors:         b.SaveErrors.Load(),
		SaveBytes:          b.SaveBytes.Load(),
		LoadCount:          b.LoadCount.Load(),
		LoadErrors:         b.LoadErrors.Load(),
		LoadBytes:          b.LoadBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSequenceNanos() int64 {
	count := b.SequenceCount.Load()
	if count == 0 {
		return 0
	}
	return b.SequenceTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SequenceCount      int64
	SequenceBases      int64
	SequenceMinimizers int64
	SequenceAvgNanos   int64
	FileCount          int64
	FileErrors         int64
	SaveCount          int64
	SaveErrors         int64
	SaveBytes          int64
	LoadCount          int64
	LoadErrors         int64
	LoadBytes          int64
}
