package winnow

import (
	"log/slog"

	"github.com/hupe1980/winnow/persistence"
	"github.com/hupe1980/winnow/resource"
)

type options struct {
	codec            persistence.ManifestCodec
	compression      persistence.Compression
	metricsCollector MetricsCollector
	logger           *Logger
	concurrency      int
	resource         *resource.Controller
	publish          bool
}

// Option configures builder, save and load behavior.
type Option func(*options)

// WithCodec configures the codec used for manifests.
//
// If nil is passed, persistence.DefaultManifestCodec is used.
func WithCodec(c persistence.ManifestCodec) Option {
	return func(o *options) {
		if c == nil {
			c = persistence.DefaultManifestCodec
		}
		o.codec = c
	}
}

// WithCompression selects the block compression of saved sketches.
// The default is LZ4.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithConcurrency sets how many sequences of one input file are sketched
// in parallel. Values below 2 keep the build sequential.
//
// Sequence ids and record order do not depend on this setting.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithResourceController bounds memory, worker slots and input throughput.
// A controller may be shared between builders.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 2 << 30,
//	    MaxWorkers:       8,
//	})
//	b, _ := winnow.NewBuilder(p, winnow.WithConcurrency(8), winnow.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resource = rc
	}
}

// WithPublish controls whether Save points CURRENT at the new manifest.
// Enabled by default.
func WithPublish(publish bool) Option {
	return func(o *options) {
		o.publish = publish
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &winnow.BasicMetricsCollector{}
//	b, _ := winnow.NewBuilder(p, winnow.WithMetricsCollector(metrics))
//	// ... add sequences ...
//	stats := metrics.GetStats()
//	fmt.Printf("Sequences: %d, Avg latency: %dns\n", stats.SequenceCount, stats.SequenceAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := winnow.NewJSONLogger(slog.LevelInfo)
//	b, _ := winnow.NewBuilder(p, winnow.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            persistence.DefaultManifestCodec,
		compression:      persistence.CompressionLZ4,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		concurrency:      1,
		publish:          true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	return o
}
