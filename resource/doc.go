// Package resource bounds the resources a sketch build may use.
//
//   - Memory: bytes of sequence data (plus reverse complement) in flight
//   - Workers: sequences sketched concurrently
//   - IO: input read throughput (token bucket)
//
// All methods are safe for concurrent use, and a nil *Controller is valid
// and imposes no limits.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   1 << 30,
//	    MaxWorkers:         8,
//	    IOLimitBytesPerSec: 200 << 20,
//	})
package resource
