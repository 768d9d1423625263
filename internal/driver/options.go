package driver

import (
	"log/slog"
	"runtime"

	lzo "github.com/lzoblock/lzo1x"
)

// Options configures one compress or decompress operation.
type Options struct {
	// Label selects the compressor variant for compress operations. Ignored
	// for decompress, which always uses the single shared decompressor.
	Label lzo.Label

	// Workers is the worker pool size. Zero or negative selects
	// runtime.NumCPU().
	Workers int

	// Verify makes Compress decompress the container it produced in memory
	// and compare it against the original input before returning.
	// Decompress does not read it and runs no verify pass.
	Verify bool

	// Benchmark makes Compress run an extra timed single-block (workers=1)
	// and multi-block (Workers) compress pass over the input after the
	// primary operation and report both durations in the Result.
	// Decompress does not read it.
	Benchmark bool

	// Logger receives one structured operation record per call, and one
	// error record on failure. A nil Logger uses slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns Options with LabelX, runtime.NumCPU() workers, and
// no verify pass.
func DefaultOptions() *Options {
	return &Options{Label: lzo.LabelX, Workers: runtime.NumCPU()}
}

func (o *Options) workers() int {
	if o == nil || o.Workers < 1 {
		return runtime.NumCPU()
	}
	return o.Workers
}

func (o *Options) label() lzo.Label {
	if o == nil {
		return lzo.LabelX
	}
	return o.Label
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *Options) verify() bool {
	return o != nil && o.Verify
}

func (o *Options) benchmark() bool {
	return o != nil && o.Benchmark
}
