// Package driver orchestrates the block-parallel compress/decompress
// pipeline: plan blocks, dispatch the worker pool, assemble or parse the
// container, and run the optional in-memory verify and benchmark passes.
package driver

import (
	"bytes"
	"fmt"
	"time"

	lzo "github.com/lzoblock/lzo1x"
	"github.com/lzoblock/lzo1x/internal/block"
	"github.com/lzoblock/lzo1x/internal/pool"
)

// Result carries a completed operation's output plus diagnostics.
type Result struct {
	Output []byte

	BlockCount int
	BlockSize  int
	Elapsed    time.Duration

	// Populated only when Options.Benchmark is set.
	BenchmarkSingleBlock time.Duration
	BenchmarkMultiBlock  time.Duration
}

// Compress reads input fully materialised in memory, plans it into blocks,
// compresses each block in parallel, and assembles the container. It never
// fails on the codec's own account (the LZO1X-1 fast parse cannot fail
// given worst-case output capacity, which is always what is allocated);
// the returned error comes only from the container assembly size check or,
// if Options.Verify is set, a mismatched roundtrip.
func Compress(input []byte, opts *Options) (*Result, error) {
	start := time.Now()
	log := opts.logger()
	label := opts.label()
	workers := opts.workers()

	blockSize, ranges := block.Plan(len(input), workers, block.CPUParams)

	outputs := make([][]byte, len(ranges))
	scratches := make([]*lzo.Scratch, workers)
	for i := range scratches {
		scratches[i] = lzo.NewScratch(label)
	}

	if err := pool.Run(workers, len(ranges), func(workerID, i int) error {
		r := ranges[i]
		outputs[i] = scratches[workerID].Compress(input[r.Start:r.End])
		return nil
	}); err != nil {
		log.Error("compress failed", "error", err)
		return nil, fmt.Errorf("driver: compress: %w", err)
	}

	container, err := block.Assemble(uint64(len(input)), blockSize, outputs)
	if err != nil {
		log.Error("compress failed", "error", err)
		return nil, fmt.Errorf("driver: assemble container: %w", err)
	}

	res := &Result{
		Output:     container,
		BlockCount: len(ranges),
		BlockSize:  blockSize,
		Elapsed:    time.Since(start),
	}

	if opts.verify() {
		decoded, err := verifyDecompress(container, workers)
		if err != nil {
			return nil, fmt.Errorf("driver: verify: %w", err)
		}
		if !bytes.Equal(decoded, input) {
			log.Error("verify mismatch", "input_len", len(input), "decoded_len", len(decoded))
			return nil, ErrVerifyMismatch
		}
	}

	if opts.benchmark() {
		res.BenchmarkSingleBlock = timeCompress(input, label, 1)
		res.BenchmarkMultiBlock = timeCompress(input, label, workers)
	}

	log.Info("compress complete",
		"label", label.String(),
		"blocks", res.BlockCount,
		"block_size", res.BlockSize,
		"elapsed", res.Elapsed,
	)

	return res, nil
}

// Decompress parses a container buffer and reconstructs the original bytes
// in parallel, one worker per block, decoding directly into disjoint
// slices of a single preallocated output buffer.
func Decompress(container []byte, opts *Options) (*Result, error) {
	start := time.Now()
	log := opts.logger()
	workers := opts.workers()

	c, err := block.Parse(container)
	if err != nil {
		log.Error("decompress failed", "error", err)
		return nil, fmt.Errorf("driver: parse container: %w", err)
	}

	output := make([]byte, c.OriginalSize)
	blockSize := int(c.BlockSize)
	blockCount := int(c.BlockCount)

	if err := pool.Run(workers, blockCount, func(workerID, i int) error {
		compressed := c.BlockCompressedSlice(i)
		origLen := c.BlockOriginalLen(i)
		dst := output[i*blockSize : i*blockSize+origLen]

		n, err := lzo.DecompressInto(compressed, dst)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if n != len(compressed) {
			return fmt.Errorf("block %d: %w", i, ErrBlockNotConsumed)
		}
		return nil
	}); err != nil {
		log.Error("decompress failed", "error", err)
		return nil, fmt.Errorf("driver: decompress: %w", err)
	}

	res := &Result{
		Output:     output,
		BlockCount: blockCount,
		BlockSize:  blockSize,
		Elapsed:    time.Since(start),
	}

	log.Info("decompress complete",
		"blocks", res.BlockCount,
		"block_size", res.BlockSize,
		"elapsed", res.Elapsed,
	)

	return res, nil
}

// verifyDecompress reconstructs a container this process just produced,
// using the unchecked fast decoder: a container Compress itself assembled
// the instant before is trusted input, unlike a container arriving from a
// file or socket, so the verify pass does not pay for bounds checks it
// does not need.
func verifyDecompress(container []byte, workers int) ([]byte, error) {
	c, err := block.Parse(container)
	if err != nil {
		return nil, fmt.Errorf("parse container: %w", err)
	}

	output := make([]byte, c.OriginalSize)
	blockSize := int(c.BlockSize)
	blockCount := int(c.BlockCount)

	if err := pool.Run(workers, blockCount, func(_, i int) error {
		compressed := c.BlockCompressedSlice(i)
		origLen := c.BlockOriginalLen(i)
		dst := output[i*blockSize : i*blockSize+origLen]
		lzo.DecompressFastInto(compressed, dst)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	return output, nil
}

// timeCompress runs one extra timed compress pass at the given worker
// count, discarding its output; used only for the --benchmark report.
func timeCompress(input []byte, label lzo.Label, workers int) time.Duration {
	start := time.Now()
	_, _ = Compress(input, &Options{Label: label, Workers: workers})
	return time.Since(start)
}
