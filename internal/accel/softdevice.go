package accel

import (
	"encoding/binary"
	"fmt"

	lzo "github.com/lzoblock/lzo1x"
	"github.com/lzoblock/lzo1x/internal/block"
)

// SoftDevice is an in-process stand-in for the accelerator's device,
// context, and command queue. It implements the same resource lifecycle a
// real OpenCL backend would — a program cache keyed by variant, buffers
// grown in place, one work-item dispatched per block into a worst(B)-sized
// device region, and a length-table readback that compacts results into
// block order — but executes each block with the CPU codec rather than
// enqueuing compiled kernels, since no vendor runtime is available in this
// module (spec.md §1 scopes the real API out).
type SoftDevice struct {
	Programs *ProgramCache
	buffers  *BufferCache

	lastArgsKey string
}

// NewSoftDevice creates a device that looks for kernel files under
// kernelDir (see ProgramCache) and falls back to software execution when
// none are found.
func NewSoftDevice(kernelDir string) *SoftDevice {
	return &SoftDevice{Programs: NewProgramCache(kernelDir), buffers: NewBufferCache()}
}

// bindArgs skips rebinding device kernel arguments when the (kernel,
// buffers, sizes) tuple is identical to the previous dispatch. This is a
// pure optimisation recorded to mirror spec.md §4.9's "kernel argument
// caching"; it has no effect on SoftDevice's correctness since there are
// no real device-side arguments to bind.
func (d *SoftDevice) bindArgs(op string, label lzo.Label) bool {
	key := fmt.Sprintf("%s:%s", op, label)
	skip := key == d.lastArgsKey
	d.lastArgsKey = key
	return skip
}

// DispatchCompress runs the compress program for label across ranges,
// writing each block's output into a worst(blockSize)-sized slot of a
// device output buffer, then reads back the produced lengths and compacts
// them into one compressed slice per block, in block order.
func (d *SoftDevice) DispatchCompress(label lzo.Label, input []byte, blockSize int, ranges []block.Range) ([][]byte, error) {
	if _, err := d.Programs.Load(label, KindCompress); err != nil {
		return nil, fmt.Errorf("accel: load compress program: %w", err)
	}
	d.bindArgs("compress", label)

	worst := lzo.WorstCompressedSize(blockSize)
	region := d.buffers.Get("compress-output", worst*len(ranges))
	lengths := d.buffers.Get("compress-lengths", len(ranges)*4)

	scratch := lzo.NewScratch(label)
	for i, r := range ranges {
		out := scratch.Compress(input[r.Start:r.End])
		offset := i * worst
		copy(region[offset:offset+len(out)], out)
		binary.LittleEndian.PutUint32(lengths[i*4:i*4+4], uint32(len(out)))
	}

	results := make([][]byte, len(ranges))
	for i := range ranges {
		length := binary.LittleEndian.Uint32(lengths[i*4 : i*4+4])
		offset := i * worst
		results[i] = append([]byte(nil), region[offset:offset+int(length)]...)
	}

	return results, nil
}

// DispatchDecompress runs the decompress program over every block
// described by c, decoding directly into disjoint slices of one device
// output buffer sized to the container's original_size.
func (d *SoftDevice) DispatchDecompress(c *block.Container) ([]byte, error) {
	if _, err := d.Programs.Load(lzo.LabelX, KindDecompress); err != nil {
		return nil, fmt.Errorf("accel: load decompress program: %w", err)
	}
	d.bindArgs("decompress", lzo.LabelX)

	output := d.buffers.Get("decompress-output", int(c.OriginalSize))
	blockSize := int(c.BlockSize)

	for i := 0; i < int(c.BlockCount); i++ {
		compressed := c.BlockCompressedSlice(i)
		origLen := c.BlockOriginalLen(i)
		dst := output[i*blockSize : i*blockSize+origLen]

		n, err := lzo.DecompressInto(compressed, dst)
		if err != nil {
			return nil, fmt.Errorf("accel: block %d: %w", i, err)
		}
		if n != len(compressed) {
			return nil, fmt.Errorf("accel: block %d: input not fully consumed", i)
		}
	}

	return append([]byte(nil), output...), nil
}
