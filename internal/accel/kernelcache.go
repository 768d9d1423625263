// Package accel implements the accelerator path's resource-lifecycle
// concerns — program cache, buffer cache, block dispatch — behind an
// abstracted device handle. The accelerator vendor's runtime API itself is
// out of scope (spec.md §1): SoftDevice stands in for a real OpenCL
// context by executing each block with the CPU codec directly, while still
// going through the same cache-keyed-by-variant, grow-in-place-buffer, and
// one-work-item-per-block dispatch shape a hardware backend would use.
package accel

import (
	"os"
	"path/filepath"

	lzo "github.com/lzoblock/lzo1x"
)

// Kind distinguishes a compress kernel from the decompress kernel.
type Kind int

const (
	KindCompress Kind = iota
	KindDecompress
)

// Program is a loaded program for one (label, kind) pair. Binary is set
// when a precompiled kernel binary was found; Source when only a kernel
// source file was found; both nil when neither exists on disk, in which
// case the device falls back to running the block in software (there is
// no vendor compiler or runtime available to produce a binary from Source
// in this module).
type Program struct {
	Label  lzo.Label
	Kind   Kind
	Binary []byte
	Source []byte
}

type cacheKey struct {
	label lzo.Label
	kind  Kind
}

// kernelName returns the on-disk base name for a (label, kind) pair, per
// spec.md §6 "Kernel-binary on-disk names": lzo1x_1[k|l|o].bin for
// compress, lzo1x_decomp.bin for decompress, with matching .cl fallbacks.
func kernelName(label lzo.Label, kind Kind) string {
	if kind == KindDecompress {
		return "lzo1x_decomp"
	}
	switch label {
	case lzo.LabelK:
		return "lzo1x_1k"
	case lzo.LabelL:
		return "lzo1x_1l"
	case lzo.LabelO:
		return "lzo1x_1o"
	default:
		return "lzo1x_1"
	}
}

// ProgramCache loads and retains programs keyed by (label, kind) for the
// lifetime of the process (daemon) or driver instance (in-process). Load
// order: a precompiled binary file matching the variant name, then a
// source file fallback, then a software-execution marker.
type ProgramCache struct {
	dir     string
	entries map[cacheKey]*Program
}

// NewProgramCache creates a cache that looks for kernel files under dir.
// An empty dir skips the file lookup entirely and always falls back to
// software execution.
func NewProgramCache(dir string) *ProgramCache {
	return &ProgramCache{dir: dir, entries: make(map[cacheKey]*Program)}
}

// Load returns the cached program for (label, kind), loading it from disk
// on first use.
func (c *ProgramCache) Load(label lzo.Label, kind Kind) (*Program, error) {
	key := cacheKey{label, kind}
	if p, ok := c.entries[key]; ok {
		return p, nil
	}

	name := kernelName(label, kind)
	if c.dir != "" {
		if data, err := os.ReadFile(filepath.Join(c.dir, name+".bin")); err == nil {
			p := &Program{Label: label, Kind: kind, Binary: data}
			c.entries[key] = p
			return p, nil
		}

		if data, err := os.ReadFile(filepath.Join(c.dir, name+".cl")); err == nil {
			p := &Program{Label: label, Kind: kind, Source: data}
			c.entries[key] = p
			return p, nil
		}
	}

	p := &Program{Label: label, Kind: kind}
	c.entries[key] = p
	return p, nil
}

// Loaded reports how many distinct (label, kind) programs have been
// loaded so far.
func (c *ProgramCache) Loaded() int {
	return len(c.entries)
}
