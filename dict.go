// SPDX-License-Identifier: MIT

package lzo

// Label identifies one of the four LZO1X-1 compressor variants. The variants
// differ only in dictionary hash width (D_BITS); all produce LZO1X streams
// decodable by the single decompressor in this package. The label is never
// recorded in the compressed output.
type Label byte

const (
	LabelX Label = iota // D_BITS = 14, the standard variant
	LabelK              // D_BITS = 12
	LabelL              // D_BITS = 11
	LabelO              // D_BITS = 15
)

// DBits returns the dictionary hash width for the variant.
func (l Label) DBits() int {
	switch l {
	case LabelK:
		return 12
	case LabelL:
		return 11
	case LabelO:
		return 15
	default:
		return 14
	}
}

// String returns the single-letter variant name used throughout the CLI and
// container tooling (it is never written to the container itself).
func (l Label) String() string {
	switch l {
	case LabelK:
		return "K"
	case LabelL:
		return "L"
	case LabelO:
		return "O"
	default:
		return "X"
	}
}

// ParseLabel parses a single-letter variant name ("X", "K", "L", "O",
// case-insensitive), as used for the configured default label.
func ParseLabel(s string) (Label, bool) {
	switch s {
	case "X", "x":
		return LabelX, true
	case "K", "k":
		return LabelK, true
	case "L", "l":
		return LabelL, true
	case "O", "o":
		return LabelO, true
	default:
		return LabelX, false
	}
}

// LevelToLabel maps a numeric CPU compression level to a variant label, per
// the CPU driver's level-to-label table: 1→L, 2→K, 3 and any other value
// (including 0, the default)→X, 4→O.
func LevelToLabel(level int) Label {
	switch level {
	case 1:
		return LabelL
	case 2:
		return LabelK
	case 4:
		return LabelO
	default:
		return LabelX
	}
}

// dictionary is the fixed-size hash table mapping a 3-or-4-byte prefix hash
// to a back-reference position within the current block. Entries are
// 1-based input offsets (0 means "no entry yet"), so the zero value of the
// table is immediately usable without a separate "empty" sentinel.
//
// index uses the reference LZO1X-1 "fast" two-attempt scheme: probe a
// primary slot derived from a 4-byte multiplicative hash, and on a miss
// re-probe a second slot folded from the top half of the table XORed with a
// fixed pattern. This doubles the hit rate for a single extra table lookup
// and is the standard behaviour for this compressor family, not a tuning
// knob (see DESIGN.md).
type dictionary struct {
	bits  uint
	mask  int32
	high  int32
	table []int32
}

func newDictionary(label Label) *dictionary {
	bits := uint(label.DBits())
	mask := int32(1<<bits) - 1
	return &dictionary{
		bits:  bits,
		mask:  mask,
		high:  (mask >> 1) + 1,
		table: make([]int32, 1<<bits),
	}
}

// reset clears all entries before encoding a new block.
func (d *dictionary) reset() {
	clear(d.table)
}

// primaryIndex hashes a 4-byte little-endian word drawn from a 4-byte key
// (in[p], in[p+1], in[p+2], in[p+3] folded MSB-first) into the primary slot.
func (d *dictionary) primaryIndex(key int32) int32 {
	return (0x21 * key) >> 5 & d.mask
}

// secondaryIndex re-probes the dictionary after a primary miss.
func (d *dictionary) secondaryIndex(idx int32) int32 {
	return (idx & (d.mask & 0x7ff)) ^ (d.high | 0x1f)
}
