package block

import (
	"encoding/binary"
	"fmt"
)

// Magic identifies the container format. Written little-endian, so the
// constant is the on-disk byte pair 0x4C, 0x5A read as a little-endian
// uint16 — the bytes, not the numeric value 0x4C5A, are what the format
// specifies.
const Magic = 0x5A4C

// FixedHeaderSize is the size of the header fields preceding the per-block
// compressed-length table: magic + original_size + block_size + block_count.
const FixedHeaderSize = 2 + 4 + 4 + 4

// MaxOriginalSize is the largest original size the container can describe
// (the u32 field's range, and the specification's 4 GiB input limit).
const MaxOriginalSize = 1<<32 - 1

// HeaderSize returns the full header size (fixed fields plus the
// compressed-length table) for a container with blockCount blocks.
func HeaderSize(blockCount int) int {
	return FixedHeaderSize + 4*blockCount
}

// Container is a parsed view over a decompress-side container buffer: the
// header fields plus slices into the original backing array, so no payload
// bytes are copied during Parse.
type Container struct {
	OriginalSize      uint32
	BlockSize         uint32
	BlockCount        uint32
	CompressedLengths []uint32
	Payload           []byte
}

// Assemble writes the container header followed by the concatenated block
// outputs, in block order. blocks[i] must be the compressed bytes for block
// i; their lengths become the compressed-length table. originalSize and
// blockSize are recorded verbatim (blockSize is the planner's chosen block
// size, not any individual block's length).
func Assemble(originalSize uint64, blockSize int, blocks [][]byte) ([]byte, error) {
	if originalSize > MaxOriginalSize {
		return nil, ErrInputTooLarge
	}

	total := HeaderSize(len(blocks))
	for _, b := range blocks {
		total += len(b)
	}

	out := make([]byte, total)
	binary.LittleEndian.PutUint16(out[0:2], Magic)
	binary.LittleEndian.PutUint32(out[2:6], uint32(originalSize))
	binary.LittleEndian.PutUint32(out[6:10], uint32(blockSize))
	binary.LittleEndian.PutUint32(out[10:14], uint32(len(blocks)))

	lenTable := out[FixedHeaderSize:HeaderSize(len(blocks))]
	payload := out[HeaderSize(len(blocks)):]

	offset := 0
	for i, b := range blocks {
		binary.LittleEndian.PutUint32(lenTable[i*4:i*4+4], uint32(len(b)))
		copy(payload[offset:offset+len(b)], b)
		offset += len(b)
	}

	return out, nil
}

// Parse validates and decodes a container buffer. It rejects files smaller
// than the minimum header, a wrong magic, a truncated length table, and a
// length-table sum that exceeds the payload size. original_size needs no
// check of its own: the u32 field cannot exceed MaxOriginalSize, so Parse
// never returns ErrInputTooLarge (Assemble does).
func Parse(data []byte) (*Container, error) {
	if len(data) < FixedHeaderSize {
		return nil, ErrTruncatedHeader
	}

	magic := binary.LittleEndian.Uint16(data[0:2])
	if magic != Magic {
		return nil, fmt.Errorf("%w: got %#04x", ErrBadMagic, magic)
	}

	c := &Container{
		OriginalSize: binary.LittleEndian.Uint32(data[2:6]),
		BlockSize:    binary.LittleEndian.Uint32(data[6:10]),
		BlockCount:   binary.LittleEndian.Uint32(data[10:14]),
	}

	lenTableEnd := FixedHeaderSize + 4*int(c.BlockCount)
	if lenTableEnd < FixedHeaderSize || len(data) < lenTableEnd {
		return nil, ErrTruncatedLengthTable
	}

	c.CompressedLengths = make([]uint32, c.BlockCount)
	var payloadSize uint64
	for i := range c.CompressedLengths {
		off := FixedHeaderSize + i*4
		l := binary.LittleEndian.Uint32(data[off : off+4])
		c.CompressedLengths[i] = l
		payloadSize += uint64(l)
	}

	if payloadSize > uint64(len(data)-lenTableEnd) {
		return nil, ErrTruncatedPayload
	}

	c.Payload = data[lenTableEnd:]
	return c, nil
}

// BlockCompressedSlice returns the compressed bytes for block i.
func (c *Container) BlockCompressedSlice(i int) []byte {
	var start uint64
	for j := 0; j < i; j++ {
		start += uint64(c.CompressedLengths[j])
	}
	end := start + uint64(c.CompressedLengths[i])
	return c.Payload[start:end]
}

// BlockOriginalLen returns the original (decompressed) length of block i,
// derived from block_size and original_size: every block but the last is
// exactly block_size bytes; the last block holds the remainder.
func (c *Container) BlockOriginalLen(i int) int {
	if uint32(i) == c.BlockCount-1 {
		return int(c.OriginalSize) - int(c.BlockSize)*(int(c.BlockCount)-1)
	}
	return int(c.BlockSize)
}
