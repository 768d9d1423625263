// SPDX-License-Identifier: MIT

package lzo

import "io"

// Decompress decompresses LZO1X data from src into a buffer of length opts.OutLen,
// using the safe (bounds-checked) decoder. Returns ErrOptionsRequired if opts is nil;
// ErrEmptyInput if src is empty. On success returns the decompressed slice (length may
// be less than OutLen if the stream ended with the terminator before OutLen bytes were
// written).
func Decompress(src []byte, opts *DecompressOptions) ([]byte, error) {
	out, _, err := DecompressN(src, opts)
	return out, err
}

// DecompressN decompresses LZO1X data from src using the safe decoder and returns the
// decoded slice, the number of input bytes consumed (nRead), and an error.
// nRead is 0 on error. Use this when advancing a stream (e.g. back-to-back compressed
// blocks) or to check that a caller-known-length slice was consumed exactly.
func DecompressN(src []byte, opts *DecompressOptions) ([]byte, int, error) {
	if opts == nil {
		return nil, 0, ErrOptionsRequired
	}
	if len(src) == 0 {
		return nil, 0, ErrEmptyInput
	}
	if opts.OutLen < 0 {
		return nil, 0, ErrOptionsRequired
	}

	dst := make([]byte, opts.OutLen)
	outWritten, inConsumed, err := decompressSafeCore(src, dst)
	if err != nil {
		return nil, 0, err
	}

	return dst[:outWritten], inConsumed, nil
}

// DecompressInto decompresses src into dst using the safe decoder and
// returns the number of input bytes consumed. Unlike Decompress/DecompressN
// it never allocates the destination itself: callers that already own a
// region to decode into — the block-parallel driver decoding directly into
// disjoint slices of one preallocated output buffer — should use this
// instead of paying for a fresh allocation per block.
func DecompressInto(src, dst []byte) (inConsumed int, err error) {
	if len(src) == 0 {
		return 0, ErrEmptyInput
	}

	_, inConsumed, err = decompressSafeCore(src, dst)
	return inConsumed, err
}

// DecompressFromReader reads the full stream then calls Decompress. No decoding logic of its own.
// If opts.MaxInputSize > 0 and more bytes are read, returns ErrInputTooLarge.
func DecompressFromReader(r io.Reader, opts *DecompressOptions) ([]byte, error) {
	if opts == nil {
		return nil, ErrOptionsRequired
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if opts.MaxInputSize > 0 && len(src) > opts.MaxInputSize {
		return nil, ErrInputTooLarge
	}

	return Decompress(src, opts)
}

// DecompressFast decompresses LZO1X data from src into a buffer of length outLen using
// the unchecked decoder: it performs no bounds checks on input reads, output writes, or
// back-references, and will panic (index out of range) rather than return a structured
// error on malformed input. Only use it on input this process itself produced — an
// in-memory verify pass right after compressing, or the accelerator path reading back a
// buffer it just wrote. Never call it on bytes that arrived over the network, from a
// file, or from any other source this process does not already trust.
func DecompressFast(src []byte, outLen int) []byte {
	dst := make([]byte, outLen)
	decompressFastCore(src, dst)
	return dst
}

// DecompressFastInto is the unchecked counterpart to DecompressInto: it
// decodes src directly into the caller-supplied dst with no bounds
// checking, for the same already-trusted-input cases DecompressFast is for
// (the block-parallel driver's verify pass, decoding blocks it just
// produced directly into disjoint slices of one buffer rather than
// allocating a fresh one per block).
func DecompressFastInto(src, dst []byte) {
	decompressFastCore(src, dst)
}
