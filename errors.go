// SPDX-License-Identifier: MIT

package lzo

import "errors"

// Sentinel errors for the LZO1X codec. Names follow the error taxonomy of
// the block-level decode state machine; callers match them with errors.Is.
var (
	// ErrEmptyInput is returned when the input slice or stream is empty.
	ErrEmptyInput = errors.New("lzo: empty input")
	// ErrInputOverrun is returned when the decoder reads past the end of input.
	ErrInputOverrun = errors.New("lzo: input overrun")
	// ErrOutputOverrun is returned when the decoder would write past the output buffer.
	ErrOutputOverrun = errors.New("lzo: output overrun")
	// ErrLookbehindOverrun is returned when a back-reference points before the start of the output.
	ErrLookbehindOverrun = errors.New("lzo: lookbehind overrun")
	// ErrInputNotConsumed is returned when the input ends right after a literal run, without a
	// terminator. Bytes after the terminator are not an error.
	ErrInputNotConsumed = errors.New("lzo: input not consumed")
	// ErrOptionsRequired is returned when Decompress is called with nil options (OutLen is required).
	ErrOptionsRequired = errors.New("lzo: options required: OutLen must be set")
	// ErrInputTooLarge is returned when DecompressFromReader reads more than MaxInputSize bytes.
	ErrInputTooLarge = errors.New("lzo: input exceeds size limit")
)
