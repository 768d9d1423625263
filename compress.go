// SPDX-License-Identifier: MIT

package lzo

// Compress compresses src with the LZO1X-1 compressor. opts may be nil
// (uses the default variant, [LabelX]). The returned slice always ends
// with the three-byte M4 EOF marker (0x11 0x00 0x00).
//
// Compress cannot fail: the LZO1X-1 parse never fails given enough output
// capacity, and this function allocates its own output, so it has no
// error return.
func Compress(src []byte, opts *CompressOptions) []byte {
	if opts == nil {
		opts = DefaultCompressOptions()
	}
	return compressBlock(src, opts.Label)
}

// WorstCompressedSize returns the largest number of bytes Compress can
// produce for an input of length n: n + n/16 + 64 + 3. Callers that supply
// their own destination buffer (e.g. the accelerator path's device-side
// regions) must size it to at least this.
func WorstCompressedSize(n int) int {
	return n + n/16 + 64 + 3
}
