// SPDX-License-Identifier: MIT

/*
Package lzo implements the LZO1X-1 block codec: the compressor inner loop
(dictionary hash, match search, LZO1X token emission) and the matching
decompressor state machine, in four dictionary-width variants.

# Variants

A [Label] selects the dictionary hash width (D_BITS) used by the
compressor. All four variants emit LZO1X-compatible bitstreams decodable
by the single decompressor in this package; the variant is not recorded
in the compressed bytes.

# Compress

	out := lzo.Compress(data, &lzo.CompressOptions{Label: lzo.LabelX})

# Decompress

OutLen is required (the decompressed size must be known ahead of time,
e.g. from a container header):

	out, err := lzo.Decompress(compressed, lzo.DefaultDecompressOptions(expectedLen))

[DecompressFast] and [DecompressFastInto] skip all bounds checks and are
only safe on input the caller already trusts: the block-parallel driver's
in-memory verify pass decodes its own just-produced container with
[DecompressFastInto] instead of the safe decoder used for every untrusted
input.

This package has no notion of files, blocks, or containers — those are
layered on top by the block and driver packages. It compresses and
decompresses single buffers of any length; matches never reach further
back than the LZO1X window (49,151 bytes).
*/
package lzo
