// SPDX-License-Identifier: MIT

package lzo

// copyBackRefSafe copies length bytes from dst[outputPos-dist:] to
// dst[outputPos:], bounds-checked. When dist < length the source region
// overlaps the destination (the match reaches into bytes not yet written
// when the copy started): LZ semantics require this to behave as a
// byte-at-a-time forward copy, so that earlier writes become visible as
// source bytes for later ones and the run-length pattern repeats. This is
// the canonical form; a block/vectorised copy (e.g. the stdlib copy
// builtin, which is undefined for overlapping src>dst spans used this way)
// would produce the wrong bytes whenever dist < length.
func copyBackRefSafe(dst []byte, outputPos, dist, length int) error {
	mPos := outputPos - dist
	if mPos < 0 {
		return ErrLookbehindOverrun
	}
	if outputPos+length > len(dst) {
		return ErrOutputOverrun
	}

	for k := 0; k < length; k++ {
		dst[outputPos+k] = dst[mPos+k]
	}
	return nil
}

// copyBackRefFast is the unchecked counterpart used by the fast decompressor
// on input the caller already trusts. Same copy semantics, no bounds checks.
func copyBackRefFast(dst []byte, outputPos, dist, length int) {
	mPos := outputPos - dist
	for k := 0; k < length; k++ {
		dst[outputPos+k] = dst[mPos+k]
	}
}
