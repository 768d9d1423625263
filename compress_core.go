// SPDX-License-Identifier: MIT

package lzo

// compressBlock is the fast LZO1X-1 compressor for one variant. It is
// equivalent to compressBlockWithDict(in, newDictionary(label)) but is used
// by callers (tests, one-shot Compress) that do not reuse a dictionary
// across blocks.
func compressBlock(in []byte, label Label) []byte {
	return compressBlockWithDict(in, newDictionary(label))
}

// compressBlockWithDict runs the fast LZO1X-1 parse using a caller-owned
// dictionary, which it resets before the parse. The block-parallel driver
// holds one Scratch (one *dictionary) per worker so the table allocation is
// amortised across the whole operation.
//
// Inner loop (see SPEC_FULL.md §4.3): scan the input with an adaptive skip
// on literal runs, probe the dictionary at each position, and on a 4-byte
// match emit the pending literal run followed by the shortest M2/M3/M4
// token that represents it. The scan stops at the 20-byte safety tail; this
// function then appends the remaining literals and the EOF marker.
func compressBlockWithDict(in []byte, dict *dictionary) []byte {
	dict.reset()

	var literalTailSize int
	inLen := len(in)

	var out []byte
	if inLen <= maxLenM2+5 {
		literalTailSize = inLen
	} else {
		out, literalTailSize = compressCore(in, dict)
	}

	if literalTailSize > 0 {
		ii := inLen - literalTailSize
		out = appendLiteralRun(out, in[ii:ii+literalTailSize])
	}

	out = append(out, markerM4|1, 0, 0)
	return out
}

// compressCore performs the fast LZO1X-1 parse and returns the pending
// literal tail (bytes from the last emitted token to the end of input that
// have not yet been appended to out).
func compressCore(in []byte, dict *dictionary) (out []byte, literalTailSize int) {
	inputLen := len(in)
	inputLimit := inputLen - 20
	literalStart := 0
	inputPos := 4

	for {
		// Hash the next 4-byte sequence into the dictionary.
		key := int32(in[inputPos+3])
		key = (key << 6) ^ int32(in[inputPos+2])
		key = (key << 5) ^ int32(in[inputPos+1])
		key = (key << 5) ^ int32(in[inputPos+0])
		dictIndex := dict.primaryIndex(key)

		matched := false

		// Probe two related hash slots to improve hit rate without extra structures.
		for attempt := range 2 {
			matchPos, matchOffset := findCandidate(dict, in, inputPos, int(dictIndex))
			tryMatch := matchPos >= 0 && (matchOffset <= maxOffsetM2 || in[matchPos+3] == in[inputPos+3])

			if tryMatch &&
				in[matchPos] == in[inputPos] &&
				in[matchPos+1] == in[inputPos+1] &&
				in[matchPos+2] == in[inputPos+2] {
				dict.table[dictIndex] = int32(inputPos + 1)

				if inputPos != literalStart {
					out = appendLiteralRun(out, in[literalStart:inputPos])
					literalStart = inputPos
				}

				var i int
				inputPos += 3

				// Fast short extension for the first bytes; this is the hot path.
				for i = 3; i < 9; i++ {
					inputPos++

					if in[matchPos+i] != in[inputPos-1] {
						break
					}
				}

				if i < 9 {
					inputPos--
					matchLen := inputPos - literalStart

					switch { // Pick the shortest opcode class that can represent this match.
					case matchOffset <= maxOffsetM2:
						matchOffset--
						out = append(out,
							opcodeByte(((matchLen-1)<<5)|((matchOffset&7)<<2)),
							opcodeByte(matchOffset>>3),
						)

					case matchOffset <= maxOffsetM3:
						matchOffset--
						out = append(out,
							opcodeByte(markerM3|(matchLen-2)),
							opcodeByte((matchOffset&63)<<2),
							opcodeByte(matchOffset>>6),
						)

					default:
						matchOffset -= 0x4000
						out = append(out,
							opcodeByte(markerM4|((matchOffset&0x4000)>>11)|(matchLen-2)),
							opcodeByte((matchOffset&63)<<2),
							opcodeByte(matchOffset>>6),
						)
					}
				} else {
					// Slow path for long matches beyond the initial short extension window.
					m := matchPos + maxLenM2 + 1
					for inputPos < inputLen && in[m] == in[inputPos] {
						m++
						inputPos++
					}

					matchLen := inputPos - literalStart
					if matchOffset <= maxOffsetM3 {
						matchOffset--
						if matchLen <= 33 {
							out = append(out, opcodeByte(markerM3|(matchLen-2)))
						} else {
							matchLen -= 33
							out = append(out, opcodeByte(markerM3))
							out = appendMultiple(out, matchLen)
						}
					} else {
						matchOffset -= 0x4000
						if matchLen <= maxLenM4 {
							out = append(out, opcodeByte(markerM4|((matchOffset&0x4000)>>11)|(matchLen-2)))
						} else {
							matchLen -= maxLenM4
							out = append(out, opcodeByte(markerM4|((matchOffset&0x4000)>>11)))
							out = appendMultiple(out, matchLen)
						}
					}
					out = append(out, opcodeByte((matchOffset&63)<<2), opcodeByte(matchOffset>>6))
				}

				// Next literal run, if any, starts after the emitted match.
				literalStart = inputPos
				matched = true
				break
			}

			if attempt == 0 {
				dictIndex = dict.secondaryIndex(dictIndex)
			}
		}

		if matched {
			if inputPos >= inputLimit {
				break
			}

			continue
		}

		// Literal step with adaptive skip: the step grows the longer a run of
		// misses continues, trading match opportunities for scan speed on
		// incompressible data. The divisor (5 bits) is a tuned constant, not
		// an invariant — see SPEC_FULL.md §4 Open Questions.
		dict.table[dictIndex] = int32(inputPos + 1)
		inputPos += 1 + (inputPos-literalStart)>>5
		if inputPos >= inputLimit {
			break
		}
	}

	literalTailSize = inputLen - literalStart
	return
}

// findCandidate returns (matchPos, matchOffset) for the given dict slot, or (-1, 0) if none.
func findCandidate(dict *dictionary, in []byte, inputPos, dictIndex int) (matchPos int, matchOffset int) {
	matchPos = int(dict.table[dictIndex]) - 1
	if matchPos < 0 {
		return -1, 0
	}

	if inputPos == matchPos || (inputPos-matchPos) > maxOffsetM4 {
		return -1, 0
	}

	matchOffset = inputPos - matchPos
	if matchOffset <= maxOffsetM2 || in[matchPos+3] == in[inputPos+3] {
		return matchPos, matchOffset
	}

	return -1, 0
}

// appendLiteralRun appends a literal run and its header encoding.
// lit must be non-empty.
func appendLiteralRun(out []byte, lit []byte) []byte {
	if len(lit) == 0 {
		return out
	}
	literalCount := len(lit)

	switch {
	case len(out) == 0 && literalCount <= 238:
		out = append(out, opcodeByte(17+literalCount))
	case literalCount <= 3:
		out[len(out)-2] |= opcodeByte(literalCount)
	case literalCount <= 18:
		out = append(out, opcodeByte(literalCount-3))
	default:
		out = append(out, 0)
		out = appendMultiple(out, literalCount-18)
	}

	out = append(out, lit...)
	return out
}

// appendMultiple appends a run length greater than 255 as a sequence of
// 0xFF-adding zero bytes followed by the remainder byte.
func appendMultiple(out []byte, t int) []byte {
	for t > 255 {
		out = append(out, 0)
		t -= 255
	}

	out = append(out, opcodeByte(t))
	return out
}
