// SPDX-License-Identifier: MIT

package lzo

// decompressFastCore is the unchecked counterpart to decompressSafeCore: the
// same state machine with no input/output/back-reference bounds checks. It
// trusts the caller that src is a well-formed LZO1X stream whose
// decompressed form fits exactly in dst (the driver's in-memory verify pass
// satisfies this by construction, decoding a container it just produced).
// Malformed input causes a slice index panic rather than a structured
// error.
func decompressFastCore(src, dst []byte) {
	var (
		inst      byte
		state     int
		nextState int
		matchLen  int
		matchDist int
		inPos     int
		outPos    int
	)

	inst = src[inPos]
	inPos++

	switch {
	case inst >= 22:
		n := int(inst) - 17
		copy(dst[outPos:outPos+n], src[inPos:inPos+n])
		inPos += n
		outPos += n
		state = 4

	case inst >= 18:
		nextState = int(inst - 17)
		n := nextState
		copy(dst[outPos:outPos+n], src[inPos:inPos+n])
		inPos += n
		outPos += n
		state = nextState
	}

	for {
		if inPos > 1 || state > 0 {
			inst = src[inPos]
			inPos++
		}

		switch {
		case inst >= markerM2:
			b := src[inPos]
			inPos++

			matchDist = (int(b) << 3) + ((int(inst) >> 2) & 0x7) + 1
			matchLen = (int(inst) >> 5) + 1
			nextState = int(inst & 0x03)

		case inst >= markerM3:
			matchLen = int(inst&0x1f) + 2
			if matchLen == 2 {
				ext := 0
				for src[inPos] == 0 {
					ext++
					inPos++
				}
				tail := src[inPos]
				inPos++
				matchLen += ext*255 + 31 + int(tail)
			}

			v16 := loadLE16(src[inPos:])
			inPos += 2

			matchDist = (int(v16) >> 2) + 1
			nextState = int(v16 & 0x03)

		case inst >= markerM4:
			matchLen = int(inst&0x7) + 2
			if matchLen == 2 {
				ext := 0
				for src[inPos] == 0 {
					ext++
					inPos++
				}
				tail := src[inPos]
				inPos++
				matchLen += ext*255 + 7 + int(tail)
			}

			v16 := loadLE16(src[inPos:])
			inPos += 2

			baseDist := ((int(inst) & 0x8) << 11) + (int(v16) >> 2)
			if baseDist == 0 {
				return
			}

			matchDist = baseDist + 0x4000
			nextState = int(v16 & 0x03)

		default:
			if state == 0 {
				runLen := int(inst) + 3
				if runLen == 3 {
					ext := 0
					for src[inPos] == 0 {
						ext++
						inPos++
					}
					tail := src[inPos]
					inPos++
					runLen += ext*255 + 15 + int(tail)
				}

				copy(dst[outPos:outPos+runLen], src[inPos:inPos+runLen])
				inPos += runLen
				outPos += runLen

				state = 4
				continue
			}

			tail := src[inPos]
			inPos++

			nextState = int(inst & 0x03)
			switch {
			case state != 4:
				matchDist = (int(inst) >> 2) + (int(tail) << 2) + 1
				matchLen = 2

			default:
				matchDist = shortMatchBaseOffset + 1 + (int(inst) >> 2) + (int(tail) << 2)
				matchLen = 3
			}
		}

		copyBackRefFast(dst, outPos, matchDist, matchLen)

		outPos += matchLen
		if nextState > 0 {
			copy(dst[outPos:outPos+nextState], src[inPos:inPos+nextState])
			inPos += nextState
			outPos += nextState
		}

		state = nextState
	}
}
