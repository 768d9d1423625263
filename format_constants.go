// SPDX-License-Identifier: MIT

package lzo

// LZO1X format constants: M1/M2/M3/M4 offset and length bounds.

// Match offset bounds (max distance for each match type).
const (
	maxOffsetM1 = 0x0400
	maxOffsetM2 = 0x0800
	maxOffsetM3 = 0x4000
	maxOffsetM4 = 0xbfff // M4_MAX_OFFSET: 49151, the LZO1X window horizon
	maxOffsetMX = maxOffsetM1 + maxOffsetM2
)

// Match length bounds per type.
const (
	minLenM2 = 3
	maxLenM2 = 8
	maxLenM3 = 33
	maxLenM4 = 9
)

// Instruction byte markers for match types.
const (
	markerM1 = 0
	markerM2 = 64
	markerM3 = 32
	markerM4 = 16
)

// windowSize is the LZO1X match-offset horizon shared by all four dictionary
// variants: no back-reference can address further back than this, regardless
// of D_BITS.
const windowSize = maxOffsetM4 + 1
