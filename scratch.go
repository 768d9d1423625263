// SPDX-License-Identifier: MIT

package lzo

// Scratch is a reusable compressor workspace holding one dictionary for one
// variant. A caller that compresses many blocks back-to-back (the
// block-parallel worker pool, one Scratch per worker) should create one
// Scratch and reuse it across blocks instead of allocating a fresh
// dictionary for every block; compressBlockWithDict already resets the
// table before each use.
type Scratch struct {
	dict *dictionary
}

// NewScratch allocates a dictionary for the given variant.
func NewScratch(label Label) *Scratch {
	return &Scratch{dict: newDictionary(label)}
}

// Compress encodes in using this scratch's dictionary, appending the EOF
// marker. The dictionary is reset internally before the parse, so the same
// Scratch can be reused for any number of independent blocks.
func (s *Scratch) Compress(in []byte) []byte {
	return compressBlockWithDict(in, s.dict)
}
