package lzo

import (
	"bytes"
	"testing"
)

func TestScratch_ReuseAcrossBlocksMatchesOneShot(t *testing.T) {
	blocks := [][]byte{
		bytes.Repeat([]byte("scratch-block-one"), 500),
		bytes.Repeat([]byte{0x00}, 4096),
		[]byte("short"),
		bytes.Repeat([]byte("scratch-block-one"), 500), // repeats block 0's content in a fresh dictionary
	}

	s := NewScratch(LabelK)
	for _, b := range blocks {
		got := s.Compress(b)
		want := Compress(b, &CompressOptions{Label: LabelK})
		if !bytes.Equal(got, want) {
			t.Fatalf("scratch reuse diverged from one-shot Compress for block %q", b)
		}

		out, err := Decompress(got, DefaultDecompressOptions(len(b)))
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(out, b) {
			t.Fatalf("round-trip mismatch for block %q", b)
		}
	}
}
