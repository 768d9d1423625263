package accel

import (
	"os"
	"path/filepath"
	"testing"

	lzo "github.com/lzoblock/lzo1x"
)

func TestProgramCache_FallsBackToSoftwareWhenNoFiles(t *testing.T) {
	c := NewProgramCache(t.TempDir())
	p, err := c.Load(lzo.LabelX, KindCompress)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Binary != nil || p.Source != nil {
		t.Fatal("expected software-execution marker with no binary or source")
	}
}

func TestProgramCache_PrefersBinaryOverSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lzo1x_1.bin"), []byte("binary-bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lzo1x_1.cl"), []byte("source-bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	c := NewProgramCache(dir)
	p, err := c.Load(lzo.LabelX, KindCompress)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(p.Binary) != "binary-bytes" {
		t.Fatalf("Binary = %q, want binary-bytes", p.Binary)
	}
}

func TestProgramCache_FallsBackToSourceWhenNoBinary(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lzo1x_1k.cl"), []byte("source-bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	c := NewProgramCache(dir)
	p, err := c.Load(lzo.LabelK, KindCompress)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(p.Source) != "source-bytes" {
		t.Fatalf("Source = %q, want source-bytes", p.Source)
	}
}

func TestProgramCache_CachesByLabelAndKind(t *testing.T) {
	c := NewProgramCache(t.TempDir())

	if _, err := c.Load(lzo.LabelX, KindCompress); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := c.Load(lzo.LabelK, KindCompress); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := c.Load(lzo.LabelX, KindDecompress); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := c.Load(lzo.LabelX, KindCompress); err != nil { // cache hit
		t.Fatalf("Load failed: %v", err)
	}

	if got := c.Loaded(); got != 3 {
		t.Fatalf("Loaded() = %d, want 3 distinct entries", got)
	}
}
