package block

import "testing"

func TestPlan_EmptyInput(t *testing.T) {
	b, blocks := Plan(0, 4, CPUParams)
	if b != CPUParams.Min {
		t.Fatalf("blockSize = %d, want %d", b, CPUParams.Min)
	}
	if len(blocks) != 0 {
		t.Fatalf("blocks = %v, want empty", blocks)
	}
}

func TestPlan_SmallerThanMinBlock(t *testing.T) {
	b, blocks := Plan(100, 4, CPUParams)
	if b != 100 {
		t.Fatalf("blockSize = %d, want 100 (input collapses to one block)", b)
	}
	if len(blocks) != 1 {
		t.Fatalf("blocks = %v, want one block", blocks)
	}
	if blocks[0] != (Range{0, 100}) {
		t.Fatalf("blocks[0] = %v, want {0,100}", blocks[0])
	}
}

func TestPlan_ClampsToMaxBlock(t *testing.T) {
	n := 16 * 1024 * 1024
	b, blocks := Plan(n, 1, CPUParams)
	if b != CPUParams.Max {
		t.Fatalf("blockSize = %d, want MAX %d", b, CPUParams.Max)
	}
	assertCoversExactly(t, blocks, n, b)
}

func TestPlan_AlignsToBoundary(t *testing.T) {
	n := 10*1024*1024 + 123
	b, blocks := Plan(n, 7, CPUParams)
	if b%CPUParams.Align != 0 {
		t.Fatalf("blockSize %d not aligned to %d", b, CPUParams.Align)
	}
	assertCoversExactly(t, blocks, n, b)
}

func TestPlan_OutputContract(t *testing.T) {
	sizes := []int{1, 2, 64*1024 - 1, 64 * 1024, 64*1024 + 1, 5 * 1024 * 1024, 100_000_003}
	workers := []int{1, 2, 3, 4, 8, 16}

	for _, n := range sizes {
		for _, w := range workers {
			b, blocks := Plan(n, w, CPUParams)
			assertCoversExactly(t, blocks, n, b)
		}
	}
}

func assertCoversExactly(t *testing.T, blocks []Range, n, maxBlockLen int) {
	t.Helper()

	sum := 0
	for i, r := range blocks {
		if r.Len() <= 0 {
			t.Fatalf("block %d has non-positive length: %v", i, r)
		}
		if r.Len() > maxBlockLen {
			t.Fatalf("block %d length %d exceeds block size %d", i, r.Len(), maxBlockLen)
		}
		if i > 0 && r.Start != blocks[i-1].End {
			t.Fatalf("block %d does not follow block %d contiguously: %v, %v", i, i-1, blocks[i-1], r)
		}
		sum += r.Len()
	}
	if sum != n {
		t.Fatalf("sum of block lengths = %d, want %d", sum, n)
	}
}

func TestPlan_AccelParamsUseSmallerBounds(t *testing.T) {
	n := 10 * 1024 * 1024
	b, blocks := Plan(n, 64, AccelParams)
	if b < AccelParams.Min || b > AccelParams.Max {
		t.Fatalf("blockSize %d out of accel bounds [%d,%d]", b, AccelParams.Min, AccelParams.Max)
	}
	assertCoversExactly(t, blocks, n, b)
}
