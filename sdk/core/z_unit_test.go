package core_test

import (
	"testing"

	"github.com/zintix-labs/puzzlelab/sdk/core"
)

func TestDeterministicSequence(t *testing.T) {
	a := core.NewWithSeed(42)
	b := core.NewWithSeed(42)
	for i := 0; i < 100; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("same seed diverged at step %d", i)
		}
	}
}

func TestIntNBounds(t *testing.T) {
	c := core.NewWithSeed(7)
	if got := c.IntN(0); got != -1 {
		t.Fatalf("IntN(0) = %d, want -1", got)
	}
	if got := c.UintN(0); got != 0 {
		t.Fatalf("UintN(0) = %d, want 0", got)
	}
	for i := 0; i < 1000; i++ {
		if v := c.IntN(13); v < 0 || v >= 13 {
			t.Fatalf("IntN(13) out of range: %d", v)
		}
		if f := c.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
	}
}

func TestShufflePermutes(t *testing.T) {
	c := core.NewWithSeed(99)
	src := []string{"a", "b", "c", "d", "e", "f"}
	c.ShuffleStrings(src)
	seen := map[string]bool{}
	for _, s := range src {
		seen[s] = true
	}
	if len(seen) != 6 {
		t.Fatalf("shuffle lost elements: %v", src)
	}
}

func TestJitterAmplitude(t *testing.T) {
	c := core.NewWithSeed(1)
	for i := 0; i < 100; i++ {
		if j := c.Jitter(5); j < -5 || j > 5 {
			t.Fatalf("jitter out of range: %v", j)
		}
	}
	if c.Jitter(0) != 0 {
		t.Fatal("zero amplitude must yield zero jitter")
	}
}
