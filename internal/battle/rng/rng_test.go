package rng

import "testing"

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 1000; i++ {
		var va, vb int
		va, a = a.NextInt(97)
		vb, b = b.NextInt(97)
		if va != vb {
			t.Fatalf("draw %d: %d != %d", i, va, vb)
		}
	}
	if a != b {
		t.Fatalf("sources diverged: %v != %v", a, b)
	}
}

func TestNextIntBounds(t *testing.T) {
	src := New(7)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		var v int
		v, src = src.NextInt(6)
		if v < 0 || v >= 6 {
			t.Fatalf("value %d out of [0, 6)", v)
		}
		seen[v] = true
	}
	if len(seen) != 6 {
		t.Fatalf("saw %d distinct values, want 6", len(seen))
	}
}

func TestNextIntNonPositiveBound(t *testing.T) {
	src := New(1)
	v, next := src.NextInt(0)
	if v != 0 {
		t.Fatalf("value = %d, want 0", v)
	}
	if next != src {
		t.Fatal("non-positive bound consumed state")
	}
}

func TestZeroSeedIsUsable(t *testing.T) {
	src := New(0)
	if src.State == 0 {
		t.Fatal("zero seed left zero state")
	}
	_, next := src.NextInt(10)
	if next.State == 0 {
		t.Fatal("generator collapsed to zero")
	}
}

func TestChanceCertainOutcomes(t *testing.T) {
	src := New(3)
	ok, next := src.Chance(100)
	if !ok || next != src {
		t.Fatalf("Chance(100) = %v, consumed = %v", ok, next != src)
	}
	ok, next = src.Chance(0)
	if ok || next != src {
		t.Fatalf("Chance(0) = %v, consumed = %v", ok, next != src)
	}
}

func TestChanceConsumesOneDraw(t *testing.T) {
	src := New(11)
	_, afterChance := src.Chance(50)
	_, afterInt := src.NextInt(100)
	if afterChance != afterInt {
		t.Fatal("Chance should consume exactly one NextInt(100) draw")
	}
}

func TestKnownSequence(t *testing.T) {
	src := New(42)
	want := []int{119, 283, 768, 243, 847}
	for i, w := range want {
		var v int
		v, src = src.NextInt(1000)
		if v != w {
			t.Fatalf("draw %d = %d, want %d", i, v, w)
		}
	}
	if src.State != 6045135835962859838 {
		t.Fatalf("state = %d, want 6045135835962859838", src.State)
	}
}
