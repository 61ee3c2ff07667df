package util

import "testing"

func TestNewRandIsDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 20; i++ {
		if a.IntN(1000) != b.IntN(1000) {
			t.Fatalf("expected same sequence for same seed at draw %d", i)
		}
		if a.Float64() != b.Float64() {
			t.Fatalf("expected same float sequence for same seed at draw %d", i)
		}
	}
}

func TestPick(t *testing.T) {
	if got := Pick(NewRand(1), nil); got != "" {
		t.Fatalf("expected empty string for empty options, got %q", got)
	}
	if got := Pick(nil, []string{"a", "b"}); got != "a" {
		t.Fatalf("expected first option without rand, got %q", got)
	}
	options := []string{"a", "b", "c"}
	r := NewRand(7)
	for i := 0; i < 50; i++ {
		got := Pick(r, options)
		if got != "a" && got != "b" && got != "c" {
			t.Fatalf("unexpected pick %q", got)
		}
	}
}
