package mathx

import "testing"

func TestFloorDivMod(t *testing.T) {
	cases := []struct{ a, b, q, m int }{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.q {
			t.Fatalf("FloorDiv(%d,%d)=%d want %d", c.a, c.b, got, c.q)
		}
		if got := Mod(c.a, c.b); got != c.m {
			t.Fatalf("Mod(%d,%d)=%d want %d", c.a, c.b, got, c.m)
		}
	}
}

func TestFrac(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1.75, 0.75},
		{-0.25, 0.75},
		{3, 0},
	}
	for _, c := range cases {
		if got := Frac(c.in); got != c.want {
			t.Fatalf("Frac(%v)=%v want %v", c.in, got, c.want)
		}
	}
}
