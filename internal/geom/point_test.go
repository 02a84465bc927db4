package geom

import (
	"math"
	"testing"
)

func TestDistanceTo(t *testing.T) {
	cases := []struct {
		a, b Point
		want float64
	}{
		{Pt(0, 0), Pt(0, 0), 0},
		{Pt(0, 0), Pt(3, 4), 5},
		{Pt(-1, -1), Pt(2, 3), 5},
		{Pt(1, 1), Pt(1, 9), 8},
	}
	for _, c := range cases {
		if got := c.a.DistanceTo(c.b); got != c.want {
			t.Errorf("DistanceTo(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
		if got := c.b.DistanceTo(c.a); got != c.want {
			t.Errorf("DistanceTo(%v, %v) = %v, want %v", c.b, c.a, got, c.want)
		}
	}
}

func TestLerp(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 20)
	if got := Lerp(a, b, 0); !got.Equal(a) {
		t.Errorf("Lerp(..., 0) = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 1); !got.Equal(b) {
		t.Errorf("Lerp(..., 1) = %v, want %v", got, b)
	}
	mid := Lerp(a, b, 0.5)
	if math.Abs(mid.X-5) > 1e-12 || math.Abs(mid.Y-10) > 1e-12 {
		t.Errorf("Lerp(..., 0.5) = %v, want (5,10)", mid)
	}
}
