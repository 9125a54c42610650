package geom

import "testing"

func TestBoundsAndCenter(t *testing.T) {
	pts := []Point{{1, 2}, {5, 8}, {3, 4}}
	r := Bounds(pts)
	if r.Left != 1 || r.Top != 2 || r.Right != 5 || r.Bottom != 8 {
		t.Fatalf("unexpected bounds: %+v", r)
	}
	if r.Width() != 4 || r.Height() != 6 {
		t.Fatalf("unexpected extent: %v x %v", r.Width(), r.Height())
	}
	c := r.Center()
	if c.X != 3 || c.Y != 5 {
		t.Fatalf("unexpected center: %+v", c)
	}
}

func TestTranslationRestoresCenter(t *testing.T) {
	orig := []Point{{0, 0}, {4, 4}}
	moved := Translate(Scale(orig, 2), 10, -3)
	dx, dy := Translation(orig, moved)
	back := Translate(moved, dx, dy)
	c := Bounds(back).Center()
	want := Bounds(orig).Center()
	if c.X != want.X || c.Y != want.Y {
		t.Fatalf("center not restored: got %+v want %+v", c, want)
	}
}

func TestScaleAboutOrigin(t *testing.T) {
	pts := Scale([]Point{{2, 3}}, 1.5)
	if pts[0].X != 3 || pts[0].Y != 4.5 {
		t.Fatalf("unexpected scaled point: %+v", pts[0])
	}
}

func TestRectScaled(t *testing.T) {
	r := Rect{Left: 2, Top: 2, Right: 4, Bottom: 6}.Scaled(0.5)
	if r.Left != 1 || r.Top != 1 || r.Right != 2 || r.Bottom != 3 {
		t.Fatalf("unexpected scaled rect: %+v", r)
	}
}

func TestDist(t *testing.T) {
	if d := Dist(Point{0, 0}, Point{3, 4}); d != 5 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.004:   1.0,
		2.125:   2.13,
		-2.3451: -2.35,
		14.4:    14.4,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
