package viewport

import (
	"math"
	"testing"

	"github.com/example/papers/internal/geom"
)

func TestRoundTrip(t *testing.T) {
	for _, v := range []Viewport{
		{Scale: 1},
		{Scale: 2.5, TranslateX: 40, TranslateY: -13},
		{Scale: 0.05, TranslateX: -1000, TranslateY: 7.25},
	} {
		for _, x := range []float64{-500, 0, 3.3, 812} {
			got := v.ToTrueX(v.ToScreenX(v.ToTrueX(x)))
			if math.Abs(got-v.ToTrueX(x)) > 1e-9 {
				t.Fatalf("%+v: x=%v round trip gave %v", v, x, got)
			}
			if sy := v.ToScreenY(v.ToTrueY(x)); math.Abs(sy-x) > 1e-9 {
				t.Fatalf("%+v: y=%v round trip gave %v", v, x, sy)
			}
		}
	}
}

func TestZoomByKeepsOrigin(t *testing.T) {
	v := New(800, 600)
	v.Pan(30, 40)
	before := v.ToTrue(geom.Pt(200, 150))
	v.ZoomBy(0.7, 200, 150)
	after := v.ToTrue(geom.Pt(200, 150))
	if geom.Distance(before, after) > 1e-9 {
		t.Fatalf("point under cursor moved from %v to %v", before, after)
	}
}

func TestZoomClamps(t *testing.T) {
	v := New(800, 600)
	for i := 0; i < 500; i++ {
		v.ZoomBy(ScaleBy, 10, 10)
		if v.Scale > MaxScale {
			t.Fatalf("scale %v above max", v.Scale)
		}
	}
	if v.Scale != MaxScale {
		t.Fatalf("expected scale to settle at max, got %v", v.Scale)
	}
	for i := 0; i < 500; i++ {
		v.Wheel(-300, 10, 10)
		if v.Scale < MinScale {
			t.Fatalf("scale %v below min", v.Scale)
		}
	}
	if v.Scale != MinScale {
		t.Fatalf("expected scale to settle at min, got %v", v.Scale)
	}
}

func TestZoomToFit(t *testing.T) {
	v := New(800, 600)
	box := geom.Rect{Min: geom.Pt(100, 100), Max: geom.Pt(300, 200)}
	v.ZoomToFit(box, 0)
	// 600x400 available, box is 200x100: limited by width.
	if math.Abs(v.Scale-3) > 1e-9 {
		t.Fatalf("scale %v, want 3", v.Scale)
	}
	min := v.ToScreen(box.Min)
	max := v.ToScreen(box.Max)
	if math.Abs(min.X-100) > 1e-9 || math.Abs(max.X-700) > 1e-9 {
		t.Fatalf("box not fitted horizontally: %v %v", min, max)
	}
	if math.Abs((min.Y+max.Y)/2-300) > 1e-9 {
		t.Fatalf("box not centred vertically: %v %v", min, max)
	}
}

func TestZoomToFitPreferredScale(t *testing.T) {
	v := New(800, 600)
	v.ZoomBy(2, 0, 0)
	box := geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(100, 100)}
	v.ZoomToFit(box, 1)
	if v.Scale != 1 {
		t.Fatalf("scale %v, want 1", v.Scale)
	}
	c := v.ToScreen(geom.Pt(50, 50))
	if math.Abs(c.X-400) > 1e-9 || math.Abs(c.Y-300) > 1e-9 {
		t.Fatalf("content not centred: %v", c)
	}
}

func TestPinch(t *testing.T) {
	v := New(800, 600)
	prev := [2]geom.Point{{X: 100, Y: 100}, {X: 200, Y: 100}}
	cur := [2]geom.Point{{X: 90, Y: 100}, {X: 210, Y: 100}}
	anchor := v.ToTrue(geom.Pt(150, 100))
	v.Pinch(prev, cur)
	if math.Abs(v.Scale-1.2) > 1e-9 {
		t.Fatalf("scale %v, want 1.2", v.Scale)
	}
	if geom.Distance(anchor, v.ToTrue(geom.Pt(150, 100))) > 1e-9 {
		t.Fatal("pinch midpoint moved")
	}
}
