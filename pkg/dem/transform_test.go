package dem

import "testing"

func TestFixNoData(t *testing.T) {
	g := NewGrid(3, 1, -9999)
	g.Set(0, 0, -5000)
	g.Set(1, 0, 10)
	g.Set(2, 0, -4000)

	out := FixNoData(g, -4500)

	if out.At(0, 0) != -9999 {
		t.Errorf("expected -5000 forced to nodata, got %f", out.At(0, 0))
	}
	if out.At(1, 0) != 10 || out.At(2, 0) != -4000 {
		t.Error("values above the threshold must be untouched")
	}
	if g.At(0, 0) != -5000 {
		t.Error("input grid was mutated")
	}
}

func TestSmooth(t *testing.T) {
	g := NewGrid(3, 3, -9999)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			g.Set(x, y, 1)
		}
	}
	g.Set(1, 1, 10)
	g.Set(2, 2, -9999)

	out := Smooth(g, 1)

	// Center: 7 valid neighbors of value 1 plus itself at 10.
	want := (7*1.0 + 10) / 8
	if out.At(1, 1) != want {
		t.Errorf("expected smoothed center %f, got %f", want, out.At(1, 1))
	}
	// NoData cells stay nodata and never contribute.
	if out.At(2, 2) != -9999 {
		t.Errorf("expected nodata preserved, got %f", out.At(2, 2))
	}
	// Corner (0,0): neighbors (0,0)=1 (1,0)=1 (0,1)=1 (1,1)=10.
	wantCorner := (3*1.0 + 10) / 4
	if out.At(0, 0) != wantCorner {
		t.Errorf("expected smoothed corner %f, got %f", wantCorner, out.At(0, 0))
	}
}

func TestSmoothZeroRadius(t *testing.T) {
	g := NewGrid(2, 1, -9999)
	g.Set(0, 0, 3)
	g.Set(1, 0, 5)

	out := Smooth(g, 0)
	if out.At(0, 0) != 3 || out.At(1, 0) != 5 {
		t.Error("radius 0 must leave values unchanged")
	}
}

func TestStep(t *testing.T) {
	g := NewGrid(4, 1, -9999)
	g.Set(0, 0, 0.4)
	g.Set(1, 0, 5.9)
	g.Set(2, 0, -0.3)
	g.Set(3, 0, -9999)

	out := Step(g, 2)

	tests := []struct {
		x    int
		want float64
	}{
		{0, 0},
		{1, 4},
		{2, -2},
		{3, -9999},
	}
	for _, tt := range tests {
		if got := out.At(tt.x, 0); got != tt.want {
			t.Errorf("cell %d: expected %f, got %f", tt.x, tt.want, got)
		}
	}
}

func TestZFit(t *testing.T) {
	g := NewGrid(3, 1, -9999)
	g.Set(0, 0, 100)
	g.Set(1, 0, 300)
	g.Set(2, 0, -9999)

	out := ZFit(g, 10)

	if out.At(0, 0) != 0 {
		t.Errorf("expected lowest elevation rescaled to 0, got %f", out.At(0, 0))
	}
	if out.At(1, 0) != 10 {
		t.Errorf("expected highest elevation rescaled to 10, got %f", out.At(1, 0))
	}
	if out.At(2, 0) != -9999 {
		t.Errorf("expected nodata preserved, got %f", out.At(2, 0))
	}
}

func TestZFitFlatGrid(t *testing.T) {
	g := NewGrid(2, 1, -9999)
	g.Set(0, 0, 5)
	g.Set(1, 0, 5)

	out := ZFit(g, 10)
	if out.At(0, 0) != 5 || out.At(1, 0) != 5 {
		t.Error("a grid with no relief must be returned unchanged")
	}
}
