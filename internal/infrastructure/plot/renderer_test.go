package plot

import (
	"bytes"
	"testing"

	"github.com/Nyukimin/polyclaw/internal/domain/interp"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestRender(t *testing.T) {
	r := NewRenderer(6, 4, 100)

	points := interp.PointSet{{X: 0, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 5}}
	poly := interp.Polynomial{1, 0, 1}
	evals := []interp.Evaluation{{X: 1.5, Y: 3.25}}

	png, err := r.Render(points, poly, evals)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output should be a PNG image")
	}
}

func TestRender_WithoutEvals(t *testing.T) {
	r := NewRenderer(6, 4, 100)

	points := interp.PointSet{{X: 0, Y: 1}, {X: 1, Y: 1}}
	poly := interp.Polynomial{1, 0}

	png, err := r.Render(points, poly, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output should be a PNG image")
	}
}

func TestRender_NoPoints(t *testing.T) {
	r := NewRenderer(6, 4, 100)

	_, err := r.Render(nil, interp.Polynomial{1}, nil)
	if err == nil {
		t.Fatal("expected error for empty point set")
	}
}

func TestNewRenderer_Defaults(t *testing.T) {
	r := NewRenderer(0, -1, 0)

	if r.widthInch != 6 || r.heightInch != 4 || r.samples != 200 {
		t.Errorf("unexpected defaults: %+v", r)
	}
}

func TestXRange(t *testing.T) {
	points := interp.PointSet{{X: 0, Y: 0}, {X: 10, Y: 0}}
	evals := []interp.Evaluation{{X: 15, Y: 0}}

	lo, hi := xRange(points, evals)

	if lo >= 0 {
		t.Errorf("expected padded lower bound below 0, got %g", lo)
	}
	if hi <= 15 {
		t.Errorf("expected padded upper bound above 15, got %g", hi)
	}
}
