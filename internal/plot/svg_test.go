package plot

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSVGDrawsBothSeries(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := SVG(&buf, []float64{0, 0.5, 1}, []float64{0, -0.5, -1}, Options{Title: "a<b"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an svg document: %s", out)
	}
	if n := strings.Count(out, "<polyline"); n != 2 {
		t.Fatalf("got %d polylines, want 2", n)
	}
	if !strings.Contains(out, `stroke-dasharray="6,4"`) {
		t.Fatalf("output series should be dashed: %s", out)
	}
	if !strings.Contains(out, "a&lt;b") {
		t.Fatalf("title not escaped: %s", out)
	}
}

func TestSVGClipsToFixedRange(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	// 800x400 frame, margin 40: y=1 maps to 40, y=-1 maps to 360.
	if err := Lines(&buf, Options{}, Series{Name: "x", Values: []float64{5, -5}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `points="40.00,40.00 760.00,360.00"`) {
		t.Fatalf("values not clipped to frame: %s", out)
	}
}

func TestSVGSinglePoint(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := SVG(&buf, []float64{0}, []float64{0}, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `points="400.00,200.00"`) {
		t.Fatalf("single point not centred: %s", buf.String())
	}
}

func TestSVGErrors(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := SVG(&buf, nil, nil, Options{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if err := SVG(&buf, []float64{1}, nil, Options{YMin: 1, YMax: -1}); err == nil {
		t.Fatal("expected error for inverted range")
	}
}
