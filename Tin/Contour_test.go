package Tin

import (
	"math"
	"testing"
)

func TestContourLevelsLadder(t *testing.T) {
	got := ContourLevels(0.2, 3.1, 1.0)
	want := []float64{0.5, 1.5, 2.5}
	if len(got) != len(want) {
		t.Fatalf("levels = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("level[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestContourLevelsHalfStep(t *testing.T) {
	got := ContourLevels(0.2, 1.2, 0.5)
	want := []float64{0.5, 1.0}
	if len(got) != len(want) {
		t.Fatalf("levels = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("level[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestContourLevelsInvertedRange(t *testing.T) {
	if got := ContourLevels(2.0, 1.0, 0.5); got != nil {
		t.Fatalf("inverted range should give no levels, got %v", got)
	}
}

// 斜面上的等高线应当是一条垂直于坡向的直线
func TestExtractContoursOnSlope(t *testing.T) {
	points := []Point3D{
		{X: 0, Y: 0, Z: 0, ID: 0},
		{X: 10, Y: 0, Z: 1, ID: 1},
		{X: 10, Y: 10, Z: 1, ID: 2},
		{X: 0, Y: 10, Z: 0, ID: 3},
	}
	mesh := CreateTIN(points, nil, 100)
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}

	lines := ExtractContours(&mesh, 0.5)
	if len(lines) != 1 {
		t.Fatalf("contour count = %d, want 1", len(lines))
	}

	line := lines[0]
	if line.Level != 0.5 {
		t.Errorf("level = %f, want 0.5", line.Level)
	}
	if line.Closed {
		t.Error("open slope contour reported as closed")
	}
	for i, p := range line.Points {
		if math.Abs(p.X-5) > 1e-9 {
			t.Errorf("point %d X = %f, want 5 (z=x/10 plane)", i, p.X)
		}
	}

	first := line.Points[0]
	last := line.Points[len(line.Points)-1]
	ySpan := math.Abs(first.Y - last.Y)
	if math.Abs(ySpan-10) > 1e-9 {
		t.Errorf("contour spans %f in Y, want 10", ySpan)
	}
}

func TestExtractContoursDeterministic(t *testing.T) {
	points := []Point3D{
		{X: 0, Y: 0, Z: 0.3, ID: 0},
		{X: 10, Y: 1, Z: 1.4, ID: 1},
		{X: 9, Y: 10, Z: 2.2, ID: 2},
		{X: 1, Y: 9, Z: 0.9, ID: 3},
		{X: 5, Y: 5, Z: 1.7, ID: 4},
	}
	mesh := CreateTIN(points, nil, 100)

	first := ExtractContours(&mesh, 0.5)
	second := ExtractContours(&mesh, 0.5)
	if len(first) != len(second) {
		t.Fatalf("contour counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Level != second[i].Level || len(first[i].Points) != len(second[i].Points) {
			t.Errorf("contour %d differs between runs", i)
			continue
		}
		for j := range first[i].Points {
			if first[i].Points[j] != second[i].Points[j] {
				t.Errorf("contour %d point %d differs", i, j)
			}
		}
	}
}
