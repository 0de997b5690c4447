package Tin

import (
	"testing"
)

func TestRefineThresholdForScale(t *testing.T) {
	tests := []struct {
		scale int
		want  float64
	}{
		{500, 15.0},
		{1000, 20.0},
		{2000, 35.0},
		{5000, 60.0},
		{100, 15.0},  // 最接近500
		{1500, 20.0}, // 与1000和2000等距，取较小者
		{4000, 60.0}, // 最接近5000
		{9000, 60.0},
	}
	for _, tt := range tests {
		if got := RefineThresholdForScale(tt.scale); got != tt.want {
			t.Errorf("RefineThresholdForScale(%d) = %f, want %f", tt.scale, got, tt.want)
		}
	}
}

func TestFindRefinementPoints(t *testing.T) {
	mesh := Mesh{
		Vertices: []Point3D{
			{X: 0, Y: 0, Z: 0},
			{X: 100, Y: 0, Z: 1},
			{X: 50, Y: 90, Z: 2},
		},
		Triangles: []Triangle{{0, 1, 2}},
	}

	points := FindRefinementPoints(&mesh, 15)
	if len(points) != 1 {
		t.Fatalf("refinement point count = %d, want 1", len(points))
	}
	c := mesh.Centroid(mesh.Triangles[0])
	if points[0] != c {
		t.Errorf("refinement point = %v, want centroid %v", points[0], c)
	}
}

func TestFindRefinementPointsSmallMesh(t *testing.T) {
	mesh := Mesh{
		Vertices: []Point3D{
			{X: 0, Y: 0, Z: 0},
			{X: 5, Y: 0, Z: 0},
			{X: 2, Y: 4, Z: 0},
		},
		Triangles: []Triangle{{0, 1, 2}},
	}
	if points := FindRefinementPoints(&mesh, 15); len(points) != 0 {
		t.Fatalf("small mesh should not refine, got %d points", len(points))
	}
}

func TestRefineMeshNoOp(t *testing.T) {
	points := []Point3D{
		{X: 0, Y: 0, Z: 1, ID: 0},
		{X: 5, Y: 0, Z: 1.1, ID: 1},
		{X: 5, Y: 5, Z: 1.2, ID: 2},
		{X: 0, Y: 5, Z: 1.3, ID: 3},
	}
	base := CreateTIN(points, nil, 100)

	refined, added := RefineMesh(base, points, nil, 1000, 100)
	if added != nil {
		t.Fatalf("small mesh refinement added %d points, want none", len(added))
	}
	if len(refined.Triangles) != len(base.Triangles) {
		t.Fatalf("no-op refinement changed triangle count: %d vs %d", len(refined.Triangles), len(base.Triangles))
	}
}

func TestRefineMeshAddsPoints(t *testing.T) {
	points := []Point3D{
		{X: 0, Y: 0, Z: 10, ID: 0},
		{X: 100, Y: 0, Z: 11, ID: 1},
		{X: 100, Y: 100, Z: 12, ID: 2},
		{X: 0, Y: 100, Z: 13, ID: 3},
	}
	base := CreateTIN(points, nil, 200)
	if base.IsEmpty() {
		t.Fatal("base mesh is empty")
	}

	refined, added := RefineMesh(base, points, nil, 500, 200)
	if len(added) == 0 {
		t.Fatal("oversized triangles were not refined")
	}
	if refined.IsEmpty() {
		t.Fatal("refined mesh is empty")
	}
	if len(refined.Vertices) != len(points)+len(added) {
		t.Errorf("refined vertex count = %d, want %d", len(refined.Vertices), len(points)+len(added))
	}
}
