package DxfGenerator

import (
	"math"
	"testing"

	"github.com/GrainArc/SurveyCAD/config"
	"github.com/GrainArc/SurveyCAD/models"
)

func TestNormalizeOptions(t *testing.T) {
	opts := normalizeOptions(Options{ScaleFactor: 0.01})
	if opts.ScaleFactor != minScaleFactor {
		t.Errorf("scale factor = %f, want clamp to %f", opts.ScaleFactor, minScaleFactor)
	}
	if opts.TinScaleValue != 50 {
		t.Errorf("tin scale = %d, want 50 (scale*1000)", opts.TinScaleValue)
	}
	if opts.ContourInterval != 0.5 {
		t.Errorf("contour interval = %f, want default 0.5", opts.ContourInterval)
	}
}

func TestSnapContourInterval(t *testing.T) {
	allowed := []float64{0.5, 1.0, 2.0, 5.0}
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{0.7, 0.5},
		{1.4, 1.0},
		{3.0, 2.0},
		{100, 5.0},
	}
	for _, tt := range tests {
		if got := snapContourInterval(tt.in, allowed); got != tt.want {
			t.Errorf("snapContourInterval(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestValidRows(t *testing.T) {
	rows := []models.SurveyPoint{
		{X: 1, Y: 2, Z: 3},
		{X: math.NaN(), Y: 2, Z: 3},
		{X: 1, Y: math.Inf(1), Z: 3},
		{X: 4, Y: 5, Z: 6},
	}
	valid, skipped := validRows(rows)
	if len(valid) != 2 || skipped != 2 {
		t.Fatalf("valid/skipped = %d/%d, want 2/2", len(valid), skipped)
	}
}

func TestGenerateFullPipeline(t *testing.T) {
	rows := []models.SurveyPoint{
		{Point: "1", X: 0, Y: 0, Z: 10.2},
		{Point: "2", X: 50, Y: 0, Z: 11.0},
		{Point: "3", X: 50, Y: 50, Z: 12.3},
		{Point: "4", X: 0, Y: 50, Z: 10.8},
		{Point: "5", X: 25, Y: 25, Z: 11.5},
		{Point: "6", X: 10, Y: 10, Z: 10.5, Code: "gaz1", Comment: "d100"},
		{Point: "7", X: 40, Y: 10, Z: 10.9, Code: "gaz1"},
		{Point: "8", X: 30, Y: 30, Z: 11.4, Code: "zadv", Comment: "5"},
	}

	sink := newMemorySink()
	summary := Generate(rows, config.DefaultGenerator(), sink, DefaultOptions())

	if summary.BasePoints != len(rows) {
		t.Errorf("base points = %d, want %d", summary.BasePoints, len(rows))
	}
	if summary.BaseTriangles == 0 {
		t.Error("no base triangles generated")
	}
	if summary.BaseTriangles != 0 && sink.faces == 0 {
		t.Error("triangles counted but no faces emitted")
	}
	if summary.Breaklines != 1 {
		t.Errorf("breaklines = %d, want 1 (gaz1)", summary.Breaklines)
	}
	if summary.ContourLines == 0 {
		t.Error("no contour lines extracted")
	}
	if summary.BlocksPlaced != 1 {
		t.Errorf("blocks placed = %d, want 1 (valve)", summary.BlocksPlaced)
	}
	if len(sink.points) < len(rows) {
		t.Errorf("emitted %d points, want at least one per row", len(sink.points))
	}
}

func TestGenerateSkipsInvalidRows(t *testing.T) {
	rows := []models.SurveyPoint{
		{Point: "1", X: 0, Y: 0, Z: 1},
		{Point: "2", X: math.NaN(), Y: 0, Z: 1},
	}
	sink := newMemorySink()
	summary := Generate(rows, config.DefaultGenerator(), sink, DefaultOptions())

	if summary.SkippedRows != 1 {
		t.Errorf("skipped rows = %d, want 1", summary.SkippedRows)
	}
	if summary.BasePoints != 1 {
		t.Errorf("base points = %d, want 1", summary.BasePoints)
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	sink := newMemorySink()
	summary := Generate(nil, config.DefaultGenerator(), sink, DefaultOptions())

	if summary.BasePoints != 0 {
		t.Errorf("base points = %d, want 0", summary.BasePoints)
	}
	if len(sink.points) != 0 || sink.faces != 0 {
		t.Error("empty input should emit nothing")
	}
}

func TestGenerateLabels(t *testing.T) {
	rows := []models.SurveyPoint{
		{Point: "17", X: 0, Y: 0, Z: 10.25, Code: "kip", Comment: "шкаф"},
	}
	sink := newMemorySink()
	opts := DefaultOptions()
	opts.TinEnabled = false
	Generate(rows, config.DefaultGenerator(), sink, opts)

	want := map[string]bool{"17": false, "10.25": false, "kip": false, "шкаф": false}
	for _, txt := range sink.texts {
		if _, ok := want[txt.Value]; ok {
			want[txt.Value] = true
		}
	}
	for value, found := range want {
		if !found {
			t.Errorf("label %q was not emitted", value)
		}
	}
}

func TestGenerateDisabledLayers(t *testing.T) {
	rows := []models.SurveyPoint{
		{Point: "1", X: 0, Y: 0, Z: 1, Code: "gaz1"},
		{Point: "2", X: 10, Y: 0, Z: 1.2, Code: "gaz1"},
		{Point: "3", X: 5, Y: 10, Z: 1.4},
		{Point: "4", X: 20, Y: 0, Z: 1, Code: "kust1"},
		{Point: "5", X: 30, Y: 0, Z: 1, Code: "kust1"},
		{Point: "6", X: 25, Y: 10, Z: 1, Code: "kust1"},
	}
	sink := newMemorySink()
	opts := DefaultOptions()
	opts.TinEnabled = false
	opts.ShowPolylines = false
	opts.ShowBlocks = false
	opts.ShowTowers = false
	opts.ShowLabels = false

	summary := Generate(rows, config.DefaultGenerator(), sink, opts)
	if sink.faces != 0 {
		t.Error("faces emitted with TIN disabled")
	}
	if len(sink.polylines) != 0 {
		t.Error("polylines emitted while disabled")
	}
	// 结构线仍然参与统计，只是不出图
	if summary.Breaklines != 1 {
		t.Errorf("breaklines = %d, want 1", summary.Breaklines)
	}
	if len(sink.texts) != 0 {
		t.Error("labels emitted while disabled")
	}
	// 植被边界随折线开关一起关闭
	if summary.VegetationContours != 0 || len(sink.hatches) != 0 {
		t.Errorf("vegetation emitted while polylines disabled: %d contours, %d hatches",
			summary.VegetationContours, len(sink.hatches))
	}
}
