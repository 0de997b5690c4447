package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScaleResolverConstant(t *testing.T) {
	r := ConstantScale(2.5)
	if got := r.Resolve(100); got != 2.5 {
		t.Errorf("Resolve = %f, want 2.5", got)
	}
	zero := ScaleResolver{Kind: "constant"}
	if got := zero.Resolve(100); got != 1.0 {
		t.Errorf("zero constant Resolve = %f, want fallback 1.0", got)
	}
}

func TestScaleResolverHeight(t *testing.T) {
	r := HeightScale(
		ScaleBreakpoint{MaxHeight: 10, Scale: 0.5},
		ScaleBreakpoint{MaxHeight: 20, Scale: 1.0},
	)
	tests := []struct {
		height, want float64
	}{
		{5, 0.5},
		{10, 0.5},
		{15, 1.0},
		{50, 1.0}, // 超过最后断点取末档
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.height); got != tt.want {
			t.Errorf("Resolve(%f) = %f, want %f", tt.height, got, tt.want)
		}
	}
}

func TestScaleResolverUnknownKind(t *testing.T) {
	r := ScaleResolver{Kind: "weird"}
	if got := r.Resolve(1); got != 1.0 {
		t.Errorf("unknown kind Resolve = %f, want 1.0", got)
	}
}

func TestDefaultGenerator(t *testing.T) {
	cfg := DefaultGenerator()
	if len(cfg.BlockMappings) == 0 {
		t.Fatal("default config has no block mappings")
	}
	if cfg.VLSupport.Blocks[2] != "115-10-2" {
		t.Errorf("two-bracing block = %s, want 115-10-2", cfg.VLSupport.Blocks[2])
	}
	if cfg.MaxEdgeLength != 100.0 {
		t.Errorf("max edge = %f, want 100", cfg.MaxEdgeLength)
	}

	// 井类块117-2..117-14全部在默认目录中
	blocks := make(map[string]bool)
	for _, m := range cfg.BlockMappings {
		blocks[m.BlockName] = true
	}
	for _, want := range []string{
		"117-2", "117-3", "117-4", "117-5", "117-6", "117-7", "117-8",
		"117-9", "117-10", "117-11", "117-12", "117-13", "117-14",
	} {
		if !blocks[want] {
			t.Errorf("well block %s missing from default catalog", want)
		}
	}
}

func TestLoadGeneratorMissingFile(t *testing.T) {
	cfg, err := LoadGenerator(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if len(cfg.BlockMappings) == 0 {
		t.Fatal("fallback config is empty")
	}
}

func TestLoadGeneratorOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generator.json")
	payload := `{"max_edge_length": 50, "vl_support": {"codes": ["vl"], "bracing_codes": ["op"], "blocks": {"0": "a"}, "scale": {"kind": "constant", "value": 1}, "distance_threshold": 8}}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGenerator(path)
	if err != nil {
		t.Fatalf("LoadGenerator: %v", err)
	}
	if cfg.MaxEdgeLength != 50 {
		t.Errorf("max edge = %f, want override 50", cfg.MaxEdgeLength)
	}
	if cfg.VLSupport.DistanceThreshold != 8 {
		t.Errorf("distance threshold = %f, want 8", cfg.VLSupport.DistanceThreshold)
	}
}

func TestLoadGeneratorBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generator.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGenerator(path); err == nil {
		t.Fatal("malformed config accepted")
	}
}
