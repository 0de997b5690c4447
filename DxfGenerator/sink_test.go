package DxfGenerator

import (
	"fmt"

	"github.com/GrainArc/SurveyCAD/Drawing"
	"github.com/GrainArc/SurveyCAD/Tin"
	"github.com/GrainArc/SurveyCAD/models"
)

type recordedPolyline struct {
	Points []Tin.Point3D
	Closed bool
	Layer  string
	Color  int
}

type recordedHatch struct {
	Boundary []Tin.Point3D
	Pattern  string
	Layer    string
}

type recordedText struct {
	Value    string
	X, Y     float64
	Rotation float64
	Layer    string
}

// memorySink 测试用的记录型输出
type memorySink struct {
	points     []Tin.Point3D
	pointLayer []string
	faces      int
	polylines  []recordedPolyline
	hatches    []recordedHatch
	texts      []recordedText
	blocks     []models.BlockPlacement

	blockSizes map[string][2]float64
	layers     map[string]Drawing.LayerAttrs
	failBlocks map[string]bool
}

func newMemorySink() *memorySink {
	return &memorySink{
		blockSizes: make(map[string][2]float64),
		layers:     make(map[string]Drawing.LayerAttrs),
		failBlocks: make(map[string]bool),
	}
}

func (s *memorySink) AddPoint(p Tin.Point3D, layer string, color int) {
	s.points = append(s.points, p)
	s.pointLayer = append(s.pointLayer, layer)
}

func (s *memorySink) AddFace(v1, v2, v3 Tin.Point3D, layer string, color int) {
	s.faces++
}

func (s *memorySink) AddPolyline(points []Tin.Point3D, closed bool, layer string, color int) {
	s.polylines = append(s.polylines, recordedPolyline{
		Points: append([]Tin.Point3D(nil), points...),
		Closed: closed,
		Layer:  layer,
		Color:  color,
	})
}

func (s *memorySink) AddHatch(boundary []Tin.Point3D, pattern string, patternScale float64, layer string, color int) {
	s.hatches = append(s.hatches, recordedHatch{
		Boundary: append([]Tin.Point3D(nil), boundary...),
		Pattern:  pattern,
		Layer:    layer,
	})
}

func (s *memorySink) AddText(value string, x, y, z, height, rotation float64, layer string, color int) {
	s.texts = append(s.texts, recordedText{Value: value, X: x, Y: y, Rotation: rotation, Layer: layer})
}

func (s *memorySink) AddBlockReference(ref models.BlockPlacement) error {
	if s.failBlocks[ref.BlockName] {
		return fmt.Errorf("block %s is not defined", ref.BlockName)
	}
	s.blocks = append(s.blocks, ref)
	return nil
}

func (s *memorySink) BlockBoundingBox(blockName string) (float64, float64, bool) {
	if size, ok := s.blockSizes[blockName]; ok {
		return size[0], size[1], true
	}
	return 0, 0, false
}

func (s *memorySink) LayerExists(name string) (Drawing.LayerAttrs, bool) {
	attrs, ok := s.layers[name]
	return attrs, ok
}
