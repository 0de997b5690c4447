package Drawing

import (
	"testing"

	"github.com/GrainArc/SurveyCAD/Tin"
	"github.com/GrainArc/SurveyCAD/models"
)

func testTemplate() *Template {
	return &Template{
		Blocks: map[string]BlockInfo{
			"Tower": {Name: "Tower", Width: 4, Height: 6},
			"26l":   {Name: "26l"},
		},
		Layers: map[string]LayerAttrs{
			"Blocks": {Name: "Blocks", Color: 5, LineType: "CONTINUOUS"},
		},
	}
}

func TestEnsureLayerFirstWins(t *testing.T) {
	doc := NewDocument(nil)
	doc.EnsureLayer("A", 3)
	doc.EnsureLayer("A", 9)
	doc.EnsureLayer("B", 1)

	attrs, ok := doc.LayerExists("A")
	if !ok || attrs.Color != 3 {
		t.Errorf("layer A = %+v (%v), want color 3 from first registration", attrs, ok)
	}
	names := doc.LayerNames()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("layer order = %v, want [A B]", names)
	}
}

func TestLayerExistsFromTemplate(t *testing.T) {
	doc := NewDocument(testTemplate())
	attrs, ok := doc.LayerExists("Blocks")
	if !ok || attrs.Color != 5 {
		t.Errorf("template layer = %+v (%v), want color 5", attrs, ok)
	}
	if _, ok := doc.LayerExists("Missing"); ok {
		t.Error("unknown layer reported as existing")
	}
}

func TestAddBlockReference(t *testing.T) {
	doc := NewDocument(testTemplate())

	if err := doc.AddBlockReference(models.BlockPlacement{BlockName: "Tower", Layer: "Blocks"}); err != nil {
		t.Fatalf("known block rejected: %v", err)
	}
	if err := doc.AddBlockReference(models.BlockPlacement{BlockName: "nope", Layer: "Blocks"}); err == nil {
		t.Fatal("missing block accepted")
	}
	if err := doc.AddBlockReference(models.BlockPlacement{}); err == nil {
		t.Fatal("empty block name accepted")
	}
	if len(doc.BlockRefs) != 1 {
		t.Errorf("stored refs = %d, want 1", len(doc.BlockRefs))
	}
}

func TestAddBlockReferenceWithoutTemplate(t *testing.T) {
	doc := NewDocument(nil)
	if err := doc.AddBlockReference(models.BlockPlacement{BlockName: "anything"}); err != nil {
		t.Fatalf("document without template should accept any block: %v", err)
	}
}

func TestBlockBoundingBox(t *testing.T) {
	doc := NewDocument(testTemplate())

	w, h, ok := doc.BlockBoundingBox("Tower")
	if !ok || w != 4 || h != 6 {
		t.Errorf("bounding box = (%f, %f, %v), want (4, 6, true)", w, h, ok)
	}
	// 无几何的块定义不给包围盒
	if _, _, ok := doc.BlockBoundingBox("26l"); ok {
		t.Error("block without geometry returned a bounding box")
	}
	if _, _, ok := doc.BlockBoundingBox("nope"); ok {
		t.Error("unknown block returned a bounding box")
	}

	empty := NewDocument(nil)
	if _, _, ok := empty.BlockBoundingBox("Tower"); ok {
		t.Error("document without template returned a bounding box")
	}
}

func TestDocumentAccumulatesEntities(t *testing.T) {
	doc := NewDocument(nil)
	doc.AddPoint(Tin.Point3D{X: 1, Y: 2, Z: 3}, "P", 7)
	doc.AddFace(Tin.Point3D{}, Tin.Point3D{X: 1}, Tin.Point3D{Y: 1}, "F", 3)
	doc.AddPolyline([]Tin.Point3D{{X: 0}, {X: 5}}, false, "L", 1)
	doc.AddPolyline([]Tin.Point3D{{X: 0}}, false, "L", 1) // 单点折线丢弃
	doc.AddHatch([]Tin.Point3D{{}, {X: 1}, {Y: 1}}, "SOLID", 0, "H", 2)
	doc.AddText("отм. 10.25", 0, 0, 0, 1.5, 0, "T", 34)
	doc.AddText("", 0, 0, 0, 1.5, 0, "T", 34) // 空文字丢弃

	if len(doc.Points) != 1 || len(doc.Faces) != 1 || len(doc.Polylines) != 1 ||
		len(doc.Hatches) != 1 || len(doc.Texts) != 1 {
		t.Errorf("entity counts = %d/%d/%d/%d/%d, want 1 each",
			len(doc.Points), len(doc.Faces), len(doc.Polylines), len(doc.Hatches), len(doc.Texts))
	}
	if len(doc.LayerNames()) != 5 {
		t.Errorf("layer count = %d, want 5", len(doc.LayerNames()))
	}
}
