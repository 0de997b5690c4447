package Drawing

import (
	"fmt"

	"github.com/GrainArc/SurveyCAD/Tin"
	"github.com/GrainArc/SurveyCAD/models"
)

// PointEntity 已写入文档的点
type PointEntity struct {
	Position Tin.Point3D
	Layer    string
	Color    int
}

// FaceEntity 已写入文档的三角面
type FaceEntity struct {
	V1, V2, V3 Tin.Point3D
	Layer      string
	Color      int
}

// PolylineEntity 已写入文档的折线
type PolylineEntity struct {
	Points []Tin.Point3D
	Closed bool
	Layer  string
	Color  int
}

// HatchEntity 已写入文档的填充，边界为闭合折线
type HatchEntity struct {
	Boundary     []Tin.Point3D
	Pattern      string // "SOLID" 或图案名
	PatternScale float64
	Layer        string
	Color        int
}

// TextEntity 已写入文档的单行文字
type TextEntity struct {
	Value    string
	X, Y, Z  float64
	Height   float64
	Rotation float64 // 角度制
	Layer    string
	Color    int
}

// Document 内存中的图纸文档，按写入顺序累积图元，生成完成后由导出器落盘。
// 单写者追加写，引擎执行期间不存在并发访问
type Document struct {
	Template  *Template
	Points    []PointEntity
	Faces     []FaceEntity
	Polylines []PolylineEntity
	Hatches   []HatchEntity
	Texts     []TextEntity
	BlockRefs []models.BlockPlacement

	layers     map[string]LayerAttrs
	layerOrder []string
}

// NewDocument 创建空文档，模板可以为nil（此时块包围盒全部走配置兜底）
func NewDocument(tpl *Template) *Document {
	return &Document{
		Template: tpl,
		layers:   make(map[string]LayerAttrs),
	}
}

// EnsureLayer 登记一个输出图层，重复登记保持首次属性
func (d *Document) EnsureLayer(name string, color int) {
	if name == "" {
		return
	}
	if _, ok := d.layers[name]; ok {
		return
	}
	d.layers[name] = LayerAttrs{Name: name, Color: color, LineType: "CONTINUOUS"}
	d.layerOrder = append(d.layerOrder, name)
}

// LayerNames 返回文档登记图层，顺序与登记顺序一致
func (d *Document) LayerNames() []string {
	return d.layerOrder
}

func (d *Document) AddPoint(p Tin.Point3D, layer string, color int) {
	d.EnsureLayer(layer, color)
	d.Points = append(d.Points, PointEntity{Position: p, Layer: layer, Color: color})
}

func (d *Document) AddFace(v1, v2, v3 Tin.Point3D, layer string, color int) {
	d.EnsureLayer(layer, color)
	d.Faces = append(d.Faces, FaceEntity{V1: v1, V2: v2, V3: v3, Layer: layer, Color: color})
}

func (d *Document) AddPolyline(points []Tin.Point3D, closed bool, layer string, color int) {
	if len(points) < 2 {
		return
	}
	d.EnsureLayer(layer, color)
	d.Polylines = append(d.Polylines, PolylineEntity{
		Points: append([]Tin.Point3D(nil), points...),
		Closed: closed,
		Layer:  layer,
		Color:  color,
	})
}

func (d *Document) AddHatch(boundary []Tin.Point3D, pattern string, patternScale float64, layer string, color int) {
	if len(boundary) < 3 {
		return
	}
	d.EnsureLayer(layer, color)
	d.Hatches = append(d.Hatches, HatchEntity{
		Boundary:     append([]Tin.Point3D(nil), boundary...),
		Pattern:      pattern,
		PatternScale: patternScale,
		Layer:        layer,
		Color:        color,
	})
}

func (d *Document) AddText(value string, x, y, z, height, rotation float64, layer string, color int) {
	if value == "" {
		return
	}
	d.EnsureLayer(layer, color)
	d.Texts = append(d.Texts, TextEntity{
		Value: value,
		X:     x, Y: y, Z: z,
		Height:   height,
		Rotation: rotation,
		Layer:    layer,
		Color:    color,
	})
}

// AddBlockReference 写入块引用。模板已加载且块未定义时返回错误，由调用方计数跳过
func (d *Document) AddBlockReference(ref models.BlockPlacement) error {
	if ref.BlockName == "" {
		return fmt.Errorf("块名为空")
	}
	if d.Template != nil {
		if _, ok := d.Template.Blocks[ref.BlockName]; !ok {
			return fmt.Errorf("模板中未定义块 %s", ref.BlockName)
		}
	}
	d.EnsureLayer(ref.Layer, ref.Color)
	d.BlockRefs = append(d.BlockRefs, ref)
	return nil
}

// BlockBoundingBox 查询块定义的包围盒尺寸，模板缺失时ok为false
func (d *Document) BlockBoundingBox(blockName string) (float64, float64, bool) {
	if d.Template == nil {
		return 0, 0, false
	}
	info, ok := d.Template.Blocks[blockName]
	if !ok || info.Width <= 0 || info.Height <= 0 {
		return 0, 0, false
	}
	return info.Width, info.Height, true
}

// LayerExists 查询图层是否已定义（模板图层或本次生成登记的图层）
func (d *Document) LayerExists(name string) (LayerAttrs, bool) {
	if attrs, ok := d.layers[name]; ok {
		return attrs, true
	}
	if d.Template != nil {
		if attrs, ok := d.Template.Layers[name]; ok {
			return attrs, true
		}
	}
	return LayerAttrs{}, false
}
