package Drawing

import (
	"github.com/GrainArc/SurveyCAD/Tin"
	"github.com/GrainArc/SurveyCAD/models"
)

// LayerAttrs 图层属性
type LayerAttrs struct {
	Name     string
	Color    int
	LineType string
}

// Sink 图形输出接口。引擎对它只写不读，块定义和图层信息来自加载的模板。
// AddBlockReference返回的错误（例如模板缺块）由调用方记录并跳过，不得中断整批生成
type Sink interface {
	AddPoint(p Tin.Point3D, layer string, color int)
	AddFace(v1, v2, v3 Tin.Point3D, layer string, color int)
	AddPolyline(points []Tin.Point3D, closed bool, layer string, color int)
	AddHatch(boundary []Tin.Point3D, pattern string, patternScale float64, layer string, color int)
	AddText(value string, x, y, z, height, rotation float64, layer string, color int)
	AddBlockReference(ref models.BlockPlacement) error
	BlockBoundingBox(blockName string) (width, height float64, ok bool)
	LayerExists(name string) (LayerAttrs, bool)
}
