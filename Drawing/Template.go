package Drawing

import (
	"fmt"
	"math"
	"os"

	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"
)

// BlockOutline 块定义中的一条轮廓线（块局部坐标）
type BlockOutline struct {
	Points [][2]float64
	Closed bool
}

// BlockInfo 模板中一个块定义的几何信息
type BlockInfo struct {
	Name     string
	Width    float64
	Height   float64
	MinX     float64
	MinY     float64
	Outlines []BlockOutline
}

// Template 图纸模板：块定义的包围盒与图层表
type Template struct {
	Blocks map[string]BlockInfo
	Layers map[string]LayerAttrs
}

// 收集实体的XY顶点序列，目前处理模板中常见的两类折线实体
func entityOutline(e interface{}) (BlockOutline, bool) {
	switch ent := e.(type) {
	case *entities.Polyline:
		var outline BlockOutline
		for _, vertex := range ent.Vertices {
			outline.Points = append(outline.Points, [2]float64{vertex.Location.X, vertex.Location.Y})
		}
		return outline, len(outline.Points) > 0
	case *entities.LWPolyline:
		outline := BlockOutline{Closed: ent.Closed}
		for _, vertex := range ent.Points {
			outline.Points = append(outline.Points, [2]float64{vertex.Point.X, vertex.Point.Y})
		}
		return outline, len(outline.Points) > 0
	}
	return BlockOutline{}, false
}

func entityLayer(e interface{}) (string, bool) {
	switch ent := e.(type) {
	case *entities.Polyline:
		return ent.LayerName, true
	case *entities.LWPolyline:
		return ent.LayerName, true
	}
	return "", false
}

// LoadTemplate 读取DXF模板，提取块定义的包围盒、轮廓几何与图层名。
// 铁塔比例归一化依赖这里的包围盒；模板缺失的块由配置兜底
func LoadTemplate(path string) (*Template, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开模板失败: %w", err)
	}
	defer file.Close()

	doc, err := document.DxfDocumentFromStream(file)
	if err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}

	tpl := &Template{
		Blocks: make(map[string]BlockInfo),
		Layers: make(map[string]LayerAttrs),
	}

	// 模板自带实体上出现过的图层都认为已定义
	for _, e := range doc.Entities.Entities {
		if name, ok := entityLayer(e); ok && name != "" {
			if _, exists := tpl.Layers[name]; !exists {
				tpl.Layers[name] = LayerAttrs{Name: name, Color: 7, LineType: "CONTINUOUS"}
			}
		}
	}

	for _, block := range doc.Blocks {
		info := BlockInfo{Name: block.Name}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)

		for _, e := range block.Entities {
			if name, ok := entityLayer(e); ok && name != "" {
				if _, exists := tpl.Layers[name]; !exists {
					tpl.Layers[name] = LayerAttrs{Name: name, Color: 7, LineType: "CONTINUOUS"}
				}
			}
			outline, ok := entityOutline(e)
			if !ok {
				continue
			}
			for _, p := range outline.Points {
				minX = math.Min(minX, p[0])
				maxX = math.Max(maxX, p[0])
				minY = math.Min(minY, p[1])
				maxY = math.Max(maxY, p[1])
			}
			info.Outlines = append(info.Outlines, outline)
		}

		if minX < maxX {
			info.Width = maxX - minX
			info.MinX = minX
		}
		if minY < maxY {
			info.Height = maxY - minY
			info.MinY = minY
		}
		tpl.Blocks[block.Name] = info
	}

	return tpl, nil
}
