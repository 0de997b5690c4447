package Drawing

import (
	"log"
	"math"

	"github.com/GrainArc/SurveyCAD/models"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/entity"
)

// setLayer 切换当前图层，不存在时先创建
func setLayer(d *drawing.Drawing, created map[string]bool, name string, c int) {
	if name == "" {
		name = "0"
	}
	if !created[name] && name != "0" {
		d.AddLayer(name, color.ColorNumber(c), dxf.DefaultLineType, true)
		created[name] = true
		return
	}
	d.ChangeLayer(name)
}

// ExportDXF 将内存文档落盘为DXF文件。
// 写出器不支持INSERT实体，块引用在导出时按模板轮廓展开为折线；
// 填充降级为闭合边界折线
func ExportDXF(doc *Document, outputFilename string) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	created := make(map[string]bool)

	for _, p := range doc.Points {
		setLayer(d, created, p.Layer, p.Color)
		d.Point(p.Position.X, p.Position.Y, p.Position.Z)
	}

	for _, f := range doc.Faces {
		setLayer(d, created, f.Layer, f.Color)
		// 三角面按四顶点格式写出，第四点重复第三点
		d.ThreeDFace([][]float64{
			{f.V1.X, f.V1.Y, f.V1.Z},
			{f.V2.X, f.V2.Y, f.V2.Z},
			{f.V3.X, f.V3.Y, f.V3.Z},
			{f.V3.X, f.V3.Y, f.V3.Z},
		})
	}

	for _, pl := range doc.Polylines {
		setLayer(d, created, pl.Layer, pl.Color)
		writeLwPolyline(d, pl.Points2D(), pl.Closed)
	}

	for _, h := range doc.Hatches {
		setLayer(d, created, h.Layer, h.Color)
		boundary := make([][2]float64, len(h.Boundary))
		for i, p := range h.Boundary {
			boundary[i] = [2]float64{p.X, p.Y}
		}
		writeLwPolyline(d, boundary, true)
	}

	for _, t := range doc.Texts {
		setLayer(d, created, t.Layer, t.Color)
		// 写出器的文字接口不带旋转角，注记统一水平放置
		if _, err := d.Text(t.Value, t.X, t.Y, t.Z, t.Height); err != nil {
			log.Println(err)
		}
	}

	for _, ref := range doc.BlockRefs {
		attrs, _ := doc.LayerExists(ref.Layer)
		setLayer(d, created, ref.Layer, attrs.Color)

		if ref.Annotation != "" {
			if _, err := d.Text(ref.Annotation, ref.X+ref.XScale, ref.Y+ref.YScale, ref.Z, 1.5*ref.XScale); err != nil {
				log.Println(err)
			}
		}

		var info BlockInfo
		if doc.Template != nil {
			info = doc.Template.Blocks[ref.BlockName]
		}
		if len(info.Outlines) == 0 {
			// 无轮廓几何时退化为单点标记
			d.Point(ref.X, ref.Y, ref.Z)
			continue
		}

		for _, outline := range explodeOutlines(info, ref) {
			writeLwPolyline(d, outline.Points, outline.Closed)
		}
	}

	if err := d.SaveAs(outputFilename); err != nil {
		log.Println(err)
		return err
	}
	return nil
}

// explodeOutlines 把块轮廓展开到图纸坐标：
// 轮廓先相对块包围盒中心归一，再按引用的比例缩放、旋转并平移到插入点
func explodeOutlines(info BlockInfo, ref models.BlockPlacement) []BlockOutline {
	cx := info.MinX + info.Width/2
	cy := info.MinY + info.Height/2
	sin, cos := math.Sincos(ref.Rotation * math.Pi / 180)

	out := make([]BlockOutline, 0, len(info.Outlines))
	for _, outline := range info.Outlines {
		pts := make([][2]float64, len(outline.Points))
		for i, p := range outline.Points {
			px := (p[0] - cx) * ref.XScale
			py := (p[1] - cy) * ref.YScale
			pts[i] = [2]float64{
				ref.X + px*cos - py*sin,
				ref.Y + px*sin + py*cos,
			}
		}
		out = append(out, BlockOutline{Points: pts, Closed: outline.Closed})
	}
	return out
}

func writeLwPolyline(d *drawing.Drawing, points [][2]float64, closed bool) {
	if len(points) < 2 {
		return
	}
	lwp := entity.NewLwPolyline(len(points))
	for j, pt := range points {
		lwp.Vertices[j] = []float64{pt[0], pt[1]}
	}
	if closed {
		lwp.Close()
	}
	d.AddEntity(lwp)
}

// Points2D 返回折线顶点的XY投影
func (pl *PolylineEntity) Points2D() [][2]float64 {
	pts := make([][2]float64, len(pl.Points))
	for i, p := range pl.Points {
		pts[i] = [2]float64{p.X, p.Y}
	}
	return pts
}
