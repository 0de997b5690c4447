package DxfGenerator

import (
	"log"
	"math"

	"github.com/GrainArc/SurveyCAD/Drawing"
	"github.com/GrainArc/SurveyCAD/Tin"
	"github.com/GrainArc/SurveyCAD/config"
	"github.com/GrainArc/SurveyCAD/models"
)

// 地形图层约定，与基础模板中的图层命名保持一致
const (
	LayerSurveyPoints   = "1 Отметки и точки реального рельефа"
	LayerBaseSurface    = "1 реальная поверхность"
	LayerRefinedSurface = "2 отредактированная поверхность"
	LayerRefinedPoints  = "2 пикеты добавленные"
	LayerContours       = "3 горизонтали"
)

const (
	colorRed   = 1
	colorGreen = 3
	colorWhite = 7
	colorBrown = 34
)

// SurfaceResult TIN地表生成结果，Mesh为后续取高程用的最终网格
type SurfaceResult struct {
	Mesh          Tin.Mesh
	BaseFaces     int
	RefinedFaces  int
	AddedPoints   int
	ContourCount  int
	ContourLevels []float64
}

// surveyToPoints 测点行转为带行号的三维点
func surveyToPoints(rows []models.SurveyPoint) []Tin.Point3D {
	points := make([]Tin.Point3D, len(rows))
	for i, r := range rows {
		points[i] = Tin.Point3D{X: r.X, Y: r.Y, Z: r.Z, ID: i}
	}
	return points
}

// snapContourInterval 把请求的等高距对齐到配置允许值中最接近的一档，
// 距离相同时取较小档
func snapContourInterval(requested float64, allowed []float64) float64 {
	if len(allowed) == 0 {
		return requested
	}
	best := allowed[0]
	for _, v := range allowed[1:] {
		if math.Abs(v-requested) < math.Abs(best-requested) {
			best = v
		}
	}
	return best
}

// BuildTinSurface 构建TIN地表并写入图形：
// 基础网格三角面进绿色实际地表层；开启细化时细化后的网格与新增加密点进红色编辑层；
// 最后按等高距抽取等高线。返回最终网格供植被散点取高程
func BuildTinSurface(rows []models.SurveyPoint, breaklines [][]Tin.Point3D,
	cfg *config.GeneratorConfig, sink Drawing.Sink, opts Options) SurfaceResult {
	var result SurfaceResult

	maxEdge := cfg.MaxEdgeLength
	if maxEdge <= 0 {
		maxEdge = Tin.DefaultMaxEdge
	}

	points := surveyToPoints(rows)
	mesh := Tin.CreateTIN(points, breaklines, maxEdge)
	if mesh.IsEmpty() {
		log.Println("测点不足以构建TIN，跳过地表生成")
		return result
	}

	for _, t := range mesh.Triangles {
		sink.AddFace(mesh.Vertices[t[0]], mesh.Vertices[t[1]], mesh.Vertices[t[2]], LayerBaseSurface, colorGreen)
	}
	result.BaseFaces = len(mesh.Triangles)

	if opts.RefineTin {
		refined, added := Tin.RefineMesh(mesh, points, breaklines, opts.TinScaleValue, maxEdge)
		if len(added) > 0 {
			for _, t := range refined.Triangles {
				sink.AddFace(refined.Vertices[t[0]], refined.Vertices[t[1]], refined.Vertices[t[2]], LayerRefinedSurface, colorRed)
			}
			for _, p := range added {
				sink.AddPoint(p, LayerRefinedPoints, colorRed)
			}
			result.RefinedFaces = len(refined.Triangles)
			result.AddedPoints = len(added)
			mesh = refined
		}
	}

	interval := snapContourInterval(opts.ContourInterval, cfg.ContourIntervals)
	if interval > 0 {
		contours := Tin.ExtractContours(&mesh, interval)
		for _, c := range contours {
			sink.AddPolyline(c.Points, c.Closed, LayerContours, colorBrown)
		}
		result.ContourCount = len(contours)
		seen := make(map[float64]bool)
		for _, c := range contours {
			if !seen[c.Level] {
				seen[c.Level] = true
				result.ContourLevels = append(result.ContourLevels, c.Level)
			}
		}
	}

	result.Mesh = mesh
	return result
}
