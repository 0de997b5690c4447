package DxfGenerator

import (
	"fmt"
	"log"
	"math"

	"github.com/GrainArc/SurveyCAD/Drawing"
	"github.com/GrainArc/SurveyCAD/Tin"
	"github.com/GrainArc/SurveyCAD/config"
	"github.com/GrainArc/SurveyCAD/models"
)

// Options 单次生成的开关与参数
type Options struct {
	ScaleFactor     float64 // 图面比例系数，1.0对应1:1000
	TinEnabled      bool
	RefineTin       bool
	TinScaleValue   int // 细化所用的图纸比例分母，如500、1000
	ContourInterval float64
	ShowPolylines   bool
	ShowBlocks      bool
	ShowTowers      bool
	ShowLabels      bool
}

// DefaultOptions 常用默认：1:1000比例，全要素输出
func DefaultOptions() Options {
	return Options{
		ScaleFactor:     1.0,
		TinEnabled:      true,
		RefineTin:       true,
		TinScaleValue:   1000,
		ContourInterval: 0.5,
		ShowPolylines:   true,
		ShowBlocks:      true,
		ShowTowers:      true,
		ShowLabels:      true,
	}
}

const minScaleFactor = 0.05

// normalizeOptions 校正非法的选项取值
func normalizeOptions(opts Options) Options {
	if opts.ScaleFactor < minScaleFactor {
		opts.ScaleFactor = minScaleFactor
	}
	if opts.TinScaleValue <= 0 {
		opts.TinScaleValue = int(math.Round(opts.ScaleFactor * 1000))
	}
	if opts.ContourInterval <= 0 {
		opts.ContourInterval = 0.5
	}
	return opts
}

func labelColor(cfg *config.GeneratorConfig, key string, fallback int) int {
	if c, ok := cfg.LabelColors[key]; ok {
		return c
	}
	return fallback
}

// emitPointLabels 每个测点的点位与注记：点号、高程、代码、备注分列四个注记层
func emitPointLabels(rows []models.SurveyPoint, cfg *config.GeneratorConfig,
	sink Drawing.Sink, opts Options) {
	h := 1.5 * opts.ScaleFactor
	dx := 0.5 * opts.ScaleFactor

	for _, r := range rows {
		sink.AddPoint(Tin.Point3D{X: r.X, Y: r.Y, Z: r.Z}, LayerSurveyPoints, colorWhite)
		if !opts.ShowLabels {
			continue
		}
		if r.Point != "" {
			sink.AddText(r.Point, r.X+dx, r.Y+h, r.Z, h, 0, "Numbers", labelColor(cfg, "Numbers", 10))
		}
		sink.AddText(fmt.Sprintf("%.2f", r.Z), r.X+dx, r.Y-h, r.Z, h, 0, "Elevations", labelColor(cfg, "Elevations", 34))
		if r.Code != "" {
			sink.AddText(r.Code, r.X+dx, r.Y-2.5*h, r.Z, h, 0, "Codes", labelColor(cfg, "Codes", 200))
		}
		if r.Comment != "" {
			sink.AddText(r.Comment, r.X+dx, r.Y-4*h, r.Z, h, 0, "Comments", labelColor(cfg, "Comments", 250))
		}
	}
}

// validRows 过滤坐标非有限值的行，返回有效行和被丢弃的行数
func validRows(rows []models.SurveyPoint) ([]models.SurveyPoint, int) {
	valid := rows[:0:0]
	skipped := 0
	for _, r := range rows {
		if math.IsNaN(r.X) || math.IsNaN(r.Y) || math.IsNaN(r.Z) ||
			math.IsInf(r.X, 0) || math.IsInf(r.Y, 0) || math.IsInf(r.Z, 0) {
			skipped++
			continue
		}
		valid = append(valid, r)
	}
	return valid, skipped
}

// Generate 由测点表生成整张图纸：
// 点位与注记、代码折线、TIN地表与等高线、植被范围、线路支撑、静态块、铁塔。
// 单个要素的失败只计数并跳过，函数总是返回完整的统计结果
func Generate(rows []models.SurveyPoint, cfg *config.GeneratorConfig,
	sink Drawing.Sink, opts Options) *models.GenerationSummary {
	opts = normalizeOptions(opts)
	if cfg == nil {
		cfg = config.DefaultGenerator()
	}

	summary := &models.GenerationSummary{}
	rows, summary.SkippedRows = validRows(rows)
	summary.BasePoints = len(rows)
	if len(rows) == 0 {
		log.Println("没有有效测点，输出空图纸")
		return summary
	}

	emitPointLabels(rows, cfg, sink, opts)

	var breaklines [][]Tin.Point3D
	if opts.ShowPolylines {
		var labels []SegmentLabel
		breaklines, labels = BuildPolylines(rows, cfg, sink, opts.ScaleFactor)
		if opts.ShowLabels {
			clr := labelColor(cfg, "Comments", 250)
			for _, l := range labels {
				sink.AddText(l.Text, l.X, l.Y, 0, 1.5*opts.ScaleFactor, l.Rotation, l.Layer, clr)
			}
		}
	} else {
		breaklines = ExtractBreaklines(rows, cfg)
	}
	summary.Breaklines = len(breaklines)

	var mesh *Tin.Mesh
	if opts.TinEnabled {
		surface := BuildTinSurface(rows, breaklines, cfg, sink, opts)
		summary.BaseTriangles = surface.BaseFaces
		summary.RefinedTriangles = surface.RefinedFaces
		summary.RefinedPoints = surface.AddedPoints
		summary.ContourLines = surface.ContourCount
		if !surface.Mesh.IsEmpty() {
			mesh = &surface.Mesh
		}
	}

	// 植被边界与代码折线共用同一个开关
	if opts.ShowPolylines {
		veg, scattered := BuildVegetationContours(rows, cfg, mesh, sink, opts.ScaleFactor)
		summary.VegetationContours = veg
		summary.ScatteredBlocks = scattered
	}

	if opts.ShowBlocks {
		placed, skipped := PlaceLineSupports(rows, cfg, sink, opts.ScaleFactor)
		summary.BlocksPlaced += placed
		summary.BlocksSkipped += skipped

		placed, skipped = PlaceStaticBlocks(rows, cfg, sink, opts.ScaleFactor)
		summary.BlocksPlaced += placed
		summary.BlocksSkipped += skipped
	}

	if opts.ShowTowers {
		placed, skipped := PlaceTowers(rows, cfg, sink)
		summary.TowersPlaced = placed
		summary.TowersSkipped = skipped
	}

	log.Printf("生成完成：%d 个测点，%d 个三角面，%d 条等高线，%d 个块",
		summary.BasePoints, summary.BaseTriangles, summary.ContourLines, summary.BlocksPlaced)
	return summary
}
