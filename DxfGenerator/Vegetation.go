package DxfGenerator

import (
	"hash/fnv"
	"log"
	"math"
	"math/rand"

	"github.com/GrainArc/SurveyCAD/Drawing"
	"github.com/GrainArc/SurveyCAD/Tin"
	"github.com/GrainArc/SurveyCAD/config"
	"github.com/GrainArc/SurveyCAD/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// 首尾点距离不超过该值的植被边界认为已闭合
const contourCloseTolerance = 0.1

// 判断边界是否闭合（首尾点接近）
func isClosedBoundary(points []groupPoint) bool {
	if len(points) < 3 {
		return false
	}
	first := points[0]
	last := points[len(points)-1]
	return math.Hypot(first.X-last.X, first.Y-last.Y) <= contourCloseTolerance
}

// 未闭合的边界补上首点使其闭合
func closeBoundary(points []groupPoint) []groupPoint {
	if len(points) == 0 || isClosedBoundary(points) {
		return points
	}
	return append(points, points[0])
}

func hasPrefix(prefixes []string, prefix string) bool {
	for _, p := range prefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

// 散点种子由组代码取哈希，同一输入两次生成的散点位置完全一致
func scatterSeed(groupKey string) int64 {
	h := fnv.New64a()
	h.Write([]byte(groupKey))
	return int64(h.Sum64())
}

// scatterBlocksInPolygon 在多边形内随机撒块：拒绝采样落点，
// 保证点在多边形内且与已放块保持最小间距。单个块放置失败只记录不中断
func scatterBlocksInPolygon(ring orb.Ring, groupKey string, veg config.VegetationConfig,
	z float64, mesh *Tin.Mesh, layer string, clr int, scaleFactor float64, sink Drawing.Sink) int {
	if len(ring) < 4 {
		return 0
	}

	bound := ring.Bound()
	area := (bound.Max[0] - bound.Min[0]) * (bound.Max[1] - bound.Min[1])
	minDistance := veg.MinSpacing
	if minDistance <= 0 {
		minDistance = 10.0
	}
	estimated := int(area / ((minDistance * 2) * (minDistance * 2)))
	if estimated < 1 {
		estimated = 1
	}
	maxAttempts := veg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1000
	}

	rng := rand.New(rand.NewSource(scatterSeed(groupKey)))
	var placed []orb.Point
	attempts := 0

	for len(placed) < estimated && attempts < maxAttempts {
		attempts++
		pt := orb.Point{
			bound.Min[0] + rng.Float64()*(bound.Max[0]-bound.Min[0]),
			bound.Min[1] + rng.Float64()*(bound.Max[1]-bound.Min[1]),
		}
		if !planar.RingContains(ring, pt) {
			continue
		}

		tooClose := false
		for _, b := range placed {
			if math.Hypot(pt[0]-b[0], pt[1]-b[1]) < minDistance {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		// 有表面时取网格插值高程，否则用边界平均高程
		blockZ := z
		if mesh != nil && !mesh.IsEmpty() {
			if zi, err := mesh.ElevationAt(pt[0], pt[1]); err == nil {
				blockZ = zi
			}
		}

		err := sink.AddBlockReference(models.BlockPlacement{
			BlockName: veg.BlockName,
			X:         pt[0], Y: pt[1], Z: blockZ,
			XScale: scaleFactor, YScale: scaleFactor, ZScale: scaleFactor,
			Rotation: rng.Float64() * 360,
			Layer:    layer,
			Color:    clr,
		})
		if err != nil {
			log.Printf("放置块 %s 于 (%.2f, %.2f) 失败: %v", veg.BlockName, pt[0], pt[1], err)
			continue
		}
		placed = append(placed, pt)
	}
	return len(placed)
}

// BuildVegetationContours 输出闭合植被边界：
// 林区边界内按散点填块，灌木用点状图案填充，其余植被用实心填充。
// 返回输出的边界数和撒出的块数
func BuildVegetationContours(rows []models.SurveyPoint, cfg *config.GeneratorConfig,
	mesh *Tin.Mesh, sink Drawing.Sink, scaleFactor float64) (int, int) {
	veg := cfg.Vegetation
	contours := 0
	scattered := 0

	for _, g := range collectCodeGroups(rows, veg.Prefixes) {
		if len(g.Points) < 3 {
			continue
		}
		ordered := orderGroupPoints(g.Points)
		if len(ordered) < 3 {
			continue
		}
		closed := closeBoundary(ordered)

		layer := veg.DefaultLayer
		if mapped, ok := cfg.PolylineLayerMapping[g.Prefix]; ok {
			layer = mapped
		}
		clr := 7
		if attrs, ok := sink.LayerExists(layer); ok {
			clr = attrs.Color
		}

		pts := groupToPoints3D(closed)
		sink.AddPolyline(pts, true, layer, clr)
		contours++

		if hasPrefix(veg.ForestPrefixes, g.Prefix) {
			ring := make(orb.Ring, len(closed))
			for i, p := range closed {
				ring[i] = orb.Point{p.X, p.Y}
			}
			var avgZ float64
			for _, p := range closed {
				avgZ += p.Z
			}
			avgZ /= float64(len(closed))

			n := scatterBlocksInPolygon(ring, g.Key, veg, avgZ, mesh, layer, clr, scaleFactor, sink)
			scattered += n
			log.Printf("林区边界 %s 内放置 %d 个块 %s", g.Key, n, veg.BlockName)
		} else {
			pattern := "SOLID"
			patternScale := 0.0
			if hasPrefix(veg.BrushPrefixes, g.Prefix) {
				pattern = "ANSI37"
				patternScale = 0.5 * scaleFactor
			}
			sink.AddHatch(pts, pattern, patternScale, layer, clr)
		}
	}
	return contours, scattered
}
