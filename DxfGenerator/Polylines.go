package DxfGenerator

import (
	"math"
	"regexp"
	"strings"

	"github.com/GrainArc/SurveyCAD/Drawing"
	"github.com/GrainArc/SurveyCAD/Tin"
	"github.com/GrainArc/SurveyCAD/config"
	"github.com/GrainArc/SurveyCAD/models"
)

// 代码形如前缀加编号：gaz1、voda12
var codePattern = regexp.MustCompile(`^([a-zA-Zа-яА-Я]+)([0-9]+)$`)

// groupPoint 分组内的一个测点，保留原始行号用于排序
type groupPoint struct {
	Row     int
	X, Y, Z float64
	Comment string
}

// codeGroup 同一完整代码下的点集，组按首次出现的行号排序
type codeGroup struct {
	Key    string // 完整代码（小写），如 gaz1
	Prefix string // 代码前缀，如 gaz
	Points []groupPoint
}

// collectCodeGroups 按代码前缀筛选测点并按完整代码分组，
// gaz1和gaz2是两个独立的组。组顺序与代码在表中首次出现的顺序一致
func collectCodeGroups(rows []models.SurveyPoint, allowedPrefixes []string) []codeGroup {
	allowed := make(map[string]bool)
	for _, p := range allowedPrefixes {
		allowed[strings.ToLower(strings.TrimSpace(p))] = true
	}

	index := make(map[string]int)
	var groups []codeGroup
	for row, r := range rows {
		code := strings.ToLower(strings.TrimSpace(r.Code))
		match := codePattern.FindStringSubmatch(code)
		if match == nil {
			continue
		}
		prefix := match[1]
		if !allowed[prefix] {
			continue
		}

		gi, ok := index[code]
		if !ok {
			gi = len(groups)
			index[code] = gi
			groups = append(groups, codeGroup{Key: code, Prefix: prefix})
		}
		groups[gi].Points = append(groups[gi].Points, groupPoint{
			Row: row, X: r.X, Y: r.Y, Z: r.Z,
			Comment: strings.TrimSpace(r.Comment),
		})
	}
	return groups
}

// orderGroupPoints 贪心最近邻排序：从行号最小的点出发，
// 每次选与当前点XY距离最近的未访问点。距离相等时取剩余列表中靠前者，
// 保证同一输入两次排序结果一致
func orderGroupPoints(points []groupPoint) []groupPoint {
	if len(points) < 2 {
		return append([]groupPoint(nil), points...)
	}

	remaining := append([]groupPoint(nil), points[1:]...)
	ordered := []groupPoint{points[0]}
	current := points[0]

	for len(remaining) > 0 {
		best := 0
		bestDist := math.Hypot(remaining[0].X-current.X, remaining[0].Y-current.Y)
		for i := 1; i < len(remaining); i++ {
			d := math.Hypot(remaining[i].X-current.X, remaining[i].Y-current.Y)
			if d < bestDist {
				best = i
				bestDist = d
			}
		}
		current = remaining[best]
		ordered = append(ordered, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered
}

func groupToPoints3D(points []groupPoint) []Tin.Point3D {
	out := make([]Tin.Point3D, len(points))
	for i, p := range points {
		out[i] = Tin.Point3D{X: p.X, Y: p.Y, Z: p.Z, ID: p.Row}
	}
	return out
}

// ExtractBreaklines 提取结构线：按代码分组并排序，不足两点的组丢弃
func ExtractBreaklines(rows []models.SurveyPoint, cfg *config.GeneratorConfig) [][]Tin.Point3D {
	var breaklines [][]Tin.Point3D
	for _, g := range collectCodeGroups(rows, cfg.PolylinePrefixes) {
		ordered := orderGroupPoints(g.Points)
		if len(ordered) < 2 {
			continue
		}
		breaklines = append(breaklines, groupToPoints3D(ordered))
	}
	return breaklines
}

// 去掉代码尾部编号得到基础代码，用于图层映射
var trailingDigits = regexp.MustCompile(`[0-9]+$`)

func polylineLayer(cfg *config.GeneratorConfig, groupKey string) string {
	base := trailingDigits.ReplaceAllString(groupKey, "")
	if layer, ok := cfg.PolylineLayerMapping[base]; ok {
		return layer
	}
	return "Polylines"
}

// SegmentLabel 折线段旁注记的位置与角度，供下游标注层使用
type SegmentLabel struct {
	Text     string
	X, Y     float64
	Rotation float64 // 角度制
	Layer    string
}

// segmentLabels 为相邻点对生成注记位置：沿段法向偏移至段中点旁
func segmentLabels(ordered []groupPoint, layer string, scaleFactor float64) []SegmentLabel {
	var labels []SegmentLabel
	for i := 0; i < len(ordered)-1; i++ {
		comment := ordered[i].Comment
		if comment == "" {
			continue
		}
		x1, y1 := ordered[i].X, ordered[i].Y
		x2, y2 := ordered[i+1].X, ordered[i+1].Y
		dx := x2 - x1
		dy := y2 - y1
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		shift := 1.0 * scaleFactor
		labels = append(labels, SegmentLabel{
			Text:     comment,
			X:        (x1+x2)/2 - dy/length*shift,
			Y:        (y1+y2)/2 + dx/length*shift,
			Rotation: math.Atan2(dy, dx) * 180 / math.Pi,
			Layer:    layer,
		})
	}
	return labels
}

// BuildPolylines 输出按代码分组的折线并返回有序结构线。
// 结构线同时作为点约束参与三角剖分
func BuildPolylines(rows []models.SurveyPoint, cfg *config.GeneratorConfig, sink Drawing.Sink, scaleFactor float64) ([][]Tin.Point3D, []SegmentLabel) {
	var breaklines [][]Tin.Point3D
	var labels []SegmentLabel

	for _, g := range collectCodeGroups(rows, cfg.PolylinePrefixes) {
		if len(g.Points) < 2 {
			continue
		}
		ordered := orderGroupPoints(g.Points)
		pts := groupToPoints3D(ordered)
		breaklines = append(breaklines, pts)

		layer := polylineLayer(cfg, g.Key)
		clr := 7
		if attrs, ok := sink.LayerExists(layer); ok {
			clr = attrs.Color
		}
		sink.AddPolyline(pts, false, layer, clr)
		labels = append(labels, segmentLabels(ordered, layer, scaleFactor)...)
	}
	return breaklines, labels
}
