package Tin

import (
	"math"
)

// 等高线高程梯所用的固定步距，所有层位都是0.5的整数倍
const contourStep = 0.5

// ContourLevels 生成等高线高程层。
// 从floor(minZ/0.5)*0.5起按0.5步进到maxZ，丢弃低于minZ的层位，
// 再按间隔每N层取一层（N = round(interval/0.5)）。
// 例：minZ=0.2 maxZ=3.1 interval=1.0 → {0.5, 1.5, 2.5}
func ContourLevels(minZ, maxZ, interval float64) []float64 {
	if maxZ < minZ {
		return nil
	}
	n := int(math.Round(interval / contourStep))
	if n < 1 {
		n = 1
	}

	var ladder []float64
	for level := math.Floor(minZ/contourStep) * contourStep; level <= maxZ+ContourTolerance; level += contourStep {
		if level < minZ-ContourTolerance {
			continue
		}
		ladder = append(ladder, level)
	}

	var levels []float64
	for i := 0; i < len(ladder); i += n {
		levels = append(levels, ladder[i])
	}
	return levels
}

type contourSegment struct {
	a, b Point3D
}

// 判断两端点在XY平面上是否匹配（等高线容差内）
func contourPointsMatch(p1, p2 Point3D) bool {
	return math.Abs(p1.X-p2.X) <= ContourTolerance && math.Abs(p1.Y-p2.Y) <= ContourTolerance
}

// 求三角形与水平面的交线段。三顶点全部严格位于平面上方或下方时无交；
// 正常相交恰好产生两个交点
func intersectTriangle(mesh *Mesh, t Triangle, level float64) (contourSegment, bool) {
	v := [3]Point3D{mesh.Vertices[t[0]], mesh.Vertices[t[1]], mesh.Vertices[t[2]]}

	above, below := 0, 0
	for _, p := range v {
		if p.Z > level+ContourTolerance {
			above++
		} else if p.Z < level-ContourTolerance {
			below++
		}
	}
	if above == 3 || below == 3 {
		return contourSegment{}, false
	}

	var pts []Point3D
	for i := 0; i < 3; i++ {
		p1 := v[i]
		p2 := v[(i+1)%3]
		// 仅处理跨越平面的边
		if (p1.Z-level)*(p2.Z-level) >= 0 {
			continue
		}
		ratio := (level - p1.Z) / (p2.Z - p1.Z)
		pts = append(pts, Point3D{
			X: p1.X + ratio*(p2.X-p1.X),
			Y: p1.Y + ratio*(p2.Y-p1.Y),
			Z: level,
		})
	}
	if len(pts) != 2 {
		return contourSegment{}, false
	}
	return contourSegment{a: pts[0], b: pts[1]}, true
}

// chainSegments 将线段链接为折线。
// 线段按三角形出现顺序依次消耗：当前折线先尝试向尾部延伸，再尝试向头部延伸，
// 两端都无可接线段时结束当前折线并从下一条未用线段重新开始。
// 该顺序是固定约定，保证同一网格两次提取结果一致。
func chainSegments(level float64, segments []contourSegment) []ContourLine {
	used := make([]bool, len(segments))
	var lines []ContourLine

	for start := 0; start < len(segments); start++ {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []Point3D{segments[start].a, segments[start].b}

		for {
			extended := false
			for i, seg := range segments {
				if used[i] {
					continue
				}
				tail := chain[len(chain)-1]
				head := chain[0]
				switch {
				case contourPointsMatch(seg.a, tail):
					chain = append(chain, seg.b)
				case contourPointsMatch(seg.b, tail):
					chain = append(chain, seg.a)
				case contourPointsMatch(seg.a, head):
					chain = append([]Point3D{seg.b}, chain...)
				case contourPointsMatch(seg.b, head):
					chain = append([]Point3D{seg.a}, chain...)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
			if !extended {
				break
			}
		}

		if len(chain) < 2 {
			continue
		}
		lines = append(lines, ContourLine{
			Level:  level,
			Points: chain,
			Closed: len(chain) > 2 && contourPointsMatch(chain[0], chain[len(chain)-1]),
		})
	}
	return lines
}

// ExtractContours 按给定间隔提取整个网格的等高线
func ExtractContours(mesh *Mesh, interval float64) []ContourLine {
	if mesh.IsEmpty() {
		return nil
	}

	minZ, maxZ := mesh.MinMaxZ()
	var lines []ContourLine
	for _, level := range ContourLevels(minZ, maxZ, interval) {
		var segments []contourSegment
		for _, t := range mesh.Triangles {
			if seg, ok := intersectTriangle(mesh, t, level); ok {
				segments = append(segments, seg)
			}
		}
		lines = append(lines, chainSegments(level, segments)...)
	}
	return lines
}
