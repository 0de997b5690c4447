package Tin

import (
	"log"
	"math"
)

// 计算两点间XY平面距离
func distance2D(p1, p2 Point3D) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// 计算叉积的Z分量，逆时针为正
func cross2D(p1, p2, p3 Point3D) float64 {
	return (p2.X-p1.X)*(p3.Y-p1.Y) - (p3.X-p1.X)*(p2.Y-p1.Y)
}

// 判断两点在XY平面上是否重合（合并容差内）
func samePoint2D(p1, p2 Point3D) bool {
	return math.Abs(p1.X-p2.X) <= MergeTolerance && math.Abs(p1.Y-p2.Y) <= MergeTolerance
}

// 计算三角形外接圆圆心和半径（基于XY平面投影）
func circumcircle(p1, p2, p3 Point3D) (cx, cy, r float64) {
	ax, ay := p1.X, p1.Y
	bx, by := p2.X, p2.Y
	cx1, cy1 := p3.X, p3.Y

	d := 2 * (ax*(by-cy1) + bx*(cy1-ay) + cx1*(ay-by))
	if math.Abs(d) < 1e-10 {
		return 0, 0, math.Inf(1)
	}

	ux := (ax*ax+ay*ay)*(by-cy1) + (bx*bx+by*by)*(cy1-ay) + (cx1*cx1+cy1*cy1)*(ay-by)
	uy := (ax*ax+ay*ay)*(cx1-bx) + (bx*bx+by*by)*(ax-cx1) + (cx1*cx1+cy1*cy1)*(bx-ax)

	cx = ux / d
	cy = uy / d
	r = math.Sqrt((cx-ax)*(cx-ax) + (cy-ay)*(cy-ay))

	return cx, cy, r
}

// 判断点是否在三角形外接圆内（基于XY投影）
func inCircumcircle(p Point3D, vertices []Point3D, t Triangle) bool {
	cx, cy, r := circumcircle(vertices[t[0]], vertices[t[1]], vertices[t[2]])
	if math.IsInf(r, 1) {
		return false
	}
	dist := math.Sqrt((p.X-cx)*(p.X-cx) + (p.Y-cy)*(p.Y-cy))
	return dist < r
}

// 创建包含所有点的超级三角形，顶点追加在数组末尾
func appendSuperTriangle(vertices []Point3D) ([]Point3D, Triangle) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, p := range vertices {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	dx := maxX - minX
	dy := maxY - minY
	deltaMax := math.Max(math.Max(dx, dy), 1.0)
	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2

	n := len(vertices)
	vertices = append(vertices,
		Point3D{X: midX - 20*deltaMax, Y: midY - deltaMax, Z: 0, ID: -1},
		Point3D{X: midX, Y: midY + 20*deltaMax, Z: 0, ID: -2},
		Point3D{X: midX + 20*deltaMax, Y: midY - deltaMax, Z: 0, ID: -3},
	)
	return vertices, Triangle{n, n + 1, n + 2}
}

type edge struct {
	a, b int
}

func sameEdge(e1, e2 edge) bool {
	return (e1.a == e2.a && e1.b == e2.b) || (e1.a == e2.b && e1.b == e2.a)
}

// Delaunay三角剖分（Bowyer-Watson），点按数组顺序依次插入，结果顺序可重现
func delaunayTriangulation(points []Point3D) []Triangle {
	if len(points) < 3 {
		return nil
	}

	n := len(points)
	vertices, super := appendSuperTriangle(append([]Point3D(nil), points...))
	triangles := []Triangle{super}

	for i := 0; i < n; i++ {
		point := vertices[i]

		// 找到外接圆包含当前点的三角形
		bad := make([]bool, len(triangles))
		var badTriangles []Triangle
		for ti, triangle := range triangles {
			if inCircumcircle(point, vertices, triangle) {
				bad[ti] = true
				badTriangles = append(badTriangles, triangle)
			}
		}

		// 收集坏三角形的非共享边，构成空腔多边形
		var polygon []edge
		for _, badTriangle := range badTriangles {
			edges := []edge{
				{badTriangle[0], badTriangle[1]},
				{badTriangle[1], badTriangle[2]},
				{badTriangle[2], badTriangle[0]},
			}
			for _, e := range edges {
				shared := false
				for _, other := range badTriangles {
					if other == badTriangle {
						continue
					}
					otherEdges := []edge{
						{other[0], other[1]},
						{other[1], other[2]},
						{other[2], other[0]},
					}
					for _, oe := range otherEdges {
						if sameEdge(e, oe) {
							shared = true
							break
						}
					}
					if shared {
						break
					}
				}
				if !shared {
					polygon = append(polygon, e)
				}
			}
		}

		// 移除坏三角形
		var kept []Triangle
		for ti, triangle := range triangles {
			if !bad[ti] {
				kept = append(kept, triangle)
			}
		}
		triangles = kept

		// 用空腔边和当前点创建新三角形
		for _, e := range polygon {
			triangles = append(triangles, Triangle{e.a, e.b, i})
		}
	}

	// 移除包含超级三角形顶点的三角形
	var finalTriangles []Triangle
	for _, triangle := range triangles {
		if triangle[0] < n && triangle[1] < n && triangle[2] < n {
			finalTriangles = append(finalTriangles, triangle)
		}
	}

	return finalTriangles
}

// MergeBreaklinePoints 将折线顶点并入点集，XY合并容差内的重复点不再加入
func MergeBreaklinePoints(points []Point3D, breaklines [][]Point3D) []Point3D {
	merged := append([]Point3D(nil), points...)
	for _, line := range breaklines {
		for _, bp := range line {
			exists := false
			for _, p := range merged {
				if samePoint2D(p, bp) {
					exists = true
					break
				}
			}
			if !exists {
				bp.ID = len(merged)
				merged = append(merged, bp)
			}
		}
	}
	return merged
}

// CreateTIN 对点集（含折线顶点）做Delaunay三角剖分并过滤退化和超长三角形。
// 点数不足或输入退化时返回空网格，不视为错误。
func CreateTIN(points []Point3D, breaklines [][]Point3D, maxEdge float64) Mesh {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}

	merged := MergeBreaklinePoints(points, breaklines)
	if len(merged) < 3 {
		log.Printf("TIN: 点数不足，无法构建表面（需要至少3个点，实际%d个）", len(merged))
		return Mesh{Vertices: merged}
	}

	triangles := delaunayTriangulation(merged)
	if len(triangles) == 0 {
		log.Println("TIN: 三角剖分无结果，输入可能共线或退化")
		return Mesh{Vertices: merged}
	}

	mesh := Mesh{Vertices: merged}
	for _, t := range triangles {
		a, b, c := merged[t[0]], merged[t[1]], merged[t[2]]

		// 过滤退化三角形
		cross := cross2D(a, b, c)
		if math.Abs(cross)/2 < AreaEpsilon {
			continue
		}
		// 过滤超长边，避免连接相距过远的无关测点
		if distance2D(a, b) > maxEdge || distance2D(b, c) > maxEdge || distance2D(c, a) > maxEdge {
			continue
		}
		// 统一为逆时针顶点序，保证向上的法向量
		if cross < 0 {
			t[1], t[2] = t[2], t[1]
		}
		mesh.Triangles = append(mesh.Triangles, t)
	}

	return mesh
}
