package Tin

import (
	"fmt"
	"math"
)

// 判断二维点是否在三角形内部（基于重心坐标）
func pointInTriangle(px, py float64, a, b, c Point3D) bool {
	x1, y1 := a.X, a.Y
	x2, y2 := b.X, b.Y
	x3, y3 := c.X, c.Y

	// 计算重心坐标
	denominator := (y2-y3)*(x1-x3) + (x3-x2)*(y1-y3)
	if math.Abs(denominator) < 1e-10 {
		return false // 三角形退化
	}

	u := ((y2-y3)*(px-x3) + (x3-x2)*(py-y3)) / denominator
	v := ((y3-y1)*(px-x3) + (x1-x3)*(py-y3)) / denominator
	w := 1 - u - v

	// 点在三角形内当且仅当所有重心坐标都非负
	return u >= 0 && v >= 0 && w >= 0
}

// 使用重心坐标在三角形内插值高程
func interpolateElevation(px, py float64, a, b, c Point3D) float64 {
	x1, y1, z1 := a.X, a.Y, a.Z
	x2, y2, z2 := b.X, b.Y, b.Z
	x3, y3, z3 := c.X, c.Y, c.Z

	denominator := (y2-y3)*(x1-x3) + (x3-x2)*(y1-y3)
	if math.Abs(denominator) < 1e-10 {
		// 三角形退化，返回平均高程
		return (z1 + z2 + z3) / 3.0
	}

	u := ((y2-y3)*(px-x3) + (x3-x2)*(py-y3)) / denominator
	v := ((y3-y1)*(px-x3) + (x1-x3)*(py-y3)) / denominator
	w := 1 - u - v

	return u*z1 + v*z2 + w*z3
}

// ElevationAt 获取二维点在网格表面上的插值高程
func (m *Mesh) ElevationAt(x, y float64) (float64, error) {
	for _, t := range m.Triangles {
		a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		if pointInTriangle(x, y, a, b, c) {
			return interpolateElevation(x, y, a, b, c), nil
		}
	}
	return 0, fmt.Errorf("point (%.2f, %.2f) is not inside any triangle of the mesh", x, y)
}
