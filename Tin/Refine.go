package Tin

import (
	"math"
	"sort"
)

// RefineDistanceByScale 各比例尺对应的加密距离阈值
var RefineDistanceByScale = map[int]float64{
	500:  15.0,
	1000: 20.0,
	2000: 35.0,
	5000: 60.0,
}

// RefineThresholdForScale 返回比例尺对应的加密阈值，
// 未列出的比例尺取键值差绝对值最小的一档（并列时取较小比例尺）
func RefineThresholdForScale(scaleValue int) float64 {
	if v, ok := RefineDistanceByScale[scaleValue]; ok {
		return v
	}

	scales := make([]int, 0, len(RefineDistanceByScale))
	for s := range RefineDistanceByScale {
		scales = append(scales, s)
	}
	sort.Ints(scales)

	closest := scales[0]
	for _, s := range scales[1:] {
		if math.Abs(float64(s-scaleValue)) < math.Abs(float64(closest-scaleValue)) {
			closest = s
		}
	}
	return RefineDistanceByScale[closest]
}

type centroidKey struct {
	x, y, z int64
}

// FindRefinementPoints 收集边长超过阈值的三角形重心，
// 重心按毫米级精度取整去重，避免相邻三角形产生近乎重合的加密点
func FindRefinementPoints(mesh *Mesh, threshold float64) []Point3D {
	if threshold <= 0 {
		return nil
	}

	var newPoints []Point3D
	seen := make(map[centroidKey]bool)
	for _, t := range mesh.Triangles {
		e1, e2, e3 := mesh.EdgeLengths(t)
		if e1 <= threshold && e2 <= threshold && e3 <= threshold {
			continue
		}
		c := mesh.Centroid(t)
		key := centroidKey{
			x: int64(math.Round(c.X * 1000)),
			y: int64(math.Round(c.Y * 1000)),
			z: int64(math.Round(c.Z * 1000)),
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		newPoints = append(newPoints, c)
	}
	return newPoints
}

// RefineMesh 单次加密：向超长三角形注入重心点后重新剖分。
// 没有超长三角形时原样返回基础网格。返回值包含新增的加密点，供上层单独出图。
func RefineMesh(base Mesh, points []Point3D, breaklines [][]Point3D, scaleValue int, maxEdge float64) (Mesh, []Point3D) {
	threshold := RefineThresholdForScale(scaleValue)
	refinementPoints := FindRefinementPoints(&base, threshold)
	if len(refinementPoints) == 0 {
		return base, nil
	}

	combined := append(append([]Point3D(nil), points...), refinementPoints...)
	for i := range combined {
		combined[i].ID = i
	}
	refined := CreateTIN(combined, breaklines, maxEdge)
	return refined, refinementPoints
}
