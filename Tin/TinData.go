package Tin

// Point3D 表示一个三维点
type Point3D struct {
	X, Y, Z float64
	ID      int
}

// Triangle 用顶点索引表示一个三角形，顶点按XY投影逆时针排列
type Triangle [3]int

// Mesh 三角不规则网络，顶点数组加索引三角形
type Mesh struct {
	Vertices  []Point3D
	Triangles []Triangle
}

// ContourLine 某一高程层的等高线
type ContourLine struct {
	Level  float64
	Points []Point3D
	Closed bool
}

const (
	// 顶点合并容差（XY平面）
	MergeTolerance = 0.01
	// 退化三角形的最小投影面积
	AreaEpsilon = 1e-6
	// 默认最大边长，超过该值的三角形视为连接了无关测点
	DefaultMaxEdge = 100.0
	// 等高线端点匹配容差
	ContourTolerance = 0.01
)

// 判断网格是否为空
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// MinMaxZ 返回网格顶点的最小和最大高程
func (m *Mesh) MinMaxZ() (float64, float64) {
	if len(m.Vertices) == 0 {
		return 0, 0
	}
	minZ, maxZ := m.Vertices[0].Z, m.Vertices[0].Z
	for _, v := range m.Vertices[1:] {
		if v.Z < minZ {
			minZ = v.Z
		}
		if v.Z > maxZ {
			maxZ = v.Z
		}
	}
	return minZ, maxZ
}

// EdgeLengths 返回三角形三条边的XY投影长度
func (m *Mesh) EdgeLengths(t Triangle) (float64, float64, float64) {
	a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	return distance2D(a, b), distance2D(b, c), distance2D(c, a)
}

// Area2D 返回三角形的XY投影面积（逆时针为正）
func (m *Mesh) Area2D(t Triangle) float64 {
	a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	return cross2D(a, b, c) / 2
}

// Centroid 返回三角形的三维重心
func (m *Mesh) Centroid(t Triangle) Point3D {
	a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	return Point3D{
		X: (a.X + b.X + c.X) / 3,
		Y: (a.Y + b.Y + c.Y) / 3,
		Z: (a.Z + b.Z + c.Z) / 3,
	}
}
