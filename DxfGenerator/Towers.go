package DxfGenerator

import (
	"log"
	"math"
	"sort"
	"strings"

	"github.com/GrainArc/SurveyCAD/Drawing"
	"github.com/GrainArc/SurveyCAD/config"
	"github.com/GrainArc/SurveyCAD/models"
)

type towerPoint struct {
	Row     int
	X, Y, Z float64
}

// clusterByDistance 按距离阈值连通聚类：阈值内的点对相邻（含恰好等于阈值），
// 连通分量即一个聚类。从行号最小的点开始BFS，邻接按下标顺序展开，结果顺序可重现
func clusterByDistance(points []towerPoint, threshold float64) [][]int {
	if len(points) == 0 {
		return nil
	}

	adjacency := make([][]int, len(points))
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if math.Hypot(points[j].X-points[i].X, points[j].Y-points[i].Y) <= threshold {
				adjacency[i] = append(adjacency[i], j)
				adjacency[j] = append(adjacency[j], i)
			}
		}
	}

	visited := make([]bool, len(points))
	var clusters [][]int
	for i := range points {
		if visited[i] {
			continue
		}
		var component []int
		queue := []int{i}
		visited[i] = true
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]
			component = append(component, node)
			for _, nb := range adjacency[node] {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		clusters = append(clusters, component)
	}
	return clusters
}

// inferFourthPoint 由三个点推断矩形的第四个角点。
// 依次把每个点当作直角顶点检验勾股关系（相对容差），
// 满足时按平行四边形补全第四点，高程取三点平均
func inferFourthPoint(points []towerPoint, tolerance float64) (towerPoint, bool) {
	if len(points) != 3 {
		return towerPoint{}, false
	}

	for idx, corner := range points {
		var others []towerPoint
		for j, p := range points {
			if j != idx {
				others = append(others, p)
			}
		}
		d1Sq := (corner.X-others[0].X)*(corner.X-others[0].X) + (corner.Y-others[0].Y)*(corner.Y-others[0].Y)
		d2Sq := (corner.X-others[1].X)*(corner.X-others[1].X) + (corner.Y-others[1].Y)*(corner.Y-others[1].Y)
		diagSq := (others[0].X-others[1].X)*(others[0].X-others[1].X) + (others[0].Y-others[1].Y)*(others[0].Y-others[1].Y)
		if diagSq == 0 {
			continue
		}
		if math.Abs(d1Sq+d2Sq-diagSq) <= tolerance*diagSq {
			return towerPoint{
				X: others[0].X + others[1].X - corner.X,
				Y: others[0].Y + others[1].Y - corner.Y,
				Z: (points[0].Z + points[1].Z + points[2].Z) / 3,
			}, true
		}
	}
	return towerPoint{}, false
}

// collectTowerGroups 收集铁塔候选点：代码完整命中或前缀命中，按命中键分组。
// 键顺序与首次出现顺序一致
func collectTowerGroups(rows []models.SurveyPoint, tower config.TowerConfig) ([]string, map[string][]towerPoint) {
	validCodes := normalizeCodes(tower.Codes)
	var prefixes []string
	for _, p := range tower.Prefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}

	var order []string
	groups := make(map[string][]towerPoint)
	for row, r := range rows {
		code := strings.ToLower(strings.TrimSpace(r.Code))
		if code == "" {
			continue
		}

		key := ""
		if validCodes[code] {
			key = code
		} else {
			for _, p := range prefixes {
				if strings.HasPrefix(code, p) {
					key = p
					break
				}
			}
		}
		if key == "" {
			continue
		}

		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], towerPoint{Row: row, X: r.X, Y: r.Y, Z: r.Z})
	}
	return order, groups
}

// PlaceTowers 铁塔四边形重建：
// 同组点按跨距阈值聚类，三点聚类先补全第四角；
// 对合格的四点聚类求质心、按极角排序、取最长边定主轴方向，
// 再把各点投影到主轴及其法向求延展，与块包围盒之比即X/Y比例
func PlaceTowers(rows []models.SurveyPoint, cfg *config.GeneratorConfig, sink Drawing.Sink) (int, int) {
	tower := cfg.Tower
	if tower.BlockName == "" {
		log.Println("铁塔配置缺少块名，跳过铁塔放置")
		return 0, 0
	}

	groupSize := tower.GroupSize
	if groupSize < 2 {
		groupSize = 4
	}
	minPoints := tower.MinPoints
	if minPoints <= 0 || minPoints > groupSize {
		minPoints = groupSize
	}

	// 块包围盒：模板缺块时用配置兜底
	blockWidth, blockHeight, ok := sink.BlockBoundingBox(tower.BlockName)
	if !ok {
		blockWidth = tower.BaseWidth
		blockHeight = tower.BaseHeight
	}
	if blockWidth <= 0 {
		blockWidth = 1.0
	}
	if blockHeight <= 0 {
		blockHeight = 1.0
	}

	placed, skipped := 0, 0
	order, groups := collectTowerGroups(rows, tower)
	for _, key := range order {
		points := groups[key]
		clusters := clusterByDistance(points, tower.MaxSpan)

		for _, component := range clusters {
			if len(component) < minPoints || len(component) > groupSize {
				log.Printf("铁塔组 %s 有 %d 个点（期望 %d-%d），跳过", key, len(component), minPoints, groupSize)
				skipped++
				continue
			}

			cluster := make([]towerPoint, len(component))
			for i, idx := range component {
				cluster[i] = points[idx]
			}

			if len(cluster) == 3 && minPoints <= 3 && groupSize >= 4 {
				fourth, ok := inferFourthPoint(cluster, tower.RightAngleTolerance)
				if !ok {
					log.Printf("铁塔组 %s 无法推断第四个角点，跳过", key)
					skipped++
					continue
				}
				cluster = append(cluster, fourth)
			}
			if len(cluster) != groupSize {
				log.Printf("铁塔组 %s 解析为 %d 个点，跳过放置", key, len(cluster))
				skipped++
				continue
			}

			if ref, ok := resolveTowerPlacement(key, cluster, tower, blockWidth, blockHeight, sink); ok {
				if err := sink.AddBlockReference(ref); err != nil {
					log.Printf("放置铁塔块 %s 失败: %v", tower.BlockName, err)
					skipped++
				} else {
					placed++
				}
			} else {
				skipped++
			}
		}
	}
	return placed, skipped
}

// resolveTowerPlacement 由四点聚类解析块的位置、旋转与比例
func resolveTowerPlacement(key string, cluster []towerPoint, tower config.TowerConfig,
	blockWidth, blockHeight float64, sink Drawing.Sink) (models.BlockPlacement, bool) {
	n := len(cluster)
	var cx, cy, cz float64
	for _, p := range cluster {
		cx += p.X
		cy += p.Y
		cz += p.Z
	}
	cx /= float64(n)
	cy /= float64(n)
	cz /= float64(n)

	// 绕质心按极角排序，保证一致的环绕顺序
	ordered := append([]towerPoint(nil), cluster...)
	sort.SliceStable(ordered, func(a, b int) bool {
		return math.Atan2(ordered[a].Y-cy, ordered[a].X-cx) < math.Atan2(ordered[b].Y-cy, ordered[b].X-cx)
	})

	type towerEdge struct {
		length, dx, dy float64
	}
	edges := make([]towerEdge, n)
	for i := 0; i < n; i++ {
		next := ordered[(i+1)%n]
		dx := next.X - ordered[i].X
		dy := next.Y - ordered[i].Y
		edges[i] = towerEdge{length: math.Hypot(dx, dy), dx: dx, dy: dy}
	}

	major := 0
	for i := 1; i < n; i++ {
		if edges[i].length > edges[major].length {
			major = i
		}
	}
	for _, e := range edges {
		if e.length <= 0 {
			log.Printf("铁塔组 %s 几何退化，跳过", key)
			return models.BlockPlacement{}, false
		}
	}

	rotation := math.Atan2(edges[major].dy, edges[major].dx) * 180 / math.Pi
	ux := edges[major].dx / edges[major].length
	uy := edges[major].dy / edges[major].length
	vx := -uy
	vy := ux

	minU, maxU := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, p := range cluster {
		dx := p.X - cx
		dy := p.Y - cy
		u := dx*ux + dy*uy
		v := dx*vx + dy*vy
		minU = math.Min(minU, u)
		maxU = math.Max(maxU, u)
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	minScale := tower.MinScale
	if minScale <= 0 {
		minScale = 0.01
	}
	xscale := math.Max((maxU-minU)/blockWidth, minScale)
	yscale := math.Max((maxV-minV)/blockHeight, minScale)

	layer := tower.Layer
	if layer == "" {
		layer = "Tower"
	}
	_, clr := blockLayerColor(sink, layer)

	zscale := tower.ZScale
	if zscale <= 0 {
		zscale = 1.0
	}

	return models.BlockPlacement{
		BlockName: tower.BlockName,
		X:         cx, Y: cy, Z: cz,
		XScale: xscale, YScale: yscale, ZScale: zscale,
		Rotation: rotation,
		Layer:    layer,
		Color:    clr,
	}, true
}
