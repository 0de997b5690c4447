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

func normalizeCodes(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			set[c] = true
		}
	}
	return set
}

// 阀门类代码，这类块附带编号注记
var valveCodes = map[string]bool{"zadv": true, "zad": true, "задв": true, "зад": true}

// blockLayerColor 块的输出图层与颜色：优先用图纸里块所在图层的属性
func blockLayerColor(sink Drawing.Sink, layer string) (string, int) {
	if attrs, ok := sink.LayerExists(layer); ok {
		return layer, attrs.Color
	}
	return layer, 7
}

// PlaceStaticBlocks 静态映射放置：测点代码命中映射条目即在点位放一个块，旋转为0。
// 映射条目按配置顺序匹配，首个命中生效。支撑类代码由线路支撑策略单独处理，这里跳过
func PlaceStaticBlocks(rows []models.SurveyPoint, cfg *config.GeneratorConfig,
	sink Drawing.Sink, scaleFactor float64) (int, int) {
	vlCodes := normalizeCodes(cfg.VLSupport.Codes)
	placed, skipped := 0, 0

	for _, r := range rows {
		code := strings.ToLower(strings.TrimSpace(r.Code))
		if code == "" || vlCodes[code] {
			continue
		}

		for _, mapping := range cfg.BlockMappings {
			if !normalizeCodes(mapping.Codes)[code] {
				continue
			}
			scale := mapping.Scale.Resolve(r.Z) * scaleFactor
			layer, clr := blockLayerColor(sink, "Blocks")

			annotation := ""
			if valveCodes[code] && strings.TrimSpace(r.Comment) != "" {
				annotation = "№" + strings.TrimSpace(r.Comment)
			}

			err := sink.AddBlockReference(models.BlockPlacement{
				BlockName: mapping.BlockName,
				X:         r.X, Y: r.Y, Z: r.Z,
				XScale: scale, YScale: scale, ZScale: scale,
				Rotation:   0,
				Layer:      layer,
				Color:      clr,
				Annotation: annotation,
			})
			if err != nil {
				log.Printf("放置块 %s（代码 %s）失败: %v", mapping.BlockName, r.Code, err)
				skipped++
			} else {
				placed++
			}
			break
		}
	}
	return placed, skipped
}

// PlaceLineSupports 线路支撑（电杆）放置：
// 在距离阈值内查找拉线点，按距离取最近的至多两个；
// 一个拉线点时旋转为其方位角，两个时取两方位角的算术平均，没有时为0。
// 拉线数量0/1/2分别对应配置中的不同块
func PlaceLineSupports(rows []models.SurveyPoint, cfg *config.GeneratorConfig,
	sink Drawing.Sink, scaleFactor float64) (int, int) {
	vl := cfg.VLSupport
	supportCodes := normalizeCodes(vl.Codes)
	bracingCodes := normalizeCodes(vl.BracingCodes)
	placed, skipped := 0, 0

	type candidate struct {
		dist  float64
		angle float64
	}

	for i, r := range rows {
		code := strings.ToLower(strings.TrimSpace(r.Code))
		if !supportCodes[code] {
			continue
		}

		var candidates []candidate
		for j, other := range rows {
			if j == i {
				continue
			}
			otherCode := strings.ToLower(strings.TrimSpace(other.Code))
			if !bracingCodes[otherCode] {
				continue
			}
			dist := math.Hypot(other.X-r.X, other.Y-r.Y)
			if dist <= vl.DistanceThreshold {
				candidates = append(candidates, candidate{
					dist:  dist,
					angle: math.Atan2(other.Y-r.Y, other.X-r.X) * 180 / math.Pi,
				})
			}
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].dist < candidates[b].dist
		})

		count := len(candidates)
		if count > 2 {
			count = 2
		}
		var rotation float64
		switch count {
		case 1:
			rotation = candidates[0].angle
		case 2:
			rotation = (candidates[0].angle + candidates[1].angle) / 2
		}

		blockName := vl.Blocks[count]
		if blockName == "" {
			continue
		}
		scale := vl.Scale.Resolve(r.Z) * scaleFactor
		layer, clr := blockLayerColor(sink, "Blocks")

		err := sink.AddBlockReference(models.BlockPlacement{
			BlockName: blockName,
			X:         r.X, Y: r.Y, Z: r.Z,
			XScale: scale, YScale: scale, ZScale: scale,
			Rotation: rotation,
			Layer:    layer,
			Color:    clr,
		})
		if err != nil {
			log.Printf("放置支撑块 %s 失败: %v", blockName, err)
			skipped++
		} else {
			placed++
		}
	}
	return placed, skipped
}
