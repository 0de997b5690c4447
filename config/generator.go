package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ScaleBreakpoint 按高度分段的比例断点，Scale在高度不超过MaxHeight时生效
type ScaleBreakpoint struct {
	MaxHeight float64 `json:"max_height"`
	Scale     float64 `json:"scale"`
}

// ScaleResolver 块比例的解析规则：固定值或按高度分段。
// 取代配置中嵌入函数的做法，保证配置可序列化
type ScaleResolver struct {
	Kind        string            `json:"kind"` // "constant" 或 "height"
	Value       float64           `json:"value,omitempty"`
	Breakpoints []ScaleBreakpoint `json:"breakpoints,omitempty"`
}

// ConstantScale 构造固定比例
func ConstantScale(v float64) ScaleResolver {
	return ScaleResolver{Kind: "constant", Value: v}
}

// HeightScale 构造按高度分段的比例，断点须按高度升序
func HeightScale(breakpoints ...ScaleBreakpoint) ScaleResolver {
	return ScaleResolver{Kind: "height", Breakpoints: breakpoints}
}

// Resolve 根据高度解析比例值，无法解析时返回1.0
func (r ScaleResolver) Resolve(height float64) float64 {
	switch r.Kind {
	case "height":
		for _, bp := range r.Breakpoints {
			if height <= bp.MaxHeight {
				return bp.Scale
			}
		}
		if len(r.Breakpoints) > 0 {
			return r.Breakpoints[len(r.Breakpoints)-1].Scale
		}
		return 1.0
	case "constant":
		if r.Value > 0 {
			return r.Value
		}
		return 1.0
	default:
		return 1.0
	}
}

// BlockMapping 测点代码到块的静态映射，切片顺序即匹配优先级
type BlockMapping struct {
	Name      string        `json:"name"`       // 映射条目名
	BlockName string        `json:"block_name"` // 模板中的块名
	Codes     []string      `json:"codes"`      // 匹配的测点代码（不区分大小写）
	Scale     ScaleResolver `json:"scale"`
}

// VLSupportConfig 线路支撑（电杆）推断配置
type VLSupportConfig struct {
	Codes             []string       `json:"codes"`         // 支撑点代码
	BracingCodes      []string       `json:"bracing_codes"` // 拉线点代码
	Blocks            map[int]string `json:"blocks"`        // 拉线数量0/1/2对应的块名
	Scale             ScaleResolver  `json:"scale"`
	DistanceThreshold float64        `json:"distance_threshold"`
}

// TowerConfig 铁塔四边形重建配置
type TowerConfig struct {
	Codes               []string `json:"codes"`
	Prefixes            []string `json:"prefixes"`
	GroupSize           int      `json:"group_size"`
	MinPoints           int      `json:"min_points"`
	RightAngleTolerance float64  `json:"right_angle_tolerance"` // 相对容差
	MaxSpan             float64  `json:"max_span"`              // 同一铁塔点间最大跨距
	BlockName           string   `json:"block_name"`
	Layer               string   `json:"layer"`
	BaseWidth           float64  `json:"base_width"`  // 模板缺块时的兜底宽度
	BaseHeight          float64  `json:"base_height"` // 模板缺块时的兜底高度
	ZScale              float64  `json:"zscale"`
	MinScale            float64  `json:"min_scale"`
}

// VegetationConfig 植被范围配置
type VegetationConfig struct {
	Prefixes       []string `json:"prefixes"`        // 植被边界代码前缀
	ForestPrefixes []string `json:"forest_prefixes"` // 按散点填块处理的前缀
	BrushPrefixes  []string `json:"brush_prefixes"`  // 按点状图案填充处理的前缀
	BlockName      string   `json:"block_name"`      // 林区散点块
	DefaultLayer   string   `json:"default_layer"`
	MinSpacing     float64  `json:"min_spacing"`
	MaxAttempts    int      `json:"max_attempts"`
}

// GeneratorConfig 生成一张图纸所需的全部引擎配置。
// 每次生成前构造一份并逐层传入，组件不读取任何包级可变状态
type GeneratorConfig struct {
	BlockMappings        []BlockMapping    `json:"block_mappings"`
	VLSupport            VLSupportConfig   `json:"vl_support"`
	Tower                TowerConfig       `json:"tower"`
	Vegetation           VegetationConfig  `json:"vegetation"`
	PolylinePrefixes     []string          `json:"polyline_prefixes"`
	PolylineLayerMapping map[string]string `json:"polyline_layer_mapping"`
	MaxEdgeLength        float64           `json:"max_edge_length"`
	ContourIntervals     []float64         `json:"contour_intervals"`
	LabelColors          map[string]int    `json:"label_colors"`
}

// DefaultGenerator 返回与基础模板配套的默认配置
func DefaultGenerator() *GeneratorConfig {
	return &GeneratorConfig{
		BlockMappings: []BlockMapping{
			{Name: "Moln", BlockName: "109a", Codes: []string{"moln", "молн"}, Scale: ConstantScale(1.0)},
			{Name: "Fonar", BlockName: "110", Codes: []string{"fonar", "фонар"}, Scale: ConstantScale(1.0)},
			{Name: "TrZn", BlockName: "206-1", Codes: []string{"trzn", "gazzn", "укнефть", "уккм"}, Scale: ConstantScale(1.0)},
			{Name: "KIP", BlockName: "129-1", Codes: []string{"kip", "skip", "kik", "кик", "кип"}, Scale: ConstantScale(1.0)},
			{Name: "Anshlag", BlockName: "аншлаг", Codes: []string{"anshlag", "аншлаг"}, Scale: ConstantScale(1.0)},
			{Name: "Est", BlockName: "107-1", Codes: []string{"est", "st est", "st est aroch", "мтэст"}, Scale: ConstantScale(1.0)},
			{Name: "KabZNM", BlockName: "206-3", Codes: []string{"kabznm", "кабзнм", "укмет"}, Scale: ConstantScale(1.0)},
			{Name: "KabZNB", BlockName: "119", Codes: []string{"kabznb", "кабзнб"}, Scale: ConstantScale(1.0)},
			{Name: "Zadv", BlockName: "26l", Codes: []string{"zadv", "zad", "задв", "зад"}, Scale: ConstantScale(1.0)},
			{Name: "Rodnik", BlockName: "311", Codes: []string{"rodnik", "rod", "родник"}, Scale: ConstantScale(1.0)},
			{Name: "Svecha", BlockName: "091-2", Codes: []string{"svecha", "svech", "свеча", "свч"}, Scale: ConstantScale(1.0)},
			{Name: "SOD", BlockName: "Zavod", Codes: []string{"sod", "сод"}, Scale: ConstantScale(1.0)},
			{Name: "STB", BlockName: "1 stb", Codes: []string{"stb", "стб"}, Scale: ConstantScale(1.0)},
			{Name: "KolVod", BlockName: "117-2", Codes: []string{"kolv", "колвод", "водопровод"}, Scale: ConstantScale(1.0)},
			{Name: "KolKan", BlockName: "117-3", Codes: []string{"kolk", "колкан", "канализация"}, Scale: ConstantScale(1.0)},
			{Name: "KolLiv", BlockName: "117-4", Codes: []string{"kolliv", "коллив", "ливневка"}, Scale: ConstantScale(1.0)},
			{Name: "KolDr", BlockName: "117-5", Codes: []string{"колдр", "дренаж", "дренажные трубопроводы"}, Scale: ConstantScale(1.0)},
			{Name: "KolGaz", BlockName: "117-6", Codes: []string{"kolgaz", "колгаз"}, Scale: ConstantScale(1.0)},
			{Name: "Vantuz", BlockName: "117-7", Codes: []string{"vantuz", "вантуз"}, Scale: ConstantScale(1.0)},
			{Name: "KolT", BlockName: "117-8", Codes: []string{"kolt", "колтеп", "колт"}, Scale: ConstantScale(1.0)},
			{Name: "KolEl", BlockName: "117-9", Codes: []string{"kolel", "колэл"}, Scale: ConstantScale(1.0)},
			{Name: "KolSV", BlockName: "117-10", Codes: []string{"kolsv", "колсв"}, Scale: ConstantScale(1.0)},
			{Name: "KolVozd", BlockName: "117-11", Codes: []string{"kolvozd", "колвозд"}, Scale: ConstantScale(1.0)},
			{Name: "KolMaz", BlockName: "117-12", Codes: []string{"kolmaz", "колмаз"}, Scale: ConstantScale(1.0)},
			{Name: "KolBenz", BlockName: "117-13", Codes: []string{"kolbenz", "колбенз"}, Scale: ConstantScale(1.0)},
			{Name: "KolZol", BlockName: "117-14", Codes: []string{"kolzol", "колзол"}, Scale: ConstantScale(1.0)},
			{Name: "OpyskTr", BlockName: "126", Codes: []string{"opysktr", "trvzem", "опусктр", "трвзем"}, Scale: ConstantScale(1.0)},
			{Name: "Transform", BlockName: "113b-2", Codes: []string{"transform", "трансформ"}, Scale: ConstantScale(1.0)},
			{Name: "Shkaf", BlockName: "140-2", Codes: []string{"shkaf", "шкаф"}, Scale: ConstantScale(1.0)},
			{Name: "Derevo", BlockName: "390-1", Codes: []string{"der", "derevo", "дер", "дерево"}, Scale: ConstantScale(1.0)},
			{Name: "VLDer", BlockName: "115-7c", Codes: []string{"vlder", "влдер"}, Scale: ConstantScale(1.0)},
			{Name: "VLMet", BlockName: "115-7a", Codes: []string{"vlmet", "влмет"}, Scale: ConstantScale(1.0)},
		},
		VLSupport: VLSupportConfig{
			Codes:        []string{"vl", "вл", "vlgb"},
			BracingCodes: []string{"op", "оп", "vlpodp"},
			Blocks: map[int]string{
				0: "115-9",
				1: "115-10",
				2: "115-10-2",
			},
			Scale:             ConstantScale(1.0),
			DistanceThreshold: 5.0,
		},
		Tower: TowerConfig{
			Codes:               []string{"tower", "вышка"},
			Prefixes:            []string{"tower", "вышка"},
			GroupSize:           4,
			MinPoints:           3,
			RightAngleTolerance: 0.05,
			MaxSpan:             25.0,
			BlockName:           "Tower",
			Layer:               "Tower",
			BaseWidth:           1.0,
			BaseHeight:          1.0,
			ZScale:              1.0,
			MinScale:            0.01,
		},
		Vegetation: VegetationConfig{
			Prefixes:       []string{"les", "kust", "лес", "куст", "sad", "сад"},
			ForestPrefixes: []string{"les", "лес"},
			BrushPrefixes:  []string{"kust", "куст"},
			BlockName:      "368",
			DefaultLayer:   "(026) Растительность",
			MinSpacing:     10.0,
			MaxAttempts:    2000,
		},
		PolylinePrefixes: []string{
			"k", "gaz", "kabsv", "neft", "tr", "elkab", "voda", "zab",
			"brv", "brn", "pod", "votk", "notk",
		},
		PolylineLayerMapping: map[string]string{
			"gaz":  "(036) Газопроводы",
			"neft": "(014) Нефтепроводы магистральные",
			"voda": "(017) Водоснабжение",
		},
		MaxEdgeLength:    100.0,
		ContourIntervals: []float64{0.5, 1.0, 2.0, 5.0},
		LabelColors: map[string]int{
			"Numbers":    10,
			"Codes":      200,
			"Elevations": 34,
			"Comments":   250,
		},
	}
}

// LoadGenerator 从JSON文件读取配置覆盖默认值，文件不存在时直接返回默认配置
func LoadGenerator(path string) (*GeneratorConfig, error) {
	cfg := DefaultGenerator()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return cfg, nil
}
