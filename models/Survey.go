package models

// SurveyPoint 一行已清洗的测量点数据，坐标字段在上游已完成数值校验
type SurveyPoint struct {
	Point   string  `json:"point"` // 点号
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Code    string  `json:"code"`
	Comment string  `json:"comment"`
}

// BlockPlacement 块放置引擎的输出：一个带位置、比例、旋转的块引用
type BlockPlacement struct {
	BlockName  string  `json:"block_name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	XScale     float64 `json:"xscale"`
	YScale     float64 `json:"yscale"`
	ZScale     float64 `json:"zscale"`
	Rotation   float64 `json:"rotation"` // 角度制
	Layer      string  `json:"layer"`
	Color      int     `json:"color"`
	Annotation string  `json:"annotation,omitempty"` // 例如阀门编号，供下游标注
}

// GenerationSummary 单次生成的统计结果。
// 任何要素级失败只计数不中断，引擎总是返回尽力而为的结果
type GenerationSummary struct {
	BasePoints         int `json:"base_points"`
	BaseTriangles      int `json:"base_triangles"`
	RefinedPoints      int `json:"refined_points"`
	RefinedTriangles   int `json:"refined_triangles"`
	Breaklines         int `json:"breaklines"`
	ContourLines       int `json:"contour_lines"`
	BlocksPlaced       int `json:"blocks_placed"`
	BlocksSkipped      int `json:"blocks_skipped"`
	TowersPlaced       int `json:"towers_placed"`
	TowersSkipped      int `json:"towers_skipped"`
	VegetationContours int `json:"vegetation_contours"`
	ScatteredBlocks    int `json:"scattered_blocks"`
	SkippedRows        int `json:"skipped_rows"`
}
