package views

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/GrainArc/SurveyCAD/Drawing"
	"github.com/GrainArc/SurveyCAD/DxfGenerator"
	"github.com/GrainArc/SurveyCAD/Tin"
	"github.com/GrainArc/SurveyCAD/config"
	"github.com/GrainArc/SurveyCAD/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GenerateSettings 生成选项，未给的布尔开关按默认值处理
type GenerateSettings struct {
	Scale           float64 `json:"scale"`
	TinEnabled      *bool   `json:"tin_enabled"`
	RefineTin       *bool   `json:"refine_tin"`
	TinScaleValue   int     `json:"tin_scale_value"`
	ContourInterval float64 `json:"contour_interval"`
	ShowPolylines   *bool   `json:"show_polylines"`
	ShowBlocks      *bool   `json:"show_blocks"`
	ShowTowers      *bool   `json:"show_towers"`
	ShowLabels      *bool   `json:"show_labels"`
}

type GenerateRequest struct {
	Points   []models.SurveyPoint `json:"points"`
	Settings GenerateSettings     `json:"settings"`
}

func applySettings(opts DxfGenerator.Options, s GenerateSettings) DxfGenerator.Options {
	if s.Scale > 0 {
		opts.ScaleFactor = s.Scale
	}
	if s.TinEnabled != nil {
		opts.TinEnabled = *s.TinEnabled
	}
	if s.RefineTin != nil {
		opts.RefineTin = *s.RefineTin
	}
	if s.TinScaleValue > 0 {
		opts.TinScaleValue = s.TinScaleValue
	}
	if s.ContourInterval > 0 {
		opts.ContourInterval = s.ContourInterval
	}
	if s.ShowPolylines != nil {
		opts.ShowPolylines = *s.ShowPolylines
	}
	if s.ShowBlocks != nil {
		opts.ShowBlocks = *s.ShowBlocks
	}
	if s.ShowTowers != nil {
		opts.ShowTowers = *s.ShowTowers
	}
	if s.ShowLabels != nil {
		opts.ShowLabels = *s.ShowLabels
	}
	return opts
}

// loadDrawingTemplate 加载基础模板，模板缺失时返回nil并降级运行
func loadDrawingTemplate() *Drawing.Template {
	if config.Template == "" {
		return nil
	}
	tpl, err := Drawing.LoadTemplate(config.Template)
	if err != nil {
		log.Printf("加载模板 %s 失败: %v", config.Template, err)
		return nil
	}
	return tpl
}

// 测点生成DXF图纸
func (uc *UserController) GenerateDrawing(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Points) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "测点列表为空"})
		return
	}

	cfg := loadGeneratorConfig()
	opts := applySettings(DxfGenerator.DefaultOptions(), req.Settings)

	doc := Drawing.NewDocument(loadDrawingTemplate())
	summary := DxfGenerator.Generate(req.Points, cfg, doc, opts)

	taskid := uuid.New().String()
	outDir := filepath.Join(config.Download, "DXF")
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	outPath := filepath.Join(outDir, taskid+".dxf")
	if err := Drawing.ExportDXF(doc, outPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bsm":     taskid,
		"file":    taskid + ".dxf",
		"summary": summary,
	})
}

// 下载已生成图纸
func (uc *UserController) DownloadDrawing(c *gin.Context) {
	name := c.Query("file")
	if name == "" || name != filepath.Base(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的文件名"})
		return
	}
	path := filepath.Join(config.Download, "DXF", name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "文件不存在"})
		return
	}
	c.FileAttachment(path, name)
}

type ContourRequest struct {
	Points   []models.SurveyPoint `json:"points"`
	Interval float64              `json:"interval"`
	Refine   bool                 `json:"refine"`
	Scale    int                  `json:"scale"`
}

// 等高线预览，返回GeoJSON线要素
func (uc *UserController) PreviewContours(c *gin.Context) {
	var req ContourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Points) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "测点不足3个"})
		return
	}
	if req.Interval <= 0 {
		req.Interval = 0.5
	}

	cfg := loadGeneratorConfig()
	points := make([]Tin.Point3D, len(req.Points))
	for i, r := range req.Points {
		points[i] = Tin.Point3D{X: r.X, Y: r.Y, Z: r.Z, ID: i}
	}
	breaklines := DxfGenerator.ExtractBreaklines(req.Points, cfg)

	maxEdge := cfg.MaxEdgeLength
	if maxEdge <= 0 {
		maxEdge = Tin.DefaultMaxEdge
	}
	mesh := Tin.CreateTIN(points, breaklines, maxEdge)
	if mesh.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "测点无法构成三角网"})
		return
	}
	if req.Refine {
		scale := req.Scale
		if scale <= 0 {
			scale = 1000
		}
		mesh, _ = Tin.RefineMesh(mesh, points, breaklines, scale, maxEdge)
	}

	fc := geojson.NewFeatureCollection()
	for _, contour := range Tin.ExtractContours(&mesh, req.Interval) {
		line := make(orb.LineString, len(contour.Points))
		for i, p := range contour.Points {
			line[i] = orb.Point{p.X, p.Y}
		}
		f := geojson.NewFeature(line)
		f.Properties["level"] = contour.Level
		f.Properties["closed"] = contour.Closed
		fc.Append(f)
	}
	c.JSON(http.StatusOK, fc)
}
