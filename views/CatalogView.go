package views

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/GrainArc/SurveyCAD/config"
	"github.com/GrainArc/SurveyCAD/models"
	"github.com/gin-gonic/gin"
)

// recordToMapping 目录记录转为引擎映射，ScaleJSON非法时退回固定比例1.0
func recordToMapping(rec models.BlockMappingRecord) config.BlockMapping {
	m := config.BlockMapping{
		Name:      rec.Name,
		BlockName: rec.BlockName,
		Scale:     config.ConstantScale(1.0),
	}
	for _, c := range strings.Split(rec.Codes, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			m.Codes = append(m.Codes, c)
		}
	}
	if rec.ScaleJSON != "" {
		var scale config.ScaleResolver
		if err := json.Unmarshal([]byte(rec.ScaleJSON), &scale); err != nil {
			log.Printf("映射 %s 的比例配置非法: %v", rec.Name, err)
		} else {
			m.Scale = scale
		}
	}
	return m
}

// loadGeneratorConfig 组装本次生成的配置：默认配置叠加目录库中维护的映射。
// 同名映射以目录记录为准，目录不可用时只用默认配置
func loadGeneratorConfig() *config.GeneratorConfig {
	cfg := config.DefaultGenerator()

	DB := models.GetDB()
	if DB == nil {
		return cfg
	}
	var records []models.BlockMappingRecord
	if err := DB.Order("sort asc, id asc").Find(&records).Error; err != nil {
		log.Printf("读取块映射目录失败: %v", err)
		return cfg
	}

	index := make(map[string]int)
	for i, m := range cfg.BlockMappings {
		index[m.Name] = i
	}
	for _, rec := range records {
		m := recordToMapping(rec)
		if len(m.Codes) == 0 || m.BlockName == "" {
			continue
		}
		if i, ok := index[m.Name]; ok {
			cfg.BlockMappings[i] = m
		} else {
			cfg.BlockMappings = append(cfg.BlockMappings, m)
		}
	}
	return cfg
}

// 查询块映射目录
func (uc *UserController) GetBlockMappings(c *gin.Context) {
	DB := models.GetDB()
	if DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "目录数据库未初始化"})
		return
	}
	var records []models.BlockMappingRecord
	if err := DB.Order("sort asc, id asc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

// 新增或更新块映射，按Name判重
func (uc *UserController) AddUpdateBlockMapping(c *gin.Context) {
	var rec models.BlockMappingRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rec.Name == "" || rec.BlockName == "" || rec.Codes == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name、block_name、codes不能为空"})
		return
	}
	if rec.ScaleJSON != "" {
		var scale config.ScaleResolver
		if err := json.Unmarshal([]byte(rec.ScaleJSON), &scale); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "比例配置非法: " + err.Error()})
			return
		}
	}

	DB := models.GetDB()
	if DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "目录数据库未初始化"})
		return
	}
	var existing models.BlockMappingRecord
	if err := DB.Where("name = ?", rec.Name).First(&existing).Error; err == nil {
		rec.ID = existing.ID
	}
	if err := DB.Save(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// 删除块映射
func (uc *UserController) DelBlockMapping(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的id"})
		return
	}
	DB := models.GetDB()
	if DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "目录数据库未初始化"})
		return
	}
	if err := DB.Delete(&models.BlockMappingRecord{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
