package views

import (
	"net/http"

	"github.com/GrainArc/SurveyCAD/config"
	"github.com/gin-gonic/gin"
)

// 查询服务部署名
func (uc *UserController) GetDeviceName(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"DeviceName": config.DeviceName})
}
