package routers

import (
	"github.com/GrainArc/SurveyCAD/views"
	"github.com/gin-gonic/gin"
)

func DrawRouters(r *gin.Engine) {
	UserController := &views.UserController{}
	drawRouter := r.Group("/draw")
	{
		drawRouter.POST("/GenerateDrawing", UserController.GenerateDrawing)
		drawRouter.GET("/DownloadDrawing", UserController.DownloadDrawing)
		drawRouter.POST("/PreviewContours", UserController.PreviewContours)

		drawRouter.GET("/GetDeviceName", UserController.GetDeviceName)

		drawRouter.GET("/GetBlockMappings", UserController.GetBlockMappings)
		drawRouter.POST("/AddUpdateBlockMapping", UserController.AddUpdateBlockMapping)
		drawRouter.GET("/DelBlockMapping", UserController.DelBlockMapping)
	}
}
