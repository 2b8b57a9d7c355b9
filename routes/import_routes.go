package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/controllers"
)

func SetupImportRoutes(protected *gin.RouterGroup, importController *controllers.ImportController) {
	imports := protected.Group("/imports")
	{
		imports.POST("/products", importController.ImportProducts)
		imports.GET("/:importId", importController.GetImportJob)
	}
}
