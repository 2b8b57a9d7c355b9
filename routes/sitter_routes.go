package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/controllers"
)

func SetupSitterRoutes(protected *gin.RouterGroup, sitterController *controllers.SitterController) {
	sitters := protected.Group("/sitters")
	{
		sitters.POST("", sitterController.CreateSitterListing)
		sitters.PUT("/me", sitterController.UpdateSitterListing)
		sitters.GET("", sitterController.SearchSitters)
		sitters.GET("/nearby", sitterController.GetNearbySitters)
		sitters.GET("/:sitterId", sitterController.GetSitter)
	}
}
