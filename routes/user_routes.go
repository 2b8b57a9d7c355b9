package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/controllers"
)

func SetupUserRoutes(protected *gin.RouterGroup, userController *controllers.UserController) {
	users := protected.Group("/users")
	{
		users.GET("/:userId/profile", userController.GetUserProfile)
		users.GET("/search", userController.SearchUsers)
		users.GET("/suggested", userController.GetSuggestedUsers)
	}
}
