package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/controllers"
)

func SetupFollowRoutes(protected *gin.RouterGroup, followController *controllers.FollowController) {
	users := protected.Group("/users")
	{
		users.POST("/:userId/follow-request", followController.RequestFollow)
		users.DELETE("/:userId/follow-request", followController.CancelFollowRequest)
		users.DELETE("/:userId/follow", followController.Unfollow)
		users.GET("/:userId/followers", followController.GetUserFollowers)
		users.GET("/:userId/following", followController.GetUserFollowing)
	}

	requests := protected.Group("/follow-requests")
	{
		requests.GET("/pending", followController.GetPendingFollowRequests)
		requests.POST("/:requestId/respond", followController.RespondToFollowRequest)
	}
}
