package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("/avatar/confirm", uploadController.ConfirmAvatarUpload)
		uploads.POST("/product-photo", uploadController.GetProductPhotoURL)
		// Object keys contain slashes, so these take catch-all params
		uploads.DELETE("/avatar/temp/*tempKey", uploadController.CleanupTempAvatar)
		uploads.DELETE("/file/*key", uploadController.DeleteFile)
	}
}
