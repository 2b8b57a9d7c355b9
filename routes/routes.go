package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/controllers"
	"github.com/parent-pal/api-go/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize controllers
	uploadController := controllers.NewUploadController(db)
	authController := controllers.NewAuthController(db, uploadController)
	userController := controllers.NewUserController(db)
	followController := controllers.NewFollowController(db)
	sitterController := controllers.NewSitterController(db)
	productController := controllers.NewProductController(db)
	importController := controllers.NewImportController(db)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/auth/google", authController.GoogleLogin)
		public.POST("/uploads/avatar/temp", uploadController.GetAvatarTempURL)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		SetupUserRoutes(protected, userController)
		SetupFollowRoutes(protected, followController)
		SetupSitterRoutes(protected, sitterController)
		SetupProductRoutes(protected, productController)
		SetupImportRoutes(protected, importController)
		SetupUploadRoutes(protected, uploadController)
	}
}
