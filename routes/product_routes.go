package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/controllers"
)

func SetupProductRoutes(protected *gin.RouterGroup, productController *controllers.ProductController) {
	products := protected.Group("/products")
	{
		products.POST("", productController.CreateProduct)
		products.GET("", productController.GetProducts)
		products.GET("/:productId", productController.GetProduct)
	}

	favorites := protected.Group("/favorites")
	{
		favorites.POST("", productController.ToggleFavorite)
		favorites.GET("", productController.GetFavorites)
	}
}
