package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/parent-pal/api-go/models"
	"github.com/parent-pal/api-go/utils"
	"gorm.io/gorm"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

// CreateProduct godoc
// @Summary Recommend a product
// @Tags products
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /products [post]
func (pc *ProductController) CreateProduct(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Name     string   `json:"name" binding:"required,max=200"`
		Brand    string   `json:"brand"`
		Category string   `json:"category" binding:"required"`
		AgeRange string   `json:"ageRange"`
		Price    float64  `json:"price" binding:"gte=0"`
		ImageURL string   `json:"imageUrl"`
		Tags     []string `json:"tags"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		Name:            input.Name,
		Brand:           input.Brand,
		Category:        input.Category,
		AgeRange:        input.AgeRange,
		Price:           input.Price,
		ImageURL:        input.ImageURL,
		Tags:            pq.StringArray(input.Tags),
		RecommendedByID: currentUser.UserID,
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    product,
		Message: "Product recommended successfully",
	})
}

// GetProducts godoc
// @Summary List recommended products
// @Tags products
// @Produce json
// @Param category query string false "Category filter"
// @Param tag query string false "Tag filter"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{}
// @Router /products [get]
func (pc *ProductController) GetProducts(c *gin.Context) {
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	db := pc.DB.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}
	if tag := c.Query("tag"); tag != "" {
		db = db.Where("? = ANY(tags)", tag)
	}
	if ageRange := c.Query("ageRange"); ageRange != "" {
		db = db.Where("age_range = ?", ageRange)
	}

	var total int64
	db.Count(&total)

	var products []models.Product
	result := db.Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&products)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// GetProduct godoc
// @Summary Get a single product
// @Tags products
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Router /products/{productId} [get]
func (pc *ProductController) GetProduct(c *gin.Context) {
	productID := c.Param("productId")

	var product models.Product
	if err := pc.DB.Preload("RecommendedBy").First(&product, productID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":            product.ID,
			"name":          product.Name,
			"brand":         product.Brand,
			"category":      product.Category,
			"ageRange":      product.AgeRange,
			"price":         product.Price,
			"imageUrl":      product.ImageURL,
			"tags":          product.Tags,
			"recommendedBy": gin.H{"id": product.RecommendedByID, "fullName": product.RecommendedBy.FullName()},
			"createdAt":     product.CreatedAt,
		},
	})
}

// ToggleFavorite godoc
// @Summary Favorite or unfavorite a product or sitter
// @Description Toggles favorite status; response carries the new state
// @Tags products
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /favorites [post]
func (pc *ProductController) ToggleFavorite(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		ItemType string `json:"item_type" binding:"required,oneof=product sitter"`
		ItemID   uint   `json:"item_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The item must exist before it can be favorited
	switch input.ItemType {
	case models.FavoriteProduct:
		var product models.Product
		if err := pc.DB.First(&product, input.ItemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
	case models.FavoriteSitter:
		var sitter models.Sitter
		if err := pc.DB.First(&sitter, input.ItemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sitter not found"})
			return
		}
	}

	var existingFavorite models.Favorite
	result := pc.DB.Where("user_id = ? AND item_type = ? AND item_id = ?",
		currentUser.UserID, input.ItemType, input.ItemID).First(&existingFavorite)

	tx := pc.DB.Begin()

	if result.Error == gorm.ErrRecordNotFound {
		favorite := models.Favorite{
			UserID:    currentUser.UserID,
			ItemType:  input.ItemType,
			ItemID:    input.ItemID,
			CreatedAt: time.Now(),
		}

		if err := tx.Create(&favorite).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
			return
		}

		activity := models.ActivityLog{
			UserID:    currentUser.UserID,
			Activity:  "favorite_added",
			CreatedAt: time.Now(),
		}
		if input.ItemType == models.FavoriteProduct {
			activity.ProductID = input.ItemID
		} else {
			activity.SitterID = input.ItemID
		}

		if err := tx.Create(&activity).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity log"})
			return
		}

		tx.Commit()
		c.JSON(http.StatusOK, gin.H{"favorited": true})
	} else {
		if err := tx.Delete(&existingFavorite).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
			return
		}

		tx.Commit()
		c.JSON(http.StatusOK, gin.H{"favorited": false})
	}
}

// GetFavorites godoc
// @Summary List the caller's favorites
// @Tags products
// @Produce json
// @Param type query string false "Filter by item type (product or sitter)"
// @Success 200 {object} map[string]interface{}
// @Router /favorites [get]
func (pc *ProductController) GetFavorites(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	db := pc.DB.Where("user_id = ?", currentUser.UserID)
	if itemType := c.Query("type"); itemType != "" {
		if itemType != models.FavoriteProduct && itemType != models.FavoriteSitter {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be product or sitter"})
			return
		}
		db = db.Where("item_type = ?", itemType)
	}

	var favorites []models.Favorite
	if err := db.Order("created_at DESC").Find(&favorites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"favorites": favorites,
	})
}
