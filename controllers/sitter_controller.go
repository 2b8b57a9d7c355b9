package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/parent-pal/api-go/models"
	"github.com/parent-pal/api-go/utils"
	"gorm.io/gorm"
)

type SitterController struct {
	DB *gorm.DB
}

func NewSitterController(db *gorm.DB) *SitterController {
	return &SitterController{DB: db}
}

type sitterInput struct {
	Headline       string   `json:"headline" binding:"required,max=120"`
	Bio            string   `json:"bio"`
	HourlyRate     float64  `json:"hourlyRate" binding:"required,gt=0"`
	City           string   `json:"city" binding:"required"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Certifications []string `json:"certifications"`
	AvailableDays  []string `json:"availableDays"`
	YearsExp       int      `json:"yearsExperience"`
}

// CreateSitterListing godoc
// @Summary Create the caller's babysitter listing
// @Tags sitters
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /sitters [post]
func (sc *SitterController) CreateSitterListing(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input sitterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Sitter
	if sc.DB.Where("user_id = ?", currentUser.UserID).First(&existing).Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Sitter listing already exists for this user"})
		return
	}

	sitter := models.Sitter{
		UserID:         currentUser.UserID,
		Headline:       input.Headline,
		Bio:            input.Bio,
		HourlyRate:     input.HourlyRate,
		City:           input.City,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Certifications: pq.StringArray(input.Certifications),
		AvailableDays:  pq.StringArray(input.AvailableDays),
		YearsExp:       input.YearsExp,
		IsActive:       true,
	}

	if err := sc.DB.Create(&sitter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sitter listing"})
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    sitter,
		Message: "Sitter listing created successfully",
	})
}

// UpdateSitterListing godoc
// @Summary Update the caller's babysitter listing
// @Tags sitters
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /sitters/me [put]
func (sc *SitterController) UpdateSitterListing(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Headline       *string  `json:"headline"`
		Bio            *string  `json:"bio"`
		HourlyRate     *float64 `json:"hourlyRate"`
		City           *string  `json:"city"`
		Latitude       *float64 `json:"latitude"`
		Longitude      *float64 `json:"longitude"`
		Certifications []string `json:"certifications"`
		AvailableDays  []string `json:"availableDays"`
		YearsExp       *int     `json:"yearsExperience"`
		IsActive       *bool    `json:"isActive"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var sitter models.Sitter
	if err := sc.DB.Where("user_id = ?", currentUser.UserID).First(&sitter).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sitter listing not found"})
		return
	}

	updates := map[string]interface{}{}
	if input.Headline != nil {
		updates["headline"] = *input.Headline
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.HourlyRate != nil {
		if *input.HourlyRate <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hourlyRate must be greater than zero"})
			return
		}
		updates["hourly_rate"] = *input.HourlyRate
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.Latitude != nil {
		updates["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		updates["longitude"] = *input.Longitude
	}
	if input.Certifications != nil {
		updates["certifications"] = pq.StringArray(input.Certifications)
	}
	if input.AvailableDays != nil {
		updates["available_days"] = pq.StringArray(input.AvailableDays)
	}
	if input.YearsExp != nil {
		updates["years_exp"] = *input.YearsExp
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := sc.DB.Model(&sitter).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sitter listing"})
			return
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    sitter,
		Message: "Sitter listing updated successfully",
	})
}

// GetSitter godoc
// @Summary Get a babysitter listing
// @Tags sitters
// @Produce json
// @Param sitterId path string true "Sitter ID"
// @Success 200 {object} map[string]interface{}
// @Router /sitters/{sitterId} [get]
func (sc *SitterController) GetSitter(c *gin.Context) {
	sitterID := c.Param("sitterId")

	var sitter models.Sitter
	if err := sc.DB.Preload("User").First(&sitter, sitterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sitter not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":              sitter.ID,
			"userId":          sitter.UserID,
			"fullName":        sitter.User.FullName(),
			"avatar":          sitter.User.Avatar,
			"headline":        sitter.Headline,
			"bio":             sitter.Bio,
			"hourlyRate":      sitter.HourlyRate,
			"city":            sitter.City,
			"certifications":  sitter.Certifications,
			"availableDays":   sitter.AvailableDays,
			"yearsExperience": sitter.YearsExp,
			"isActive":        sitter.IsActive,
			"createdAt":       sitter.CreatedAt,
		},
	})
}

// SearchSitters godoc
// @Summary Search active babysitter listings
// @Tags sitters
// @Produce json
// @Param city query string false "City substring"
// @Param maxRate query number false "Hourly rate ceiling"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{}
// @Router /sitters [get]
func (sc *SitterController) SearchSitters(c *gin.Context) {
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	db := sc.DB.Model(&models.Sitter{}).Where("is_active = ?", true)

	if city := c.Query("city"); city != "" {
		db = db.Where("city ILIKE ?", "%"+city+"%")
	}
	if maxRate := c.Query("maxRate"); maxRate != "" {
		rate, err := strconv.ParseFloat(maxRate, 64)
		if err != nil || rate <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxRate"})
			return
		}
		db = db.Where("hourly_rate <= ?", rate)
	}

	var total int64
	db.Count(&total)

	var sitters []models.Sitter
	result := db.Preload("User").
		Order("hourly_rate ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&sitters)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching sitters"})
		return
	}

	items := make([]gin.H, 0, len(sitters))
	for _, s := range sitters {
		items = append(items, gin.H{
			"id":              s.ID,
			"userId":          s.UserID,
			"fullName":        s.User.FullName(),
			"avatar":          s.User.Avatar,
			"headline":        s.Headline,
			"hourlyRate":      s.HourlyRate,
			"city":            s.City,
			"certifications":  s.Certifications,
			"yearsExperience": s.YearsExp,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sitters": items,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// GetNearbySitters godoc
// @Summary Get active sitters within a radius of a point
// @Tags sitters
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query number false "Radius in km (default: 10)"
// @Success 200 {object} map[string]interface{}
// @Router /sitters/nearby [get]
func (sc *SitterController) GetNearbySitters(c *gin.Context) {
	lat, _ := strconv.ParseFloat(c.Query("lat"), 64)
	lng, _ := strconv.ParseFloat(c.Query("lng"), 64)
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius", "10"), 64)

	if lat == 0 || lng == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude and longitude are required"})
		return
	}

	var nearbySitters []struct {
		ID         uint    `json:"id"`
		UserID     uint    `json:"userId"`
		FirstName  string  `json:"firstName"`
		LastName   string  `json:"lastName"`
		Avatar     string  `json:"avatar"`
		Headline   string  `json:"headline"`
		HourlyRate float64 `json:"hourlyRate"`
		City       string  `json:"city"`
		Distance   float64 `json:"distance"`
	}

	sc.DB.Table("sitters").
		Select(`
			sitters.id,
			sitters.user_id,
			users.first_name,
			users.last_name,
			users.avatar,
			sitters.headline,
			sitters.hourly_rate,
			sitters.city,
			ROUND(
				6371 * acos(
					cos(radians(?)) *
					cos(radians(sitters.latitude)) *
					cos(radians(sitters.longitude) - radians(?)) +
					sin(radians(?)) *
					sin(radians(sitters.latitude))
				)::numeric, 2
			) AS distance
		`, lat, lng, lat).
		Joins("JOIN users ON users.id = sitters.user_id").
		Where(`
			sitters.is_active = true AND
			sitters.deleted_at IS NULL AND
			6371 * acos(
				cos(radians(?)) *
				cos(radians(sitters.latitude)) *
				cos(radians(sitters.longitude) - radians(?)) +
				sin(radians(?)) *
				sin(radians(sitters.latitude))
			) <= ?
		`, lat, lng, lat, radius).
		Order("distance ASC").
		Limit(50).
		Scan(&nearbySitters)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"nearbySitters": nearbySitters,
		"radius":        radius,
		"center": gin.H{
			"lat": lat,
			"lng": lng,
		},
	})
}
