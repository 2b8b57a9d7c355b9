package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/models"
	"github.com/parent-pal/api-go/utils"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

func (uc *UserController) GetUserProfile(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	userID := c.Param("userId")

	var targetUser models.User
	if err := uc.DB.First(&targetUser, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var stats struct {
		FollowersCount int64 `json:"followersCount"`
		FollowingCount int64 `json:"followingCount"`
	}

	uc.DB.Model(&models.Follow{}).Where("following_id = ?", targetUser.ID).Count(&stats.FollowersCount)
	uc.DB.Model(&models.Follow{}).Where("follower_id = ?", targetUser.ID).Count(&stats.FollowingCount)

	var isFollowing bool
	var isFollowRequestPending bool
	if currentUser.UserID != targetUser.ID {
		var follow models.Follow
		if uc.DB.Where("follower_id = ? AND following_id = ?", currentUser.UserID, targetUser.ID).
			First(&follow).Error == nil {
			isFollowing = true
		}
		var request models.FollowRequest
		if uc.DB.Where("requester_id = ? AND requestee_id = ? AND status = ?",
			currentUser.UserID, targetUser.ID, models.FollowRequestPending).
			First(&request).Error == nil {
			isFollowRequestPending = true
		}
	}

	isOwnProfile := currentUser.UserID == targetUser.ID

	data := gin.H{
		"id":              targetUser.ID,
		"firstName":       targetUser.FirstName,
		"lastName":        targetUser.LastName,
		"fullName":        targetUser.FullName(),
		"avatar":          targetUser.Avatar,
		"privacySetting":  targetUser.PrivacySetting,
		"isOwnProfile":    isOwnProfile,
		"isFollowing":     isFollowing,
		"isFollowPending": isFollowRequestPending,
		"followersCount":  stats.FollowersCount,
		"followingCount":  stats.FollowingCount,
	}

	// Private profile details stay hidden until a follow is confirmed
	if !targetUser.IsPrivate() || isOwnProfile || isFollowing {
		data["bio"] = targetUser.Bio
		data["city"] = targetUser.City
		data["createdAt"] = targetUser.CreatedAt
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func (uc *UserController) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var users []struct {
		ID             uint   `json:"id"`
		FirstName      string `json:"firstName"`
		LastName       string `json:"lastName"`
		Avatar         string `json:"avatar"`
		City           string `json:"city"`
		PrivacySetting string `json:"privacySetting"`
	}

	db := uc.DB.Table("users").
		Select("id, first_name, last_name, avatar, city, privacy_setting").
		Where("deleted_at IS NULL")

	if looksLikePhone(query) {
		// Exact phone match, opt-in only
		db = db.Where("phone_number = ? AND phone_searchable = ?", normalizePhone(query), true)
	} else {
		searchPattern := "%" + query + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ?", searchPattern, searchPattern)
	}

	db.Order("first_name ASC").
		Offset(offset).
		Limit(pageSize).
		Scan(&users)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"users":    users,
		"query":    query,
		"page":     page,
		"pageSize": pageSize,
	})
}

func (uc *UserController) GetSuggestedUsers(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var suggestedUsers []struct {
		ID        uint   `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Avatar    string `json:"avatar"`
		City      string `json:"city"`
		Reason    string `json:"reason"`
	}

	// Same-city parents the user doesn't already follow
	uc.DB.Table("users").
		Select(`
			users.id,
			users.first_name,
			users.last_name,
			users.avatar,
			users.city,
			'same_city' as reason
		`).
		Where(`
			users.deleted_at IS NULL AND
			users.id != ? AND
			users.city = (SELECT city FROM users WHERE id = ?) AND
			users.id NOT IN (
				SELECT following_id FROM follows
				WHERE follower_id = ?
			)
		`, currentUser.UserID, currentUser.UserID, currentUser.UserID).
		Order("users.created_at DESC").
		Limit(limit).
		Scan(&suggestedUsers)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"suggestedUsers": suggestedUsers,
	})
}

func looksLikePhone(query string) bool {
	trimmed := normalizePhone(query)
	if len(trimmed) < 7 {
		return false
	}
	for i, r := range trimmed {
		if r == '+' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func normalizePhone(query string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(query)
}
