package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/models"
	"github.com/parent-pal/api-go/utils"
	"gorm.io/gorm"
)

const (
	FollowStatusFollowing      = "following"
	FollowStatusRequestPending = "request_pending"
)

type FollowController struct {
	DB *gorm.DB
}

func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{DB: db}
}

// RequestFollow godoc
// @Summary Follow a user or request to follow a private one
// @Description Creates a follow edge for public profiles, a pending follow request for private ones
// @Tags follows
// @Accept json
// @Produce json
// @Param userId path string true "User ID to follow"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/follow-request [post]
func (fc *FollowController) RequestFollow(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetID, err := parseUserID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if currentUser.UserID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	var targetUser models.User
	if err := fc.DB.First(&targetUser, targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !targetUser.IsPrivate() {
		fc.followPublic(c, currentUser.UserID, targetUser.ID)
		return
	}

	// Private profile: idempotent on a repeat request
	var existing models.FollowRequest
	result := fc.DB.Where("requester_id = ? AND requestee_id = ? AND status = ?",
		currentUser.UserID, targetUser.ID, models.FollowRequestPending).First(&existing)
	if result.Error == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  FollowStatusRequestPending,
			"message": "Follow request already pending",
		})
		return
	}

	request := models.FollowRequest{
		RequesterID: currentUser.UserID,
		RequesteeID: targetUser.ID,
		Status:      models.FollowRequestPending,
	}

	if err := fc.DB.Create(&request).Error; err != nil {
		// A concurrent request for the same pair hit the partial unique
		// index first; that request stands, so the outcome is the same.
		if isUniqueViolation(err) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"status":  FollowStatusRequestPending,
				"message": "Follow request already pending",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create follow request"})
		return
	}

	fc.bumpPendingCount(targetUser.ID, 1)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  FollowStatusRequestPending,
		"message": "Follow request sent",
	})
}

func (fc *FollowController) followPublic(c *gin.Context, followerID, followingID uint) {
	var existingFollow models.Follow
	result := fc.DB.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&existingFollow)
	if result.Error == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  FollowStatusFollowing,
			"message": "Already following user",
		})
		return
	}

	tx := fc.DB.Begin()

	follow := models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}

	if err := tx.Create(&follow).Error; err != nil {
		tx.Rollback()
		// A concurrent identical follow won the insert; the edge exists
		// either way.
		if isUniqueViolation(err) {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"status":  FollowStatusFollowing,
				"message": "Already following user",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	activity := models.ActivityLog{
		UserID:       followerID,
		TargetUserID: followingID,
		Activity:     "user_followed",
		CreatedAt:    time.Now(),
	}

	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity log"})
		return
	}

	tx.Commit()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  FollowStatusFollowing,
		"message": "Successfully followed user",
	})
}

// RespondToFollowRequest godoc
// @Summary Approve or deny a pending follow request
// @Description Only the requestee may respond; approval creates the follow edge in the same transaction
// @Tags follows
// @Accept json
// @Produce json
// @Param requestId path string true "Follow request ID"
// @Success 200 {object} map[string]interface{}
// @Router /follow-requests/{requestId}/respond [post]
func (fc *FollowController) RespondToFollowRequest(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	requestID := c.Param("requestId")

	var input struct {
		ResponseAction string `json:"response_action" binding:"required,oneof=approve deny"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Not-pending, missing and not-owned all collapse into the same 404 so
	// callers can't probe for requests that aren't theirs.
	var request models.FollowRequest
	if err := fc.DB.Where("id = ? AND requestee_id = ? AND status = ?",
		requestID, currentUser.UserID, models.FollowRequestPending).First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Follow request not found"})
		return
	}

	newStatus := models.FollowRequestApproved
	activityName := "request_approved"
	if input.ResponseAction == "deny" {
		newStatus = models.FollowRequestDenied
		activityName = "request_denied"
	}

	// Status transition and edge creation commit or roll back together, so
	// an approved request always has its edge.
	tx := fc.DB.Begin()

	if err := tx.Model(&request).Update("status", newStatus).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update follow request"})
		return
	}

	if newStatus == models.FollowRequestApproved {
		var existingFollow models.Follow
		result := tx.Where("follower_id = ? AND following_id = ?", request.RequesterID, request.RequesteeID).First(&existingFollow)
		if result.Error == gorm.ErrRecordNotFound {
			follow := models.Follow{
				FollowerID:  request.RequesterID,
				FollowingID: request.RequesteeID,
			}
			if err := tx.Create(&follow).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create follow"})
				return
			}
		}
	}

	activity := models.ActivityLog{
		UserID:       currentUser.UserID,
		TargetUserID: request.RequesterID,
		Activity:     activityName,
		CreatedAt:    time.Now(),
	}

	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity log"})
		return
	}

	tx.Commit()

	fc.bumpPendingCount(currentUser.UserID, -1)

	message := "Follow request approved"
	if newStatus == models.FollowRequestDenied {
		message = "Follow request denied"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// CancelFollowRequest godoc
// @Summary Cancel an outbound pending follow request
// @Tags follows
// @Produce json
// @Param userId path string true "Requestee user ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/follow-request [delete]
func (fc *FollowController) CancelFollowRequest(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetID, err := parseUserID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if currentUser.UserID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot cancel a follow request to yourself"})
		return
	}

	result := fc.DB.Where("requester_id = ? AND requestee_id = ? AND status = ?",
		currentUser.UserID, targetID, models.FollowRequestPending).Delete(&models.FollowRequest{})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel follow request"})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending follow request to cancel"})
		return
	}

	fc.bumpPendingCount(targetID, -1)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Follow request cancelled",
	})
}

// GetPendingFollowRequests godoc
// @Summary List pending follow requests addressed to the current user
// @Tags follows
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /follow-requests/pending [get]
func (fc *FollowController) GetPendingFollowRequests(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var rows []struct {
		RequestID   uint      `json:"request_id"`
		RequesterID uint      `json:"requester_id"`
		FirstName   string    `json:"-"`
		LastName    string    `json:"-"`
		Avatar      string    `json:"-"`
		CreatedAt   time.Time `json:"created_at"`
	}

	result := fc.DB.Model(&models.FollowRequest{}).
		Select("follow_requests.id as request_id, follow_requests.requester_id, users.first_name, users.last_name, users.avatar, follow_requests.created_at").
		Joins("JOIN users ON users.id = follow_requests.requester_id").
		Where("follow_requests.requestee_id = ? AND follow_requests.status = ?", currentUser.UserID, models.FollowRequestPending).
		Order("follow_requests.created_at DESC").
		Find(&rows)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching follow requests"})
		return
	}

	requests := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		fullName := row.FirstName
		if row.LastName != "" {
			fullName = row.FirstName + " " + row.LastName
		}
		requests = append(requests, gin.H{
			"request_id":           row.RequestID,
			"requester_id":         row.RequesterID,
			"requester_full_name":  fullName,
			"requester_avatar_url": row.Avatar,
			"created_at":           row.CreatedAt,
		})
	}

	fc.setPendingCount(currentUser.UserID, int64(len(requests)))

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": requests,
	})
}

// Unfollow godoc
// @Summary Stop following a user
// @Tags follows
// @Produce json
// @Param userId path string true "User ID to unfollow"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/follow [delete]
func (fc *FollowController) Unfollow(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	targetID, err := parseUserID(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	result := fc.DB.Where("follower_id = ? AND following_id = ?", currentUser.UserID, targetID).
		Delete(&models.Follow{})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not following this user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully unfollowed user",
	})
}

// GetUserFollowers godoc
// @Summary Get user's followers
// @Description Returns paginated list of user's followers
// @Tags follows
// @Produce json
// @Param userId path string true "User ID"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/followers [get]
func (fc *FollowController) GetUserFollowers(c *gin.Context) {
	userID := c.Param("userId")
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	var followers []struct {
		UserID    uint      `json:"userId"`
		FirstName string    `json:"firstName"`
		LastName  string    `json:"lastName"`
		Avatar    string    `json:"avatar"`
		CreatedAt time.Time `json:"followedAt"`
	}

	var total int64
	fc.DB.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&total)

	result := fc.DB.Model(&models.Follow{}).
		Select("users.id as user_id, users.first_name, users.last_name, users.avatar, follows.created_at").
		Joins("JOIN users ON users.id = follows.follower_id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&followers)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching followers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"followers": followers,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// GetUserFollowing godoc
// @Summary Get users that a user is following
// @Description Returns paginated list of users that the specified user is following
// @Tags follows
// @Produce json
// @Param userId path string true "User ID"
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/following [get]
func (fc *FollowController) GetUserFollowing(c *gin.Context) {
	userID := c.Param("userId")
	page, pageSize := pagination(c)
	offset := (page - 1) * pageSize

	var following []struct {
		UserID    uint      `json:"userId"`
		FirstName string    `json:"firstName"`
		LastName  string    `json:"lastName"`
		Avatar    string    `json:"avatar"`
		CreatedAt time.Time `json:"followedAt"`
	}

	var total int64
	fc.DB.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&total)

	result := fc.DB.Model(&models.Follow{}).
		Select("users.id as user_id, users.first_name, users.last_name, users.avatar, follows.created_at").
		Joins("JOIN users ON users.id = follows.following_id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&following)

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching following users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": following,
		"pagination": gin.H{
			"currentPage": page,
			"pageSize":    pageSize,
			"totalItems":  total,
			"totalPages":  (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// Badge counters are best-effort: without Redis the pending list endpoint
// is the source of truth.
func (fc *FollowController) bumpPendingCount(userID uint, delta int64) {
	rdb := utils.GetRedis()
	if rdb == nil {
		return
	}
	rdb.IncrBy(context.Background(), pendingCountKey(userID), delta)
}

func (fc *FollowController) setPendingCount(userID uint, count int64) {
	rdb := utils.GetRedis()
	if rdb == nil {
		return
	}
	rdb.Set(context.Background(), pendingCountKey(userID), count, 24*time.Hour)
}

func pendingCountKey(userID uint) string {
	return fmt.Sprintf("follow:pending_count:%d", userID)
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
