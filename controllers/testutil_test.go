package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/models"
	"github.com/parent-pal/api-go/utils"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB opens a per-test in-memory database. The named DSN keeps
// every pooled connection on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Follow{}, &models.FollowRequest{},
		&models.Sitter{}, &models.Product{}, &models.Favorite{}, &models.ImportJob{}, &models.ActivityLog{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// newTestRouter wires the API routes with a header-based stand-in for the
// JWT middleware: requests carry the acting user id in X-Test-User.
func newTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()

	r.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-Test-User"); v != "" {
			setTestUser(c, v)
		}
		c.Next()
	})

	userController := NewUserController(db)
	followController := NewFollowController(db)
	sitterController := NewSitterController(db)
	productController := NewProductController(db)
	importController := NewImportController(db)

	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.GET("/:userId/profile", userController.GetUserProfile)
		users.GET("/search", userController.SearchUsers)
		users.POST("/:userId/follow-request", followController.RequestFollow)
		users.DELETE("/:userId/follow-request", followController.CancelFollowRequest)
		users.DELETE("/:userId/follow", followController.Unfollow)
		users.GET("/:userId/followers", followController.GetUserFollowers)
		users.GET("/:userId/following", followController.GetUserFollowing)
	}

	requests := api.Group("/follow-requests")
	{
		requests.GET("/pending", followController.GetPendingFollowRequests)
		requests.POST("/:requestId/respond", followController.RespondToFollowRequest)
	}

	sitters := api.Group("/sitters")
	{
		sitters.POST("", sitterController.CreateSitterListing)
		sitters.PUT("/me", sitterController.UpdateSitterListing)
		sitters.GET("", sitterController.SearchSitters)
		sitters.GET("/:sitterId", sitterController.GetSitter)
	}

	products := api.Group("/products")
	{
		products.POST("", productController.CreateProduct)
		products.GET("", productController.GetProducts)
		products.GET("/:productId", productController.GetProduct)
	}

	favorites := api.Group("/favorites")
	{
		favorites.POST("", productController.ToggleFavorite)
		favorites.GET("", productController.GetFavorites)
	}

	imports := api.Group("/imports")
	{
		imports.POST("/products", importController.ImportProducts)
		imports.GET("/:importId", importController.GetImportJob)
	}

	return r
}

func setTestUser(c *gin.Context, v string) {
	id, _ := strconv.Atoi(v)
	c.Set(string(utils.UserContextKey), &utils.UserClaims{UserID: uint(id)})
}

func createTestUser(t *testing.T, db *gorm.DB, firstName, privacy string) *models.User {
	t.Helper()

	user := &models.User{
		Email:          firstName + "@example.com",
		FirstName:      firstName,
		LastName:       "Tester",
		PrivacySetting: privacy,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", firstName, err)
	}
	return user
}

func performRequest(r *gin.Engine, method, path string, body interface{}, userID uint) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("X-Test-User", strconv.Itoa(int(userID)))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return out
}

func requestFollowPath(targetID uint) string {
	return fmt.Sprintf("/api/users/%d/follow-request", targetID)
}

func respondPath(requestID uint) string {
	return fmt.Sprintf("/api/follow-requests/%d/respond", requestID)
}

func followCount(db *gorm.DB, followerID, followingID uint) int64 {
	var count int64
	db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count)
	return count
}

func pendingRequestCount(db *gorm.DB, requesterID, requesteeID uint) int64 {
	var count int64
	db.Model(&models.FollowRequest{}).
		Where("requester_id = ? AND requestee_id = ? AND status = ?",
			requesterID, requesteeID, models.FollowRequestPending).
		Count(&count)
	return count
}
