package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/parent-pal/api-go/config"
	"github.com/parent-pal/api-go/utils"
	"gorm.io/gorm"
)

type UploadController struct {
	DB       *gorm.DB
	R2Client *s3.Client
	R2Config *config.R2Config
}

type AvatarUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type AvatarConfirmRequest struct {
	TempKey string `json:"tempKey" binding:"required"`
}

type ProductPhotoRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController(db *gorm.DB) *UploadController {
	r2Config := config.GetR2Config()

	// Create R2 client
	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &UploadController{
		DB:       db,
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

func (uc *UploadController) GetAvatarTempURL(c *gin.Context) {
	var req AvatarUploadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isValidImageFile(req.ContentType, req.FileSize, 5*1024*1024) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid avatar file type or size"})
		return
	}

	key := generateTempAvatarKey(req.FileName)

	presignedURL, err := uc.createPresignedURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	response := PresignedURLResponse{
		UploadURL: presignedURL,
		FileURL:   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
		Key:       key,
		ExpiresIn: 1800,
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    response,
		Message: "Temporary avatar upload URL generated successfully",
	})
}

func (uc *UploadController) ConfirmAvatarUpload(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req AvatarConfirmRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := uc.verifyFileExists(req.TempKey)
	if err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Temporary avatar file not found"})
		return
	}

	permanentKey := generateAvatarKey(user.UserID, req.TempKey)

	err = uc.moveFile(req.TempKey, permanentKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm avatar upload"})
		return
	}

	fileURL := fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, permanentKey)

	uc.DB.Table("users").Where("id = ?", user.UserID).Update("avatar", fileURL)

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"key":     permanentKey,
			"fileUrl": fileURL,
			"userId":  user.UserID,
		},
		Message: "Avatar upload confirmed successfully",
	})
}

func (uc *UploadController) CleanupTempAvatar(c *gin.Context) {
	tempKey := strings.TrimPrefix(c.Param("tempKey"), "/")

	if tempKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Temp key is required"})
		return
	}

	if !strings.HasPrefix(tempKey, "temp/avatars/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid temp key format"})
		return
	}

	err := uc.deleteFile(tempKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cleanup temporary file"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Temporary avatar cleaned up successfully",
	})
}

func (uc *UploadController) GetProductPhotoURL(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req ProductPhotoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isValidImageFile(req.ContentType, req.FileSize, 10*1024*1024) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product photo type or size"})
		return
	}

	key := generateProductPhotoKey(user.UserID, req.FileName)

	presignedURL, err := uc.createPresignedURL(key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	response := PresignedURLResponse{
		UploadURL: presignedURL,
		FileURL:   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
		Key:       key,
		ExpiresIn: 3600,
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    response,
		Message: "Presigned URL generated successfully",
	})
}

func (uc *UploadController) DeleteFile(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")

	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File key is required"})
		return
	}

	// Verify user owns this file (extract user ID from key)
	if !verifyFileOwnership(key, user.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	err := uc.deleteFile(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "File deleted successfully",
	})
}

// confirmAvatarUpload moves a registration-time temp avatar into the
// user's permanent prefix. Returns "" on any failure so registration
// succeeds without the avatar.
func (uc *UploadController) confirmAvatarUpload(tempKey string, userID uint) string {
	permanentKey := generateAvatarKey(userID, tempKey)

	err := uc.moveFile(tempKey, permanentKey)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, permanentKey)
}

// Helper functions

func (uc *UploadController) createPresignedURL(key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.R2Client)
	req, err := presigner.PresignPutObject(context.TODO(), input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})

	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (uc *UploadController) verifyFileExists(key string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}

	_, err := uc.R2Client.HeadObject(context.TODO(), input)
	if err != nil {
		return false, nil
	}

	return true, nil
}

func (uc *UploadController) deleteFile(key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}

	_, err := uc.R2Client.DeleteObject(context.TODO(), input)
	return err
}

func (uc *UploadController) moveFile(sourceKey, destKey string) error {
	copyInput := &s3.CopyObjectInput{
		Bucket:     aws.String(uc.R2Config.BucketName),
		CopySource: aws.String(fmt.Sprintf("%s/%s", uc.R2Config.BucketName, sourceKey)),
		Key:        aws.String(destKey),
	}

	_, err := uc.R2Client.CopyObject(context.TODO(), copyInput)
	if err != nil {
		return err
	}

	return uc.deleteFile(sourceKey)
}

func isValidImageFile(contentType string, fileSize, maxSize int64) bool {
	validTypes := []string{
		"image/jpeg", "image/jpg", "image/png", "image/webp",
	}

	validType := false
	for _, validContentType := range validTypes {
		if contentType == validContentType {
			validType = true
			break
		}
	}

	if !validType {
		return false
	}

	return fileSize <= maxSize
}

func generateTempAvatarKey(fileName string) string {
	ext := filepath.Ext(fileName)
	id := uuid.New().String()
	timestamp := time.Now().Unix()

	return fmt.Sprintf("temp/avatars/%d_%s%s", timestamp, id, ext)
}

func generateAvatarKey(userID uint, tempKey string) string {
	ext := filepath.Ext(tempKey)
	timestamp := time.Now().Unix()

	return fmt.Sprintf("users/%d/avatar/%d_avatar%s", userID, timestamp, ext)
}

func generateProductPhotoKey(userID uint, fileName string) string {
	ext := filepath.Ext(fileName)
	id := uuid.New().String()
	timestamp := time.Now().Unix()

	return fmt.Sprintf("uploads/products/%d/%d_%s%s", userID, timestamp, id, ext)
}

func verifyFileOwnership(key string, userID uint) bool {
	// Key format: uploads/products/{userID}/... or users/{userID}/avatar/...
	parts := strings.Split(key, "/")
	if len(parts) < 3 {
		return false
	}

	switch parts[0] {
	case "uploads":
		return fmt.Sprintf("%d", userID) == parts[2]
	case "users":
		return fmt.Sprintf("%d", userID) == parts[1]
	}
	return false
}
