package controllers

import (
	"net/http"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/parent-pal/api-go/config"
	"github.com/parent-pal/api-go/models"
	"github.com/parent-pal/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB               *gorm.DB
	GoogleConfig     *config.GoogleConfig
	UploadController *UploadController
}

func NewAuthController(db *gorm.DB, uploadController *UploadController) *AuthController {
	return &AuthController{
		DB:               db,
		GoogleConfig:     config.NewGoogleConfig(),
		UploadController: uploadController,
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Email         string `json:"email" binding:"required,email"`
		Password      string `json:"password" binding:"required,min=6"`
		FirstName     string `json:"firstName" binding:"required"`
		LastName      string `json:"lastName" binding:"required"`
		Phone         string `json:"phone"`
		City          string `json:"city"`
		AvatarTempKey string `json:"avatarTempKey"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}

	hashedPasswordStr := string(hashedPassword)

	// Handle phone field - use nil if empty
	var phone *string
	if input.Phone != "" {
		phone = &input.Phone
	}

	user := models.User{
		Email:           input.Email,
		Password:        &hashedPasswordStr,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		PhoneNumber:     phone,
		PhoneSearchable: false,
		PrivacySetting:  models.PrivacyPublic,
		City:            input.City,
		GoogleID:        nil, // Explicitly set to nil for email registration
		Provider:        "email",
		EmailVerified:   false,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email or phone already registered", "success": false})
		return
	}

	var finalAvatarURL string
	if input.AvatarTempKey != "" && ac.UploadController != nil {
		finalAvatarURL = ac.UploadController.confirmAvatarUpload(input.AvatarTempKey, user.ID)
		if finalAvatarURL != "" {
			user.Avatar = finalAvatarURL
			ac.DB.Save(&user)
		}
	}

	response := gin.H{
		"success": true,
		"message": "User registered successfully",
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
		},
	}

	if finalAvatarURL != "" {
		response["user"].(gin.H)["avatar"] = finalAvatarURL
	}

	c.JSON(http.StatusCreated, response)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.Password == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	accessToken, refreshToken, err := ac.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "fullName": user.FullName(), "profilePicture": user.Avatar},
		"success":       true,
	})
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		// Delete the expired token
		ac.DB.Delete(&refreshToken)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired", "success": false})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, refreshToken.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
		return
	}

	accessToken, err := signToken(user.ID, 7*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate access token", "success": false})
		return
	}

	newRefreshToken, err := signToken(user.ID, 30*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token", "success": false})
		return
	}

	refreshToken.Token = newRefreshToken
	refreshToken.ExpirationDate = time.Now().Add(30 * 24 * time.Hour)
	ac.DB.Save(&refreshToken)

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "fullName": user.FullName(), "profilePicture": user.Avatar},
		"success":       true,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	result := ac.DB.Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout", "success": false})
		return
	}

	// Token not found still reads as logged out
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "success": true})
}

func (ac *AuthController) GoogleLogin(c *gin.Context) {
	var input struct {
		IDToken     string `json:"id_token"`
		AccessToken string `json:"access_token"`
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var userInfo *config.GoogleUserInfo
	var err error

	if input.Code != "" && input.RedirectURI != "" {
		// Exchange authorization code for tokens
		ctx := c.Request.Context()
		token, exchangeErr := ac.GoogleConfig.ExchangeCode(ctx, input.Code)
		if exchangeErr != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to exchange code for token", "success": false})
			return
		}

		userInfo, err = ac.GoogleConfig.GetUserInfo(token.AccessToken)
	} else if input.IDToken != "" {
		userInfo, err = ac.GoogleConfig.VerifyIDToken(input.IDToken)
	} else if input.AccessToken != "" {
		userInfo, err = ac.GoogleConfig.GetUserInfo(input.AccessToken)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either code with redirect_uri, id_token, or access_token is required", "success": false})
		return
	}

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token", "success": false})
		return
	}

	var user models.User
	userExists := ac.DB.Where("google_id = ? OR email = ?", userInfo.ID, userInfo.Email).First(&user).Error == nil

	if userExists {
		// Link Google to an existing email account if needed
		if user.GoogleID == nil || *user.GoogleID == "" {
			user.GoogleID = &userInfo.ID
			user.Provider = "google"
			if user.Avatar == "" && userInfo.Picture != "" {
				user.Avatar = userInfo.Picture
			}
			ac.DB.Save(&user)
		}
	} else {
		user = models.User{
			Email:          userInfo.Email,
			FirstName:      userInfo.GivenName,
			LastName:       userInfo.FamilyName,
			Avatar:         userInfo.Picture,
			GoogleID:       &userInfo.ID,
			Provider:       "google",
			PrivacySetting: models.PrivacyPublic,
			EmailVerified:  userInfo.VerifiedEmail,
		}

		if err := ac.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "success": false})
			return
		}
	}

	accessToken, refreshToken, err := ac.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "fullName": user.FullName(), "profilePicture": user.Avatar},
		"success":       true,
	})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var dbUser models.User
	if err := ac.DB.First(&dbUser, user.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":              dbUser.ID,
			"email":           dbUser.Email,
			"firstName":       dbUser.FirstName,
			"lastName":        dbUser.LastName,
			"phone":           dbUser.PhoneNumber,
			"phoneSearchable": dbUser.PhoneSearchable,
			"privacySetting":  dbUser.PrivacySetting,
			"bio":             dbUser.Bio,
			"avatar":          dbUser.Avatar,
			"city":            dbUser.City,
			"createdAt":       dbUser.CreatedAt,
		},
	})
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	currentUser := utils.GetUser(c)
	if currentUser == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		FirstName       *string `json:"firstName"`
		LastName        *string `json:"lastName"`
		Bio             *string `json:"bio"`
		Avatar          *string `json:"avatar"`
		City            *string `json:"city"`
		Phone           *string `json:"phone"`
		PhoneSearchable *bool   `json:"phoneSearchable"`
		PrivacySetting  *string `json:"privacySetting"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.PrivacySetting != nil &&
		*input.PrivacySetting != models.PrivacyPublic && *input.PrivacySetting != models.PrivacyPrivate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "privacySetting must be public or private"})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, currentUser.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Avatar != nil {
		updates["avatar"] = *input.Avatar
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.Phone != nil {
		if *input.Phone == "" {
			updates["phone_number"] = nil
		} else {
			updates["phone_number"] = *input.Phone
		}
	}
	if input.PhoneSearchable != nil {
		updates["phone_searchable"] = *input.PhoneSearchable
	}
	if input.PrivacySetting != nil {
		updates["privacy_setting"] = *input.PrivacySetting
	}

	if len(updates) > 0 {
		if err := ac.DB.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user": gin.H{
			"id":              user.ID,
			"email":           user.Email,
			"firstName":       user.FirstName,
			"lastName":        user.LastName,
			"phone":           user.PhoneNumber,
			"phoneSearchable": user.PhoneSearchable,
			"privacySetting":  user.PrivacySetting,
			"bio":             user.Bio,
			"avatar":          user.Avatar,
			"city":            user.City,
		},
	})
}

func (ac *AuthController) issueTokens(user *models.User) (string, string, error) {
	accessToken, err := signToken(user.ID, 7*24*time.Hour)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := signToken(user.ID, 30*24*time.Hour)
	if err != nil {
		return "", "", err
	}

	ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(30 * 24 * time.Hour),
	})

	return accessToken, refreshToken, nil
}

func signToken(userID uint, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
