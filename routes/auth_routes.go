package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/db"
	"github.com/hanifahuq/MelloBackend/models"
	"github.com/hanifahuq/MelloBackend/utils"
)

func Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.BindJSON(&input); err != nil {
		utils.Logger.Warn("invalid_login_request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	// Логины хранятся в нижнем регистре
	username := strings.ToLower(strings.TrimSpace(input.Username))

	var user models.User
	result := db.DB.Where("username = ?", username).First(&user)
	if result.Error != nil {
		utils.Logger.Warn("login_user_not_found", zap.String("username", username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User does not exist"})
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		utils.Logger.Warn("login_incorrect_password", zap.String("username", username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	}

	token, sessionID, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		utils.Logger.Error("login_token_generation_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	utils.Logger.Info("user_logged_in",
		zap.Uint("user_id", user.ID),
		zap.String("session_id", sessionID))

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":              user.ID,
			"username":        user.Username,
			"name":            user.Name,
			"data_permission": user.DataPermission,
			"role":            user.Role,
		},
	})
}

// Users - список аккаунтов для админа. Хэши паролей наружу не уходят
// (json:"-" в модели).
func Users(c *gin.Context) {
	var users []models.User
	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.Logger.Error("list_users_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func Profile(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func UpdateProfile(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	currentUser := userInterface.(models.User)

	var input struct {
		Name           *string `json:"name"`
		DataPermission *bool   `json:"data_permission"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	if input.Name != nil {
		currentUser.Name = *input.Name
	}
	if input.DataPermission != nil {
		currentUser.DataPermission = *input.DataPermission
	}

	if err := db.DB.Save(&currentUser).Error; err != nil {
		utils.Logger.Error("profile_update_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	utils.Logger.Info("profile_updated", zap.Uint("user_id", currentUser.ID))
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": currentUser})
}
