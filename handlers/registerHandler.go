package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/db"
	"github.com/hanifahuq/MelloBackend/middleware"
	"github.com/hanifahuq/MelloBackend/models"
	"github.com/hanifahuq/MelloBackend/utils"
)

type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Name            string `json:"name" validate:"required,max=100"`
	Password        string `json:"password" validate:"required,min=4"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	DataPermission  bool   `json:"data_permission"`
}

func RegisterHandler(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	if err := middleware.ValidateStruct(input); err != nil {
		utils.Logger.Warn("register_validation_failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Check the registration fields",
			"details": err.Error(),
		})
		return
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))

	utils.Logger.Info("register_attempt", zap.String("username", username))

	var existing models.User
	if err := db.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		utils.Logger.Warn("register_user_exists", zap.String("username", username))
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.Logger.Error("register_hash_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:       username,
		Name:           strings.TrimSpace(input.Name),
		PasswordHash:   hashedPassword,
		DataPermission: input.DataPermission,
		Role:           models.RoleUser,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		utils.Logger.Error("register_db_create_failed", zap.Error(err), zap.String("username", username))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, sessionID, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		utils.Logger.Error("register_token_generation_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	utils.Logger.Info("register_success",
		zap.Uint("user_id", user.ID),
		zap.String("session_id", sessionID))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user": gin.H{
			"id":              user.ID,
			"username":        user.Username,
			"name":            user.Name,
			"data_permission": user.DataPermission,
			"role":            user.Role,
		},
		"token": token,
	})
}
