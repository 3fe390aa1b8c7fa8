package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/services"
	"github.com/hanifahuq/MelloBackend/utils"
)

// GetDashboard отдаёт сводку: эмоции по дневнику, топ-эмоцию, серии дней и
// выполнение привычек.
func GetDashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := services.CalculateWellnessStats(user.ID, utils.Logger)
	if err != nil {
		utils.Logger.Error("dashboard_failed", zap.Error(err), zap.Uint("user_id", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
