package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/cache"
	"github.com/hanifahuq/MelloBackend/chat"
	"github.com/hanifahuq/MelloBackend/db"
	"github.com/hanifahuq/MelloBackend/llm"
	"github.com/hanifahuq/MelloBackend/middleware"
	"github.com/hanifahuq/MelloBackend/models"
	"github.com/hanifahuq/MelloBackend/recurrence"
	"github.com/hanifahuq/MelloBackend/streak"
	"github.com/hanifahuq/MelloBackend/utils"
)

type CreateJournalInput struct {
	Entry             string `json:"entry" binding:"required"`
	CompletedEventIDs []uint `json:"completed_event_ids"`
}

// CreateJournal сохраняет запись дневника с оценкой эмоций, отмечает
// выполненные за сегодня привычки и передаёт текст сессии Mimi.
func CreateJournal(c *gin.Context) {
	currentUser, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateJournalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Journal entry is required"})
		return
	}

	// Отмеченные в форме дневника привычки становятся выполненными
	if len(input.CompletedEventIDs) > 0 {
		if err := db.DB.Model(&models.Event{}).
			Where("id IN ? AND user_id = ?", input.CompletedEventIDs, currentUser.ID).
			Update("completed", true).Error; err != nil {
			utils.Logger.Error("journal_event_update_failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update events"})
			return
		}
		cache.Events.Invalidate(currentUser.ID)
	}

	// Оценка эмоций деградирует мягко: запись дневника важнее, чем
	// один пропущенный день на дашборде.
	scores, err := llm.AnalyzeEmotions(c.Request.Context(), input.Entry)
	if err != nil {
		utils.Logger.Warn("emotion_analysis_failed", zap.Error(err), zap.Uint("user_id", currentUser.ID))
		scores = map[string]float64{}
	}

	entry := models.JournalEntry{
		UserID:      currentUser.ID,
		DateCreated: recurrence.Midnight(time.Now()),
		Entry:       input.Entry,
		Angry:       scores["Angry"],
		Fear:        scores["Fear"],
		Happy:       scores["Happy"],
		Sad:         scores["Sad"],
		Surprise:    scores["Surprise"],
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		utils.Logger.Error("journal_insert_failed", zap.Error(err), zap.Uint("user_id", currentUser.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save journal entry"})
		return
	}

	// Закэшированный GET /api/journal устарел
	if err := middleware.InvalidateUserCache(currentUser.ID); err != nil && err != cache.ErrUnavailable {
		utils.Logger.Warn("journal_cache_invalidate_failed", zap.Error(err))
	}
	// Дашборд тоже: эмоции и серии считаются из записей дневника
	if err := cache.InvalidateStats(currentUser.ID); err != nil && err != cache.ErrUnavailable {
		utils.Logger.Warn("stats_cache_invalidate_failed", zap.Error(err))
	}

	// Mimi отвечает на дневник в рамках текущей сессии логина
	if sessionID := c.GetString("session_id"); sessionID != "" {
		chat.Sessions.Get(sessionID, currentUser.ID).SetJournal(input.Entry)
	}

	utils.Logger.Info("journal_submitted",
		zap.Uint("user_id", currentUser.ID),
		zap.Uint("journal_id", entry.ID))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Journal submitted - Head to Mimi!",
		"journal": entry,
	})
}

// GetJournal отдаёт записи пользователя, свежие сверху.
func GetJournal(c *gin.Context) {
	currentUser, ok := currentUser(c)
	if !ok {
		return
	}

	var entries []models.JournalEntry
	if err := db.DB.Where("user_id = ?", currentUser.ID).
		Order("date_created DESC").
		Find(&entries).Error; err != nil {
		utils.Logger.Error("get_journal_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load journal entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetStreaks считает текущую и лучшую серию дней с записями.
func GetStreaks(c *gin.Context) {
	currentUser, ok := currentUser(c)
	if !ok {
		return
	}

	var dates []time.Time
	if err := db.DB.Model(&models.JournalEntry{}).
		Where("user_id = ?", currentUser.ID).
		Pluck("date_created", &dates).Error; err != nil {
		utils.Logger.Error("get_streaks_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load journal dates"})
		return
	}

	c.JSON(http.StatusOK, streak.Compute(dates, time.Now()))
}
