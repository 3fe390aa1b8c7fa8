package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/cache"
	"github.com/hanifahuq/MelloBackend/chat"
	"github.com/hanifahuq/MelloBackend/db"
	"github.com/hanifahuq/MelloBackend/llm"
	"github.com/hanifahuq/MelloBackend/models"
	"github.com/hanifahuq/MelloBackend/utils"
)

const limitMessage = "You have reached the limit of 10 questions for this session. " +
	"Thank you for talking with me today! I look forward to talking to you tomorrow"

func mimiSession(c *gin.Context) (*chat.Session, models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, models.User{}, false
	}
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No session"})
		return nil, models.User{}, false
	}
	return chat.Sessions.Get(sessionID, user.ID), user, true
}

// GetMimi отдаёт состояние разговора. Если дневник за сессию уже отправлен,
// а Mimi ещё не отреагировала, здесь происходит её одноразовый ответ.
func GetMimi(c *gin.Context) {
	session, user, ok := mimiSession(c)
	if !ok {
		return
	}

	_, responded, err := session.RespondToJournal(c.Request.Context(), llm.Completion)
	if err != nil && !errors.Is(err, chat.ErrAwaitingJournal) {
		utils.Logger.Error("journal_response_failed", zap.Error(err), zap.Uint("user_id", user.ID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Mimi is unavailable right now, try again in a moment"})
		return
	}
	if responded {
		utils.Logger.Info("journal_responded", zap.Uint("user_id", user.ID))
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

type AskInput struct {
	Message string `json:"message" binding:"required,max=500"`
}

// AskMimi проводит один вопрос через гейт: лимит 10 вопросов на сессию,
// после третьего - одноразовые предложения активностей.
func AskMimi(c *gin.Context) {
	session, user, ok := mimiSession(c)
	if !ok {
		return
	}

	var input AskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required (max 500 characters)"})
		return
	}

	response, err := session.Ask(c.Request.Context(), input.Message, llm.Completion, llm.SuggestEvents)
	switch {
	case errors.Is(err, chat.ErrAwaitingJournal):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Please go to the Journal page and enter your notes for today. " +
				"Mimi will respond once you have submitted a journal entry.",
		})
		return
	case errors.Is(err, chat.ErrLimitReached):
		c.JSON(http.StatusOK, gin.H{"message": limitMessage, "state": "limit_reached"})
		return
	case err != nil:
		utils.Logger.Error("mimi_completion_failed", zap.Error(err), zap.Uint("user_id", user.ID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Mimi is unavailable right now, try again in a moment"})
		return
	}

	snapshot := session.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"response":       response,
		"questions_left": snapshot.QuestionsLeft,
		"suggestions":    snapshot.Suggestions,
		"state":          snapshot.State,
	})
}

type ScheduleInput struct {
	Suggestion int    `json:"suggestion"` // индекс в списке предложений
	Date       string `json:"date" binding:"required"`
}

// ScheduleSuggestion вставляет выбранную активность в календарь.
func ScheduleSuggestion(c *gin.Context) {
	session, user, ok := mimiSession(c)
	if !ok {
		return
	}

	var input ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	suggestion, ok := session.Suggested(input.Suggestion)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No such suggestion"})
		return
	}

	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	event := models.Event{
		UserID:       user.ID,
		Title:        suggestion.Title,
		AssignedDate: date,
	}
	if err := db.DB.Create(&event).Error; err != nil {
		utils.Logger.Error("suggestion_schedule_failed", zap.Error(err), zap.Uint("user_id", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add event to calendar"})
		return
	}

	cache.Events.Invalidate(user.ID)

	utils.Logger.Info("suggestion_scheduled",
		zap.Uint("user_id", user.ID),
		zap.String("title", suggestion.Title))

	c.JSON(http.StatusCreated, gin.H{"message": "Event added to Calendar", "event": event})
}
