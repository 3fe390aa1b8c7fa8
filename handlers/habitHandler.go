package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/cache"
	"github.com/hanifahuq/MelloBackend/db"
	"github.com/hanifahuq/MelloBackend/middleware"
	"github.com/hanifahuq/MelloBackend/models"
	"github.com/hanifahuq/MelloBackend/recurrence"
	"github.com/hanifahuq/MelloBackend/utils"
)

const dateLayout = "2006-01-02"

type CreateHabitInput struct {
	Title     string `json:"title" validate:"required,max=200"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"`
	Frequency string `json:"frequency" validate:"required"`
	Weekday   string `json:"weekday"`
}

// CreateHabit раскрывает определение привычки в конкретные даты и вставляет
// их в events одной пачкой: по строке на каждую дату.
func CreateHabit(c *gin.Context) {
	currentUser, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateHabitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Check the habit fields", "details": err.Error()})
		return
	}

	if input.EndDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Make sure to add a beginning and end date!"})
		return
	}

	startDate, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse(dateLayout, input.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return
	}

	frequency, err := recurrence.ParseFrequency(input.Frequency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Frequency must be Daily or Weekly"})
		return
	}

	var weekday time.Weekday
	if frequency == recurrence.Weekly {
		weekday, err = recurrence.ParseWeekday(input.Weekday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Weekly habits need a weekday (Monday..Sunday)"})
			return
		}
	}

	dates, err := recurrence.Expand(startDate, endDate, frequency, weekday)
	if err != nil {
		switch {
		case errors.Is(err, recurrence.ErrMissingEndDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Make sure to add a beginning and end date!"})
		case errors.Is(err, recurrence.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Start date must not be after end date"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	if len(dates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No dates fall inside the range", "created": 0})
		return
	}

	events := make([]models.Event, 0, len(dates))
	for _, date := range dates {
		events = append(events, models.Event{
			UserID:       currentUser.ID,
			Title:        input.Title,
			AssignedDate: date,
		})
	}

	if err := db.DB.Create(&events).Error; err != nil {
		utils.Logger.Error("habit_bulk_insert_failed", zap.Error(err), zap.Uint("user_id", currentUser.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create habit"})
		return
	}

	cache.Events.Invalidate(currentUser.ID)

	utils.Logger.Info("habit_created",
		zap.Uint("user_id", currentUser.ID),
		zap.String("title", input.Title),
		zap.String("frequency", string(frequency)),
		zap.Int("occurrences", len(events)))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Habit created",
		"created": len(events),
		"events":  events,
	})
}

// GetEvents отдаёт календарь пользователя, сначала заглядывая в кэш.
func GetEvents(c *gin.Context) {
	currentUser, ok := currentUser(c)
	if !ok {
		return
	}

	if events, hit := cache.Events.Get(currentUser.ID); hit {
		c.JSON(http.StatusOK, events)
		return
	}

	var events []models.Event
	if err := db.DB.Where("user_id = ?", currentUser.ID).
		Order("assigned_date ASC").
		Find(&events).Error; err != nil {
		utils.Logger.Error("get_events_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load events"})
		return
	}

	cache.Events.Put(currentUser.ID, events)
	c.JSON(http.StatusOK, events)
}

// CompleteEvent помечает одну дату привычки выполненной (или снимает отметку).
func CompleteEvent(c *gin.Context) {
	currentUser, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")

	var event models.Event
	if err := db.DB.Where("id = ? AND user_id = ?", id, currentUser.ID).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var input struct {
		Completed *bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	completed := true
	if input.Completed != nil {
		completed = *input.Completed
	}

	if err := db.DB.Model(&event).Update("completed", completed).Error; err != nil {
		utils.Logger.Error("event_complete_failed", zap.Error(err), zap.String("event_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	cache.Events.Invalidate(currentUser.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Event updated", "event": event})
}

// currentUser достаёт пользователя, положенного auth-middleware.
func currentUser(c *gin.Context) (models.User, bool) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.User{}, false
	}
	user, ok := userInterface.(models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return models.User{}, false
	}
	return user, true
}
