package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/cache"
	"github.com/hanifahuq/MelloBackend/db"
	"github.com/hanifahuq/MelloBackend/models"
	"github.com/hanifahuq/MelloBackend/streak"
)

type HabitStats struct {
	Title          string  `json:"title"`
	TotalDates     int     `json:"total_dates"`
	CompletedDates int     `json:"completed_dates"`
	CompletionRate float64 `json:"completion_rate"`
	Error          error   `json:"-"`
}

type WellnessStats struct {
	UserID         uint               `json:"user_id"`
	TotalEvents    int                `json:"total_events"`
	Habits         []HabitStats       `json:"habits"`
	OverallRate    float64            `json:"overall_completion_rate"`
	Emotions       map[string]float64 `json:"emotions"`
	TopEmotion     string             `json:"top_emotion"`
	JournalEntries int                `json:"journal_entries"`
	Streaks        streak.Stats       `json:"streaks"`
	ProcessingTime time.Duration      `json:"processing_time_ms"`
}

// CalculateWellnessStats собирает дашборд пользователя: статистику выполнения
// по каждой привычке (независимые запросы - считаются параллельно, по одной
// горутине на привычку), средние эмоции по дневнику и серии дней. Результат
// живёт в Redis 5 минут и сбрасывается при любой мутации событий.
func CalculateWellnessStats(userID uint, logger *zap.Logger) (*WellnessStats, error) {
	startTime := time.Now()

	cacheKey := cache.StatsKey(userID)
	var cached WellnessStats
	if err := cache.Get(cacheKey, &cached); err == nil {
		logger.Info("stats_cache_hit", zap.String("key", cacheKey))
		return &cached, nil
	}

	var titles []string
	if err := db.DB.Model(&models.Event{}).
		Where("user_id = ?", userID).
		Distinct("title").
		Pluck("title", &titles).Error; err != nil {
		return nil, err
	}

	statsChan := make(chan HabitStats, len(titles))
	var wg sync.WaitGroup

	for _, title := range titles {
		wg.Add(1)
		go func(t string) {
			defer wg.Done()
			statsChan <- calculateHabitStats(userID, t)
		}(title)
	}

	go func() {
		wg.Wait()
		close(statsChan)
	}()

	result := &WellnessStats{UserID: userID}

	var totalRate float64
	for stat := range statsChan {
		if stat.Error != nil {
			logger.Warn("habit_stats_error", zap.String("title", stat.Title), zap.Error(stat.Error))
			continue
		}
		result.Habits = append(result.Habits, stat)
		result.TotalEvents += stat.TotalDates
		totalRate += stat.CompletionRate
	}
	if len(result.Habits) > 0 {
		result.OverallRate = totalRate / float64(len(result.Habits))
	}

	if err := addJournalStats(userID, result); err != nil {
		return nil, err
	}

	result.ProcessingTime = time.Since(startTime)

	if err := cache.Set(cacheKey, result, 5*time.Minute); err != nil && err != cache.ErrUnavailable {
		logger.Warn("stats_cache_set_failed", zap.Error(err))
	}

	logger.Info("wellness_stats_calculated",
		zap.Uint("user_id", userID),
		zap.Int("habits_count", len(result.Habits)),
		zap.Duration("duration", result.ProcessingTime))

	return result, nil
}

func calculateHabitStats(userID uint, title string) HabitStats {
	stats := HabitStats{Title: title}

	var events []models.Event
	if err := db.DB.Where("user_id = ? AND title = ?", userID, title).
		Find(&events).Error; err != nil {
		stats.Error = err
		return stats
	}

	stats.TotalDates = len(events)
	for _, event := range events {
		if event.Completed {
			stats.CompletedDates++
		}
	}
	if stats.TotalDates > 0 {
		stats.CompletionRate = float64(stats.CompletedDates) / float64(stats.TotalDates) * 100
	}

	return stats
}

func addJournalStats(userID uint, result *WellnessStats) error {
	var entries []models.JournalEntry
	if err := db.DB.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return err
	}

	result.Emotions = map[string]float64{
		"Angry": 0, "Fear": 0, "Happy": 0, "Sad": 0, "Surprise": 0,
	}
	if len(entries) == 0 {
		return nil
	}

	dates := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		result.Emotions["Angry"] += entry.Angry
		result.Emotions["Fear"] += entry.Fear
		result.Emotions["Happy"] += entry.Happy
		result.Emotions["Sad"] += entry.Sad
		result.Emotions["Surprise"] += entry.Surprise
		dates = append(dates, entry.DateCreated)
	}

	top := ""
	best := -1.0
	for emotion := range result.Emotions {
		result.Emotions[emotion] /= float64(len(entries))
		if result.Emotions[emotion] > best {
			best = result.Emotions[emotion]
			top = emotion
		}
	}
	result.TopEmotion = top

	streaks := streak.Compute(dates, time.Now())
	result.Streaks = streaks
	result.JournalEntries = len(entries)

	return nil
}
