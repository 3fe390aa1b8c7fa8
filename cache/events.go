package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hanifahuq/MelloBackend/models"
)

// EventsCache кэширует календарь событий пользователя между запросами.
// Любая мутация событий обязана звать Invalidate - никакого флага
// "events_loaded", проверяемого в трёх местах.
type EventsCache struct {
	ttl    time.Duration
	logger *zap.Logger
}

var Events *EventsCache

func InitEventsCache(logger *zap.Logger) {
	Events = &EventsCache{ttl: 10 * time.Minute, logger: logger}
}

func (c *EventsCache) key(userID uint) string {
	return fmt.Sprintf("events:%d", userID)
}

// Get возвращает (события, true) при попадании. Любая ошибка Redis
// трактуется как промах.
func (c *EventsCache) Get(userID uint) ([]models.Event, bool) {
	var events []models.Event
	if err := Get(c.key(userID), &events); err != nil {
		return nil, false
	}
	c.logger.Debug("events_cache_hit", zap.Uint("user_id", userID))
	return events, true
}

func (c *EventsCache) Put(userID uint, events []models.Event) {
	if err := Set(c.key(userID), events, c.ttl); err != nil {
		c.logger.Warn("events_cache_set_failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// Invalidate сбрасывает кэш после любой мутации событий: создания привычки,
// отметки выполнения, планирования предложенной активности.
func (c *EventsCache) Invalidate(userID uint) {
	if err := Delete(c.key(userID)); err != nil && err != ErrUnavailable {
		c.logger.Warn("events_cache_invalidate_failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	// Статистика дашборда тоже завязана на события
	if err := InvalidateStats(userID); err != nil && err != ErrUnavailable {
		c.logger.Warn("stats_cache_invalidate_failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	c.logger.Info("events_cache_invalidated", zap.Uint("user_id", userID))
}

// StatsKey - ключ кэша дашборда; один и тот же у сервиса и у инвалидации.
func StatsKey(userID uint) string {
	return fmt.Sprintf("wellness_stats:%d", userID)
}

// InvalidateStats сбрасывает кэш дашборда. Зовётся и при мутациях событий,
// и при новой записи дневника: эмоции и серии берутся из дневника.
func InvalidateStats(userID uint) error {
	return Delete(StatsKey(userID))
}
