// Package streak считает серии дней подряд, в которые пользователь
// писал дневник.
package streak

import (
	"sort"
	"time"
)

type Stats struct {
	Current int `json:"current_streak"`
	Best    int `json:"best_streak"`
}

// Compute группирует даты в максимальные непрерывные отрезки (разрыв в один
// день начинает новую группу). Best - размер самой длинной группы. Current -
// размер группы, содержащей today, и 0, если записи за сегодня нет: семантика
// "писал ли ты сегодня", а не "жива ли ещё серия".
func Compute(dates []time.Time, today time.Time) Stats {
	if len(dates) == 0 {
		return Stats{}
	}

	// Несколько записей за один день считаются одним днём
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := midnight(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	todayDay := midnight(today)

	var stats Stats
	groupLen := 0
	groupHasToday := false

	for i, day := range days {
		if i > 0 && day.Sub(days[i-1]) == 24*time.Hour {
			groupLen++
		} else {
			groupLen = 1
			groupHasToday = false
		}
		if day.Equal(todayDay) {
			groupHasToday = true
		}
		if groupLen > stats.Best {
			stats.Best = groupLen
		}
		if groupHasToday {
			stats.Current = groupLen
		}
	}

	return stats
}

// Драйвер БД может вернуть метку в поясе сессии; календарный день всегда
// берётся по UTC, иначе тот же момент даёт разные дни.
func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
