package ratelimit

import (
	"sync"
	"time"
)

// Decision - результат проверки лимита для одного ключа
type Decision struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type windowEntry struct {
	count int
	start time.Time
}

// FixedWindowLimiter - лимит на ключ (IP) в фиксированном окне.
// Окно начинается с первого запроса и сбрасывается целиком по истечении.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*windowEntry
	now     func() time.Time
}

func NewFixedWindowLimiter(maxRequests int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		max:     maxRequests,
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// WithClock подменяет источник времени (для тестов)
func (l *FixedWindowLimiter) WithClock(now func() time.Time) *FixedWindowLimiter {
	l.now = now
	return l
}

func (l *FixedWindowLimiter) MaxRequests() int {
	return l.max
}

func (l *FixedWindowLimiter) Window() time.Duration {
	return l.window
}

// Allow учитывает запрос. Отклоненный запрос счетчик не увеличивает.
func (l *FixedWindowLimiter) Allow(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]
	if !ok || !l.active(entry, now) {
		entry = &windowEntry{count: 0, start: now}
		l.entries[key] = entry
	}

	resetAt := entry.start.Add(l.window)
	if entry.count >= l.max {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}
	}

	entry.count++
	return Decision{
		Allowed:   true,
		Remaining: l.max - entry.count,
		ResetAt:   resetAt,
	}
}

// Remaining - сколько запросов осталось в текущем окне, без учета запроса
func (l *FixedWindowLimiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || !l.active(entry, l.now()) {
		return l.max
	}
	if remaining := l.max - entry.count; remaining > 0 {
		return remaining
	}
	return 0
}

// Prune удаляет истекшие окна и возвращает количество удаленных ключей
func (l *FixedWindowLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, entry := range l.entries {
		if !l.active(entry, now) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len - количество отслеживаемых ключей
func (l *FixedWindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *FixedWindowLimiter) active(entry *windowEntry, now time.Time) bool {
	return now.Sub(entry.start) < l.window
}
