package ratelimit

import (
	"context"
	"sync"
	"time"
)

const DefaultCapacity = 10000

type window struct {
	count int
	start time.Time
}

// MemoryLimiter keeps at most capacity windows. Expired windows are swept
// when room is needed; if none has expired the oldest one is dropped.
type MemoryLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	period   time.Duration
	capacity int
	now      func() time.Time
}

func NewMemoryLimiter(limit int, period time.Duration, capacity int) *MemoryLimiter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryLimiter{
		windows:  make(map[string]*window),
		limit:    limit,
		period:   period,
		capacity: capacity,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if ok && now.Sub(w.start) >= l.period {
		delete(l.windows, key)
		ok = false
	}

	if !ok {
		if len(l.windows) >= l.capacity {
			l.makeRoom(now)
		}
		l.windows[key] = &window{count: 1, start: now}
		return l.limit > 0, nil
	}

	w.count++
	return w.count <= l.limit, nil
}

func (l *MemoryLimiter) makeRoom(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.period {
			delete(l.windows, k)
			continue
		}
		if oldestKey == "" || w.start.Before(oldest) {
			oldestKey, oldest = k, w.start
		}
	}
	if len(l.windows) >= l.capacity && oldestKey != "" {
		delete(l.windows, oldestKey)
	}
}

// Len reports how many windows are tracked.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
