package service

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Second)
		return now
	}
}

func testOptions() Options {
	return Options{
		Now:      tickingClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)),
		HashCost: bcrypt.MinCost,
	}
}

func strPtr(s string) *string {
	return &s
}
