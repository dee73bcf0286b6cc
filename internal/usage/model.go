package usage

import (
	"errors"
	"time"
)

var (
	// ErrLimitReached means the window's credits are used up.
	ErrLimitReached = errors.New("weekly AI credit limit reached")
	// ErrInvalidAmount rejects non-positive consumption.
	ErrInvalidAmount = errors.New("credit amount must be positive")
)

// Period is the length of a usage window.
const Period = 7 * 24 * time.Hour

// DefaultLimit is the weekly allowance of AI operations when none is configured.
const DefaultLimit = 50

// Usage represents a principal's AI credit consumption for the current window.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

// Remaining returns the credits left in the window.
func (u Usage) Remaining() int {
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}
