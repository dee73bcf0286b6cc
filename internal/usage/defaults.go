package usage

import "time"

const defaultPlan = "Free"

func newUsage(limit int, now time.Time) Usage {
	return Usage{
		Plan:     defaultPlan,
		Limit:    limit,
		Used:     0,
		ResetsAt: now.UTC().Add(Period),
	}
}

// roll starts a new window when the current one has ended.
func roll(u Usage, now time.Time) (Usage, bool) {
	if now.Before(u.ResetsAt) {
		return u, false
	}
	u.Used = 0
	u.ResetsAt = now.UTC().Add(Period)
	return u, true
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
