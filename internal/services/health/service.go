package health

import (
	"context"
	"database/sql"
	"time"
)

// CacheProbe reports whether the job cache has a live backend.
type CacheProbe interface {
	Available() bool
}

// Service reports which backing components the API is running on.
type Service struct {
	DB          *sql.DB
	Cache       CacheProbe
	LLMProvider string
	Storage     string
}

// Status returns a component summary. A nil DB means in-memory repositories.
func (s *Service) Status() map[string]any {
	out := map[string]any{
		"database": "memory",
		"cache":    "disabled",
		"llm":      s.LLMProvider,
		"storage":  s.Storage,
	}
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		out["database"] = "postgres"
		if err := s.DB.PingContext(ctx); err != nil {
			out["database"] = "unreachable"
			out["ok"] = false
		}
	}
	if s.Cache != nil && s.Cache.Available() {
		out["cache"] = "redis"
	}
	if s.LLMProvider == "" {
		out["llm"] = "none"
	}
	return out
}
