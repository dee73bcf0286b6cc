package analyses

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/usage"
)

// Runner sends prompts on behalf of a principal and charges one usage
// credit for every completion that succeeds. The credit is taken before the
// model is called and given back if the call fails.
type Runner struct {
	LLM   llm.Client
	Usage *usage.Service
}

// Complete reserves a credit, calls the model and refunds the credit on failure.
func (r *Runner) Complete(ctx context.Context, userID string, req llm.Request) (string, error) {
	if r == nil || r.LLM == nil {
		return "", llm.ErrNotConfigured
	}
	if r.Usage != nil {
		if _, err := r.Usage.Consume(ctx, userID, 1); err != nil {
			return "", err
		}
	}

	out, err := r.LLM.Complete(ctx, req)
	if err != nil {
		r.refund(ctx, userID)
		return "", err
	}
	return out, nil
}

func (r *Runner) refund(ctx context.Context, userID string) {
	if r.Usage == nil {
		return
	}
	if _, err := r.Usage.Refund(context.WithoutCancel(ctx), userID, 1); err != nil {
		telemetry.Warn("usage.refund_failed", map[string]any{"user_id": userID, "error": err})
	}
}

// RespondError writes the error envelope for failures of AI-backed operations.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usage.ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, respond.CodeLimitReached,
			"You've reached your AI usage limit for this week.", []map[string]string{
				{"field": "usage", "issue": "limit_reached"},
			})
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.NotFound(c, err.Error())
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, respond.CodeLLMUnavailable,
			"AI provider is not configured", nil)
	case errors.Is(err, llm.ErrInvalidResponse), errors.Is(err, llm.ErrNoJSON), errors.Is(err, ErrIncompleteProfile):
		respond.Error(c, http.StatusBadGateway, respond.CodeLLMInvalidResponse,
			"The AI response could not be parsed. Please try again.", nil)
	case errors.Is(err, context.Canceled):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	case errors.Is(err, context.DeadlineExceeded), llm.ShouldRetry(err):
		respond.Error(c, http.StatusGatewayTimeout, respond.CodeLLMUnavailable,
			"The AI service did not respond in time. Please try again.", nil)
	default:
		respond.Error(c, http.StatusBadGateway, respond.CodeUpstream,
			"The AI service rejected the request. Please try again.", nil)
	}
}
