package middleware

import (
	"context"
	"time"

	"github.com/leofalp/llmcall/core/invoke"
	"github.com/leofalp/llmcall/internal/utils"
	"github.com/leofalp/llmcall/providers/ai"
	"go.uber.org/zap"
)

// LogLevel controls how much detail the logging middleware emits per call.
type LogLevel int

const (
	// LogLevelMinimal logs the model, attempt, duration and token counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the agent, message count and result kind.
	LogLevelStandard

	// LogLevelVerbose adds the last prompt message and the response text, each
	// truncated to 500 characters.
	//
	// WARNING: DO NOT use LogLevelVerbose in production. It logs raw prompt
	// and response text.
	LogLevelVerbose
)

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// NewLoggingMiddleware logs every backend call. A nil logger disables it.
func NewLoggingMiddleware(logger *zap.Logger, level LogLevel) invoke.Middleware {
	return func(next invoke.InvokeFunc) invoke.InvokeFunc {
		if logger == nil {
			return next
		}
		return func(ctx context.Context, call invoke.Call) (ai.RawResult, error) {
			logger.Info("llm invoke", requestFields(call, level)...)

			start := time.Now()
			result, err := next(ctx, call)
			elapsed := time.Since(start)

			if err != nil {
				logger.Error("llm invoke failed",
					zap.String("model", call.Model.Name),
					zap.Int("attempt", call.Attempt),
					zap.Duration("duration", elapsed),
					zap.Error(err),
				)
				return result, err
			}

			logger.Info("llm invoke completed", responseFields(call, result, elapsed, level)...)
			return result, nil
		}
	}
}

func requestFields(call invoke.Call, level LogLevel) []zap.Field {
	fields := []zap.Field{
		zap.String("model", call.Model.Name),
		zap.String("provider", call.Model.Provider),
		zap.Int("attempt", call.Attempt),
		zap.Int("max_retries", call.MaxRetries),
	}

	if level >= LogLevelStandard {
		fields = append(fields,
			zap.String("agent", call.Agent),
			zap.String("invocation_id", call.InvocationID),
			zap.Int("message_count", len(call.Prompt)),
		)
	}

	if level >= LogLevelVerbose && len(call.Prompt) > 0 {
		last := call.Prompt[len(call.Prompt)-1]
		fields = append(fields,
			zap.String("last_message_role", string(last.Role)),
			zap.String("last_message_content", utils.TruncateString(last.Content, truncateLen)),
		)
	}

	return fields
}

func responseFields(call invoke.Call, result ai.RawResult, elapsed time.Duration, level LogLevel) []zap.Field {
	model := utils.FirstNonEmpty(result.Model, call.Model.Name)
	fields := []zap.Field{
		zap.String("model", model),
		zap.Int("attempt", call.Attempt),
		zap.Duration("duration", elapsed),
	}

	if result.Usage != nil {
		fields = append(fields,
			zap.Int("prompt_tokens", result.Usage.PromptTokens),
			zap.Int("completion_tokens", result.Usage.CompletionTokens),
			zap.Int("total_tokens", result.Usage.TotalTokens),
		)
	}

	if level >= LogLevelStandard {
		fields = append(fields, zap.Stringer("kind", result.Kind))
	}

	if level >= LogLevelVerbose && result.Text != "" {
		fields = append(fields, zap.String("response_content", utils.TruncateString(result.Text, truncateLen)))
	}

	return fields
}
