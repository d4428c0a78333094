package llm

import (
	"context"
	"time"

	"scaffolder/pkg/logx"
)

// LoggingMiddleware logs every completion call with timing and outcome.
func LoggingMiddleware() Middleware {
	logger := logx.NewLogger("llm")
	return func(next Client) Client {
		return WrapClient(
			func(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
				start := time.Now()
				resp, err := next.Complete(ctx, req)
				elapsed := time.Since(start)
				if err != nil {
					logger.Warn("%s completion failed after %.3gs: %v", next.GetModelName(), elapsed.Seconds(), err)
					return resp, err
				}
				logger.Debug("%s completion in %.3gs: %d chars, %d tool calls",
					next.GetModelName(), elapsed.Seconds(), len(resp.Content), len(resp.ToolCalls))
				return resp, nil
			},
			next.GetModelName,
		)
	}
}
