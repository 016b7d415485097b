package middleware

import (
	"log/slog"
	"time"

	"github.com/vango-dev/waypoint/pkg/pipeline"
)

// Logging logs how the pipeline composed from mws resolved each navigation.
// Errors are logged at warn level, everything else at debug.
// If logger is nil, slog.Default() is used.
func Logging(logger *slog.Logger, mws ...pipeline.Middleware) pipeline.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return observe(mws, func(s pipeline.State) (pipeline.State, func(error, pipeline.State)) {
		start := time.Now()
		path := s.Path

		return s, func(err error, resolved pipeline.State) {
			outcome := pipeline.Classify(err, resolved)
			attrs := []any{
				"path", path,
				"outcome", outcome.String(),
				"duration", time.Since(start),
			}

			switch outcome {
			case pipeline.OutcomeError:
				logger.Warn("navigation failed", append(attrs, "error", err, "error_type", categorizeError(err))...)
			case pipeline.OutcomeRedirect:
				logger.Debug("navigation redirected", append(attrs, "redirect", resolved.Redirect)...)
			default:
				logger.Debug("navigation resolved", append(attrs, "routes", len(resolved.Routes))...)
			}
		}
	})
}
