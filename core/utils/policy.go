package utils

import "go.uber.org/zap"

// BestEffort runs a non-critical side effect: a failure is logged at warn level
// and reported through the return value, but must never fail the surrounding
// operation. Callers that do not care about the outcome ignore the result.
func BestEffort(l *zap.Logger, action string, fn func() error) bool {
	if err := fn(); err != nil {
		if l != nil {
			l.Warn("Non-critical side effect failed, continuing",
				zap.String("action", action),
				zap.Error(err),
			)
		}
		return false
	}
	return true
}
