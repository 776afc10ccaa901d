// Package logger provides a structured logging facility based on Zap.
//
// Debug level selects zap's development config, anything else the production
// config. Console format swaps in colored capital levels and drops stack traces.
//
// # Context Awareness
//
// WithRayID extracts the ray id set by the rayid middleware from a Fiber context
// and attaches it to the logger, so every line of one request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
