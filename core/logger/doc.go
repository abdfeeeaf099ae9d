// Package logger provides structured logging utilities built on Go's standard
// slog package: a small factory with environment presets and a set of
// attribute helpers used across the server.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("markdown-up"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("serving",
//		logger.Component("server"),
//		logger.Key("root", root),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty attribute for missing values so they can be passed
// unconditionally:
//
//	log.Error("static resolution failed",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.Query(r.URL.RawQuery),
//		logger.Error(err),
//	)
package logger
