package ui

import (
	"log/slog"
)

// Notification levels.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notifier shows a user-visible message (a toast in the browser).
type Notifier interface {
	Notify(message, level string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message, level string)

func (f NotifierFunc) Notify(message, level string) { f(message, level) }

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(message, level string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	switch level {
	case LevelError:
		logger.Error("notification", "message", message)
	case LevelWarning:
		logger.Warn("notification", "message", message)
	default:
		logger.Info("notification", "message", message, "level", level)
	}
}
