package contactform

import "go.uber.org/zap"

// Level distinguishes success and failure notifications.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a user-visible toast.
type Notification struct {
	Level       Level
	Title       string
	Description string
}

var (
	invalidNotice = Notification{
		Level: LevelError,
		Title: "Please fix the errors in the form",
	}
	successNotice = Notification{
		Level:       LevelSuccess,
		Title:       "Message sent successfully!",
		Description: "We'll get back to you within 24 hours.",
	}
	failureNotice = Notification{
		Level:       LevelError,
		Title:       "Failed to send message",
		Description: "Please try again or contact us directly.",
	}
)

// Notifier displays notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify calls f.
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

// Notify logs n at info or warn level.
func (l LogNotifier) Notify(n Notification) {
	fields := []zap.Field{zap.String("title", n.Title)}
	if n.Description != "" {
		fields = append(fields, zap.String("description", n.Description))
	}
	if n.Level == LevelError {
		l.Logger.Warn("notification", fields...)
		return
	}
	l.Logger.Info("notification", fields...)
}
