package editor

import (
	"sync"
	"time"

	"github.com/viet-college/app-dept-pages/internal/logging"
	"go.uber.org/zap"
)

// Level classifies a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient message for the operator
type Notification struct {
	Level     Level     `json:"level"`
	Operation string    `json:"operation"`
	Slug      string    `json:"slug"`
	Message   string    `json:"message"`
	Err       error     `json:"-"`
	Time      time.Time `json:"time"`
}

// Notifier delivers operator notifications
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to the log
type LogNotifier struct {
	logger *logging.SafeLogger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *logging.SafeLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(n Notification) {
	fields := []zap.Field{
		zap.String("operation", n.Operation),
		zap.String("slug", n.Slug),
	}
	if n.Err != nil {
		fields = append(fields, zap.Error(n.Err))
	}
	if n.Level == LevelError {
		l.logger.Warn(n.Message, fields...)
		return
	}
	l.logger.Info(n.Message, fields...)
}

// Recorder keeps every notification in memory
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// Notifications returns a copy of everything recorded so far
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

// Reset forgets recorded notifications
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}

type multiNotifier []Notifier

func (m multiNotifier) Notify(n Notification) {
	for _, x := range m {
		if x != nil {
			x.Notify(n)
		}
	}
}

// Notifiers fans a notification out to several notifiers
func Notifiers(ns ...Notifier) Notifier {
	return multiNotifier(ns)
}
