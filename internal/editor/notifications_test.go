package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(Notification{Level: LevelInfo, Message: "one"})
	r.Notify(Notification{Level: LevelSuccess, Message: "two"})

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, "two", last.Message)
	assert.Len(t, r.Notifications(), 2)

	r.Reset()
	assert.Empty(t, r.Notifications())
}

func TestNotifiers_FanOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	var calls int
	n := Notifiers(a, nil, b, NotifierFunc(func(Notification) { calls++ }))

	n.Notify(Notification{Message: "saved"})

	assert.Len(t, a.Notifications(), 1)
	assert.Len(t, b.Notifications(), 1)
	assert.Equal(t, 1, calls)
}

func TestLogNotifier_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	n := NewLogNotifier(logging.NewSafeLogger(zap.New(core)))

	n.Notify(Notification{Level: LevelSuccess, Operation: OpSaveSections, Slug: "cse", Message: "Page saved"})
	n.Notify(Notification{Level: LevelError, Operation: OpLoad, Slug: "cse", Message: "Failed", Err: errors.New("boom")})

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, "cse", entries[1].ContextMap()["slug"])
	}
}
