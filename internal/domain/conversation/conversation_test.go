package conversation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/alanyang/agent-status/internal/domain/conversation"
)

func TestTaskInProgress(t *testing.T) {
	ptr := func(s TaskStatus) *TaskStatus { return &s }

	tests := []struct {
		name string
		in   *TaskStatus
		want bool
	}{
		{name: "nil",                   in: nil,                           want: false},
		{name: "ready",                 in: ptr(TaskReady),                want: false},
		{name: "error",                 in: ptr(TaskError),                want: false},
		{name: "working",               in: ptr(TaskWorking),              want: true},
		{name: "waiting for sandbox",   in: ptr(TaskWaitingForSandbox),    want: true},
		{name: "starting conversation", in: ptr(TaskStartingConversation), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TaskInProgress(tt.in))
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	got, err := ParseTaskStatus("SETTING_UP_SKILLS")
	require.NoError(t, err)
	assert.Equal(t, TaskSettingUpSkills, got)

	_, err = ParseTaskStatus("working")
	assert.Error(t, err, "status keys are case sensitive")
}

func TestParseConnectionStatus(t *testing.T) {
	for _, raw := range []string{"CONNECTED", "CONNECTING", "DISCONNECTED"} {
		got, err := ParseConnectionStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, ConnectionStatus(raw), got)
	}
	_, err := ParseConnectionStatus("OPEN")
	assert.Error(t, err)
}

func TestRecordIsStarting(t *testing.T) {
	status := func(s Status) *Status { return &s }
	runtime := func(s RuntimeStatus) *RuntimeStatus { return &s }

	tests := []struct {
		name string
		rec  *Record
		want bool
	}{
		{name: "nil record", rec: nil, want: false},
		{name: "no fields", rec: &Record{ConversationID: "c"}, want: false},
		{name: "starting status", rec: &Record{Status: status(StatusStarting)}, want: true},
		{name: "running status", rec: &Record{Status: status(StatusRunning)}, want: false},
		{name: "runtime starting", rec: &Record{RuntimeStatus: runtime(RuntimeStarting)}, want: true},
		{name: "runtime ready", rec: &Record{Status: status(StatusRunning), RuntimeStatus: runtime(RuntimeReady)}, want: false},
		{name: "runtime error", rec: &Record{RuntimeStatus: runtime(RuntimeError)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.IsStarting())
		})
	}
}

func TestRecordIsClosed(t *testing.T) {
	status := func(s Status) *Status { return &s }

	var nilRec *Record
	assert.False(t, nilRec.IsClosed())
	assert.False(t, (&Record{}).IsClosed())
	assert.True(t, (&Record{Status: status(StatusStopped)}).IsClosed())
	assert.True(t, (&Record{Status: status(StatusArchived)}).IsClosed())
	assert.False(t, (&Record{Status: status(StatusError)}).IsClosed())
}
