package conversation

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("conversation not found")

// ConnectionStatus describes the health of the websocket link to the agent runtime.
type ConnectionStatus string

const (
	Connected    ConnectionStatus = "CONNECTED"
	Connecting   ConnectionStatus = "CONNECTING"
	Disconnected ConnectionStatus = "DISCONNECTED"
)

func ParseConnectionStatus(raw string) (ConnectionStatus, error) {
	switch s := ConnectionStatus(raw); s {
	case Connected, Connecting, Disconnected:
		return s, nil
	}
	return "", fmt.Errorf("unknown connection status %q", raw)
}

// TaskStatus is the outcome of a polled conversation start task.
// A nil *TaskStatus means no active or known task.
type TaskStatus string

const (
	TaskWorking              TaskStatus = "WORKING"
	TaskWaitingForSandbox    TaskStatus = "WAITING_FOR_SANDBOX"
	TaskPreparingRepository  TaskStatus = "PREPARING_REPOSITORY"
	TaskRunningSetupScript   TaskStatus = "RUNNING_SETUP_SCRIPT"
	TaskSettingUpGitHooks    TaskStatus = "SETTING_UP_GIT_HOOKS"
	TaskSettingUpSkills      TaskStatus = "SETTING_UP_SKILLS"
	TaskStartingConversation TaskStatus = "STARTING_CONVERSATION"
	TaskReady                TaskStatus = "READY"
	TaskError                TaskStatus = "ERROR"
)

var taskStatuses = map[TaskStatus]bool{
	TaskWorking:              true,
	TaskWaitingForSandbox:    true,
	TaskPreparingRepository:  true,
	TaskRunningSetupScript:   true,
	TaskSettingUpGitHooks:    true,
	TaskSettingUpSkills:      true,
	TaskStartingConversation: true,
	TaskReady:                true,
	TaskError:                true,
}

func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !taskStatuses[s] {
		return "", fmt.Errorf("unknown task status %q", raw)
	}
	return s, nil
}

// IsTerminal reports whether the task has finished, successfully or not.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskReady || s == TaskError
}

// TaskInProgress is true for a known, non-terminal task.
func TaskInProgress(s *TaskStatus) bool {
	return s != nil && !s.IsTerminal()
}

// Status is the persisted lifecycle status of a conversation.
type Status string

const (
	StatusStarting Status = "STARTING"
	StatusRunning  Status = "RUNNING"
	StatusStopped  Status = "STOPPED"
	StatusArchived Status = "ARCHIVED"
	StatusError    Status = "ERROR"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusStarting, StatusRunning, StatusStopped, StatusArchived, StatusError:
		return s, nil
	}
	return "", fmt.Errorf("unknown conversation status %q", raw)
}

// IsClosed reports whether the conversation will not produce further activity.
func (s Status) IsClosed() bool {
	return s == StatusStopped || s == StatusArchived
}

// RuntimeStatus is the free-form runtime phase key reported alongside a conversation.
type RuntimeStatus string

const (
	RuntimeStarting           RuntimeStatus = "STATUS$STARTING_RUNTIME"
	RuntimeBuilding           RuntimeStatus = "STATUS$BUILDING_RUNTIME"
	RuntimeStarted            RuntimeStatus = "STATUS$RUNTIME_STARTED"
	RuntimeSettingUpWorkspace RuntimeStatus = "STATUS$SETTING_UP_WORKSPACE"
	RuntimeSettingUpGitHooks  RuntimeStatus = "STATUS$SETTING_UP_GIT_HOOKS"
	RuntimeSettingUpSkills    RuntimeStatus = "STATUS$SETTING_UP_SKILLS"
	RuntimeReady              RuntimeStatus = "STATUS$READY"
	RuntimeStopped            RuntimeStatus = "STATUS$STOPPED"
	RuntimeError              RuntimeStatus = "STATUS$ERROR"
)

var runtimeStartup = map[RuntimeStatus]bool{
	RuntimeStarting:           true,
	RuntimeBuilding:           true,
	RuntimeStarted:            true,
	RuntimeSettingUpWorkspace: true,
	RuntimeSettingUpGitHooks:  true,
	RuntimeSettingUpSkills:    true,
}

// IsStartingUp is true only for the known start-up phases; anything else,
// including unrecognised keys, is not evidence of activity.
func (s RuntimeStatus) IsStartingUp() bool {
	return runtimeStartup[s]
}

// Record is the persisted view of a conversation.
type Record struct {
	ConversationID string         `json:"conversation_id"`
	Status         *Status        `json:"status"`
	RuntimeStatus  *RuntimeStatus `json:"runtime_status"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func New(id string, status *Status, runtimeStatus *RuntimeStatus) Record {
	return Record{
		ConversationID: id,
		Status:         status,
		RuntimeStatus:  runtimeStatus,
		UpdatedAt:      time.Now().UTC(),
	}
}

// IsStarting reports whether the record shows a conversation still coming up.
func (r *Record) IsStarting() bool {
	if r == nil {
		return false
	}
	if r.Status != nil && *r.Status == StatusStarting {
		return true
	}
	return r.RuntimeStatus != nil && r.RuntimeStatus.IsStartingUp()
}

// IsClosed is false for a nil record or one without a status.
func (r *Record) IsClosed() bool {
	return r != nil && r.Status != nil && r.Status.IsClosed()
}
