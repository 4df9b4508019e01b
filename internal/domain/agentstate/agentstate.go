package agentstate

import "fmt"

// State is the agent's own execution phase as reported by the agent runtime.
type State string

const (
	Loading                  State = "loading"
	Init                     State = "init"
	Running                  State = "running"
	AwaitingUserInput        State = "awaiting_user_input"
	Paused                   State = "paused"
	Stopped                  State = "stopped"
	Finished                 State = "finished"
	Rejected                 State = "rejected"
	Error                    State = "error"
	RateLimited              State = "rate_limited"
	AwaitingUserConfirmation State = "awaiting_user_confirmation"
	UserConfirmed            State = "user_confirmed"
	UserRejected             State = "user_rejected"
)

var known = map[State]bool{
	Loading:                  true,
	Init:                     true,
	Running:                  true,
	AwaitingUserInput:        true,
	Paused:                   true,
	Stopped:                  true,
	Finished:                 true,
	Rejected:                 true,
	Error:                    true,
	RateLimited:              true,
	AwaitingUserConfirmation: true,
	UserConfirmed:            true,
	UserRejected:             true,
}

// Parse validates a raw state string.
func Parse(raw string) (State, error) {
	s := State(raw)
	if !known[s] {
		return "", fmt.Errorf("unknown agent state %q", raw)
	}
	return s, nil
}

// IsWorking reports whether the agent is in a phase the UI treats as busy
// without further evidence. Init is handled separately by the loading policy.
func (s State) IsWorking() bool {
	return s == Loading
}
