package loading

import "github.com/alanyang/agent-status/internal/domain/agentstate"

// SpinnerTestID is the anchor clients use to discover the loading indicator.
const SpinnerTestID = "agent-loading-spinner"

type Control string

const (
	ControlStop   Control = "stop"
	ControlResume Control = "resume"
)

// View is what a client renders for the agent status area.
type View struct {
	Loading  bool      `json:"loading"`
	TestID   string    `json:"test_id,omitempty"`
	Controls []Control `json:"controls"`
	Disabled bool      `json:"disabled"`
}

// Render applies the presentation gate. While Display is set the controls are
// suppressed entirely; otherwise stop is offered to a running agent and resume
// to a paused one.
func Render(d Decision, state agentstate.State, disabled bool) View {
	if d.Display {
		return View{Loading: true, TestID: SpinnerTestID, Controls: []Control{}}
	}

	controls := []Control{}
	switch state {
	case agentstate.Running:
		controls = append(controls, ControlStop)
	case agentstate.Paused:
		controls = append(controls, ControlResume)
	}
	return View{Controls: controls, Disabled: disabled}
}

// Update is the payload pushed to observers when a conversation's decision changes.
type Update struct {
	ConversationID string   `json:"conversation_id"`
	Decision       Decision `json:"decision"`
	View           View     `json:"view"`
}
