package agentstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/agent-status/internal/domain/agentstate"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		want    agentstate.State
		wantErr bool
	}{
		{raw: "init", want: agentstate.Init},
		{raw: "awaiting_user_input", want: agentstate.AwaitingUserInput},
		{raw: "user_rejected", want: agentstate.UserRejected},
		{raw: "INIT", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := agentstate.Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsWorking(t *testing.T) {
	assert.True(t, agentstate.Loading.IsWorking())
	// Init is busy by policy, not because it is a working phase.
	assert.False(t, agentstate.Init.IsWorking())
	assert.False(t, agentstate.Running.IsWorking())
	assert.False(t, agentstate.AwaitingUserInput.IsWorking())
}
