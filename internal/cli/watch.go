package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/alanyang/agent-status/internal/transport/ws"
	"github.com/alanyang/agent-status/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <conversation-id>",
	Short: "Follow a conversation's loading indicator live",
	Long: `Attach to the server's websocket and render the agent status area of one
conversation: a spinner while the agent is busy, otherwise the stop or
resume control.

Keys:
  q/Esc      Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	conversationID := args[0]
	target, err := watchURL(GlobalOpts.Server, conversationID)
	if err != nil {
		return err
	}

	conn, err := dial(cmd.Context(), target)
	if err != nil {
		return err
	}
	defer conn.Close()

	p := tea.NewProgram(tui.New(conversationID))
	go forward(conn, p.Send)

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// watchURL builds the websocket address for a single conversation.
func watchURL(server, conversationID string) (string, error) {
	if server == "" {
		return "", fmt.Errorf("server address is required")
	}
	u, err := url.Parse("ws://" + server)
	if err != nil {
		return "", fmt.Errorf("parse server address %q: %w", server, err)
	}
	u.Path = "/api/ws"
	u.RawQuery = url.Values{"conversation_id": {conversationID}}.Encode()
	return u.String(), nil
}

func dial(ctx context.Context, target string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return conn, nil
}

// forward turns websocket envelopes into program messages until the connection
// fails, then reports the failure so the program can exit.
func forward(conn *websocket.Conn, send func(tea.Msg)) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			send(tui.ErrMsg{Err: fmt.Errorf("connection closed: %w", err)})
			return
		}

		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch {
		case msg.Kind == ws.KindLoading && msg.Loading != nil:
			send(tui.UpdateMsg(*msg.Loading))
		case msg.Kind == ws.KindEvent && msg.Event != nil:
			send(tui.EventMsg(*msg.Event))
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
