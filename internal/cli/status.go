package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alanyang/agent-status/internal/domain/loading"
)

var (
	busyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	idleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status <conversation-id>",
	Short: "Print a conversation's current loading decision",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

type loadingResp struct {
	Computed bool         `json:"computed"`
	Display  bool         `json:"display"`
	View     loading.View `json:"view"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	resp, err := fetchLoading(&http.Client{Timeout: 10 * time.Second}, GlobalOpts.Server, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statusJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprintln(out, renderStatus(args[0], resp))
	return nil
}

func fetchLoading(client *http.Client, server, conversationID string) (loadingResp, error) {
	target := fmt.Sprintf("http://%s/api/conversations/%s/loading", server, url.PathEscape(conversationID))
	res, err := client.Get(target)
	if err != nil {
		return loadingResp{}, fmt.Errorf("get %s: %w", target, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return loadingResp{}, fmt.Errorf("get %s: unexpected status %s", target, res.Status)
	}
	var out loadingResp
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return loadingResp{}, fmt.Errorf("decode loading response: %w", err)
	}
	return out, nil
}

func renderStatus(conversationID string, r loadingResp) string {
	state := idleStyle.Render("idle")
	if r.Display {
		state = busyStyle.Render("busy")
	}
	detail := fmt.Sprintf("computed=%t display=%t", r.Computed, r.Display)
	if len(r.View.Controls) > 0 {
		detail += fmt.Sprintf(" controls=%v", r.View.Controls)
	}
	return fmt.Sprintf("%s %s %s", conversationID, state, dimStyle.Render(detail))
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the raw response")
	rootCmd.AddCommand(statusCmd)
}
