package cli

import (
	"github.com/spf13/cobra"
)

// GlobalOptions holds flags shared by every subcommand.
type GlobalOptions struct {
	ConfigFile string // Override for agentstatus.yml lookup
	Server     string // host:port of a running agent-status server
}

// GlobalOpts holds the parsed global flags (exported for testing)
var GlobalOpts GlobalOptions

var rootCmd = &cobra.Command{
	Use:           "agentstatus",
	Short:         "Track whether a conversation's agent is busy",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `agentstatus reconciles the signals reported for an agent conversation
(agent state, websocket link, task polls, conversation record) into one
"agent is busy" decision and shows it as a loading indicator.

Commands:
- Run the server: agentstatus serve
- Follow one conversation live: agentstatus watch <conversation-id>
- Print the current decision once: agentstatus status <conversation-id>`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ServeCommand returns a standalone serve command, for binaries that only run the server.
func ServeCommand(use string) *cobra.Command {
	cmd := newServeCmd(use)
	cmd.Flags().StringVar(&GlobalOpts.ConfigFile, "config", "", "path to agentstatus.yml")
	return cmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&GlobalOpts.ConfigFile, "config", "", "path to agentstatus.yml (default: ./agentstatus.yml or ~/.agentstatus/agentstatus.yml)")
	rootCmd.PersistentFlags().StringVar(&GlobalOpts.Server, "server", "localhost:8080", "address of the agent-status server")
}
