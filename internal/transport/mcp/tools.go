package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alanyang/agent-status/internal/domain/agentstate"
	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	domainloading "github.com/alanyang/agent-status/internal/domain/loading"
	loadingsvc "github.com/alanyang/agent-status/internal/service/loading"
)

// RegisterTools registers all MCP tools on the server.
// [OCP] Add a new tool by adding a new AddTool call; server.go never changes.
func RegisterTools(s *mcpserver.MCPServer, reg *SessionRegistry, loading *loadingsvc.Service) {
	s.AddTool(mcpmcp.NewTool("report_agent_state",
		mcpmcp.WithDescription("Report the agent's current execution phase for a conversation. Returns the recomputed loading decision."),
		mcpmcp.WithString("conversation_id", mcpmcp.Required(), mcpmcp.Description("Conversation id")),
		mcpmcp.WithString("state", mcpmcp.Required(), mcpmcp.Description("One of: loading, init, running, awaiting_user_input, paused, stopped, finished, rejected, error, rate_limited, awaiting_user_confirmation, user_confirmed, user_rejected")),
	), reportAgentStateHandler(loading))

	s.AddTool(mcpmcp.NewTool("report_task_status",
		mcpmcp.WithDescription("Report the latest polled start-task status. Pass sub_conversation_task_id to report a sub-conversation task instead. Omit status when no task is known."),
		mcpmcp.WithString("conversation_id", mcpmcp.Required(), mcpmcp.Description("Conversation id")),
		mcpmcp.WithString("status", mcpmcp.Description("Task status, e.g. WORKING, READY, ERROR")),
		mcpmcp.WithString("sub_conversation_task_id", mcpmcp.Description("Sub-conversation task id")),
	), reportTaskStatusHandler(loading))

	s.AddTool(mcpmcp.NewTool("report_websocket_status",
		mcpmcp.WithDescription("Report the health of the runtime websocket link for a conversation."),
		mcpmcp.WithString("conversation_id", mcpmcp.Required(), mcpmcp.Description("Conversation id")),
		mcpmcp.WithString("status", mcpmcp.Required(), mcpmcp.Description("One of: CONNECTED, CONNECTING, DISCONNECTED")),
	), reportWebSocketStatusHandler(loading))

	s.AddTool(mcpmcp.NewTool("get_loading_status",
		mcpmcp.WithDescription("Return whether the agent-busy indicator is shown for a conversation, with the rendered controls. Set watch to receive notifications when it changes."),
		mcpmcp.WithString("conversation_id", mcpmcp.Required(), mcpmcp.Description("Conversation id")),
		mcpmcp.WithBoolean("disabled", mcpmcp.Description("Render the controls disabled")),
		mcpmcp.WithBoolean("watch", mcpmcp.Description("Subscribe this session to loading updates")),
	), getLoadingStatusHandler(reg, loading))
}

// ── Tool handlers ─────────────────────────────────────────────────────────

type loadingResult struct {
	Computed bool               `json:"computed"`
	Display  bool               `json:"display"`
	View     domainloading.View `json:"view"`
}

func result(ctx context.Context, loading *loadingsvc.Service, id string, d domainloading.Decision, disabled bool) *mcpmcp.CallToolResult {
	data, _ := json.Marshal(loadingResult{
		Computed: d.Computed,
		Display:  d.Display,
		View:     loading.View(ctx, id, disabled),
	})
	return mcpmcp.NewToolResultText(string(data))
}

func reportAgentStateHandler(loading *loadingsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := mcpmcp.ParseString(req, "conversation_id", "")
		if id == "" {
			return mcpmcp.NewToolResultText("error: conversation_id required"), nil
		}
		state, err := agentstate.Parse(mcpmcp.ParseString(req, "state", ""))
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return result(ctx, loading, id, loading.ReportAgentState(ctx, id, state), false), nil
	}
}

func reportTaskStatusHandler(loading *loadingsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := mcpmcp.ParseString(req, "conversation_id", "")
		if id == "" {
			return mcpmcp.NewToolResultText("error: conversation_id required"), nil
		}

		var status *domainconv.TaskStatus
		if raw := mcpmcp.ParseString(req, "status", ""); raw != "" {
			s, err := domainconv.ParseTaskStatus(raw)
			if err != nil {
				return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
			}
			status = &s
		}

		if subID := mcpmcp.ParseString(req, "sub_conversation_task_id", ""); subID != "" {
			return result(ctx, loading, id, loading.ReportSubConversationTask(ctx, id, &subID, status), false), nil
		}
		return result(ctx, loading, id, loading.ReportTaskStatus(ctx, id, status), false), nil
	}
}

func reportWebSocketStatusHandler(loading *loadingsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := mcpmcp.ParseString(req, "conversation_id", "")
		if id == "" {
			return mcpmcp.NewToolResultText("error: conversation_id required"), nil
		}
		status, err := domainconv.ParseConnectionStatus(mcpmcp.ParseString(req, "status", ""))
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return result(ctx, loading, id, loading.ReportWebSocketStatus(ctx, id, status), false), nil
	}
}

func getLoadingStatusHandler(reg *SessionRegistry, loading *loadingsvc.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := mcpmcp.ParseString(req, "conversation_id", "")
		if id == "" {
			return mcpmcp.NewToolResultText("error: conversation_id required"), nil
		}

		if mcpmcp.ParseBoolean(req, "watch", false) {
			session := mcpserver.ClientSessionFromContext(ctx)
			if session == nil {
				return mcpmcp.NewToolResultText("error: watch requires a session"), nil
			}
			reg.Watch(session.SessionID(), id)
		}

		disabled := mcpmcp.ParseBoolean(req, "disabled", false)
		return result(ctx, loading, id, loading.Decision(ctx, id), disabled), nil
	}
}
