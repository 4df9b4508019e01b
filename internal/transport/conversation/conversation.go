package conversation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/agent-status/internal/domain/agentstate"
	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	domainloading "github.com/alanyang/agent-status/internal/domain/loading"
	convsvc "github.com/alanyang/agent-status/internal/service/conversation"
	loadingsvc "github.com/alanyang/agent-status/internal/service/loading"
)

// Register mounts the per-conversation routes. rg must carry an :id parameter.
func Register(rg *gin.RouterGroup, loading *loadingsvc.Service, conversations *convsvc.Service) {
	rg.GET("", getConversation(conversations))
	rg.PUT("", upsertConversation(conversations))

	rg.PUT("/agent-state", reportAgentState(loading))
	rg.PUT("/websocket", reportWebSocket(loading))
	rg.PUT("/task", reportTask(loading))
	rg.PUT("/sub-conversation", reportSubConversation(loading))
	rg.PUT("/pausing", setPausing(loading))
	rg.PUT("/status-message", setStatusMessage(loading))
	rg.GET("/status-message", getStatusMessage(loading))
	rg.GET("/loading", getLoading(loading))
}

type loadingResp struct {
	Computed bool               `json:"computed"`
	Display  bool               `json:"display"`
	View     domainloading.View `json:"view"`
}

func respond(c *gin.Context, svc *loadingsvc.Service, d domainloading.Decision) {
	disabled, _ := strconv.ParseBool(c.Query("disabled"))
	c.JSON(http.StatusOK, loadingResp{
		Computed: d.Computed,
		Display:  d.Display,
		View:     svc.View(c.Request.Context(), c.Param("id"), disabled),
	})
}

// ── Conversation record ───────────────────────────────────────────────────────

type upsertReq struct {
	Status        *string `json:"status"`
	RuntimeStatus *string `json:"runtime_status"`
}

func upsertConversation(svc *convsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req upsertReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var status *domainconv.Status
		if req.Status != nil {
			s, err := domainconv.ParseStatus(*req.Status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status = &s
		}
		var runtime *domainconv.RuntimeStatus
		if req.RuntimeStatus != nil {
			rs := domainconv.RuntimeStatus(*req.RuntimeStatus)
			runtime = &rs
		}

		rec, err := svc.Upsert(c.Request.Context(), domainconv.New(c.Param("id"), status, runtime))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func getConversation(svc *convsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domainconv.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// ── Signals ───────────────────────────────────────────────────────────────────

type agentStateReq struct {
	State string `json:"state" binding:"required"`
}

func reportAgentState(svc *loadingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req agentStateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		state, err := agentstate.Parse(req.State)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, svc, svc.ReportAgentState(c.Request.Context(), c.Param("id"), state))
	}
}

type webSocketReq struct {
	Status string `json:"status" binding:"required"`
}

func reportWebSocket(svc *loadingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req webSocketReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := domainconv.ParseConnectionStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, svc, svc.ReportWebSocketStatus(c.Request.Context(), c.Param("id"), status))
	}
}

type taskReq struct {
	Status *string `json:"status"`
}

func reportTask(svc *loadingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req taskReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := parseTask(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, svc, svc.ReportTaskStatus(c.Request.Context(), c.Param("id"), status))
	}
}

type subConversationReq struct {
	TaskID *string `json:"task_id"`
	Status *string `json:"status"`
}

func reportSubConversation(svc *loadingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subConversationReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := parseTask(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.TaskID != nil && *req.TaskID == "" {
			req.TaskID = nil
		}
		respond(c, svc, svc.ReportSubConversationTask(c.Request.Context(), c.Param("id"), req.TaskID, status))
	}
}

func parseTask(raw *string) (*domainconv.TaskStatus, error) {
	if raw == nil {
		return nil, nil
	}
	s, err := domainconv.ParseTaskStatus(*raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ── Local presentation ────────────────────────────────────────────────────────

type pausingReq struct {
	Pausing *bool `json:"pausing" binding:"required"`
}

func setPausing(svc *loadingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pausingReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, svc, svc.SetPausing(c.Request.Context(), c.Param("id"), *req.Pausing))
	}
}

type statusMessageReq struct {
	Message *string `json:"message"`
}

func setStatusMessage(svc *loadingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusMessageReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		svc.SetStatusMessage(c.Request.Context(), c.Param("id"), req.Message)
		c.Status(http.StatusNoContent)
	}
}

func getStatusMessage(svc *loadingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": svc.StatusMessage(c.Param("id"))})
	}
}

func getLoading(svc *loadingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, svc, svc.Decision(c.Request.Context(), c.Param("id")))
	}
}
