package conversation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/agent-status/internal/adapter/memory"
	domainconv "github.com/alanyang/agent-status/internal/domain/conversation"
	domainloading "github.com/alanyang/agent-status/internal/domain/loading"
	"github.com/alanyang/agent-status/internal/mocks"
	portsignal "github.com/alanyang/agent-status/internal/port/signal"
	convsvc "github.com/alanyang/agent-status/internal/service/conversation"
	loadingsvc "github.com/alanyang/agent-status/internal/service/loading"
	"github.com/alanyang/agent-status/internal/testutil"
	transportconv "github.com/alanyang/agent-status/internal/transport/conversation"
)

func init() { gin.SetMode(gin.TestMode) }

type deps struct {
	repo     *mocks.MockRepository
	scope    *memory.ScopeStore
	notifier *testutil.CaptureNotifier
}

func newRouter(t *testing.T) (*gin.Engine, deps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := deps{
		repo:     mocks.NewMockRepository(ctrl),
		scope:    memory.NewScopeStore(),
		notifier: &testutil.CaptureNotifier{},
	}
	bus := memory.NewEventBus()
	signals := memory.NewSignals()
	conversations := convsvc.NewService(d.repo, bus)
	sources := portsignal.Sources{
		AgentState:    signals,
		WebSocket:     signals,
		Tasks:         signals,
		SubTasks:      signals,
		Conversations: conversations,
	}
	loading := loadingsvc.NewService(sources, signals, d.scope, memory.NewStatusStore(), bus, d.notifier)

	r := gin.New()
	transportconv.Register(r.Group("/conversations/:id"), loading, conversations)
	return r, d
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

type loadingResp struct {
	Computed bool               `json:"computed"`
	Display  bool               `json:"display"`
	View     domainloading.View `json:"view"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) loadingResp {
	t.Helper()
	var got loadingResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func notFound(d deps) {
	d.repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).
		Return(domainconv.Record{}, fmt.Errorf("conversation: %w", domainconv.ErrNotFound)).AnyTimes()
}

// ── PUT /agent-state ──────────────────────────────────────────────────────────

func TestReportAgentState(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantCode int
	}{
		{name: "valid state", body: map[string]string{"state": "running"}, wantCode: http.StatusOK},
		{name: "unknown state", body: map[string]string{"state": "dancing"}, wantCode: http.StatusBadRequest},
		{name: "missing state", body: map[string]string{}, wantCode: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, d := newRouter(t)
			notFound(d)

			w := do(r, http.MethodPut, "/conversations/c1/agent-state", tc.body)
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

// ── Scenario walk-through ─────────────────────────────────────────────────────

func TestLoadingLifecycle(t *testing.T) {
	r, d := newRouter(t)
	notFound(d)

	w := do(r, http.MethodGet, "/conversations/c1/loading", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.True(t, got.Computed, "fresh conversation is still initialising")
	assert.Equal(t, domainloading.SpinnerTestID, got.View.TestID)

	do(r, http.MethodPut, "/conversations/c1/websocket", map[string]string{"status": "CONNECTED"})
	w = do(r, http.MethodPut, "/conversations/c1/agent-state", map[string]string{"state": "awaiting_user_input"})
	got = decode(t, w)
	assert.False(t, got.Computed)
	assert.False(t, got.View.Loading)
	assert.False(t, d.scope.ShouldShownAgentLoading("c1"))

	w = do(r, http.MethodPut, "/conversations/c1/pausing?disabled=true", map[string]bool{"pausing": true})
	got = decode(t, w)
	assert.False(t, got.Computed)
	assert.True(t, got.Display)
	assert.True(t, got.View.Loading)
	assert.False(t, d.scope.ShouldShownAgentLoading("c1"), "pausing never reaches the shared flag")

	w = do(r, http.MethodPut, "/conversations/c1/websocket", map[string]string{"status": "DISCONNECTED"})
	got = decode(t, w)
	assert.True(t, got.Computed)
	assert.True(t, d.scope.ShouldShownAgentLoading("c1"))

	last, ok := d.notifier.Last("c1")
	require.True(t, ok)
	assert.True(t, last.Decision.Computed)
}

func TestReportTask(t *testing.T) {
	r, d := newRouter(t)
	notFound(d)
	do(r, http.MethodPut, "/conversations/c1/websocket", map[string]string{"status": "CONNECTED"})
	do(r, http.MethodPut, "/conversations/c1/agent-state", map[string]string{"state": "running"})

	got := decode(t, do(r, http.MethodPut, "/conversations/c1/task", map[string]any{"status": "WORKING"}))
	assert.True(t, got.Computed)

	got = decode(t, do(r, http.MethodPut, "/conversations/c1/task", map[string]any{"status": nil}))
	assert.False(t, got.Computed)
	assert.Equal(t, []domainloading.Control{domainloading.ControlStop}, got.View.Controls)

	w := do(r, http.MethodPut, "/conversations/c1/task", map[string]any{"status": "SOMETIMES"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportSubConversation(t *testing.T) {
	r, d := newRouter(t)
	notFound(d)
	do(r, http.MethodPut, "/conversations/c1/websocket", map[string]string{"status": "CONNECTED"})
	do(r, http.MethodPut, "/conversations/c1/agent-state", map[string]string{"state": "finished"})

	got := decode(t, do(r, http.MethodPut, "/conversations/c1/sub-conversation", map[string]any{"task_id": nil, "status": "WORKING"}))
	assert.False(t, got.Computed, "no sub-conversation id, status ignored")

	got = decode(t, do(r, http.MethodPut, "/conversations/c1/sub-conversation", map[string]any{"task_id": "t-9", "status": "WORKING"}))
	assert.True(t, got.Computed)
	require.NotNil(t, d.scope.SubConversationTaskID("c1"))
}

// ── Conversation record ───────────────────────────────────────────────────────

func TestUpsertConversation(t *testing.T) {
	r, d := newRouter(t)

	starting := domainconv.StatusStarting
	saved := domainconv.New("c1", &starting, nil)
	d.repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(saved, nil)
	d.repo.EXPECT().GetByID(gomock.Any(), "c1").Return(saved, nil).AnyTimes()

	w := do(r, http.MethodPut, "/conversations/c1", map[string]any{"status": "STARTING"})
	require.Equal(t, http.StatusOK, w.Code)

	var rec domainconv.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "c1", rec.ConversationID)

	w = do(r, http.MethodPut, "/conversations/c1", map[string]any{"status": "NAPPING"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpsertConversation_ServiceError(t *testing.T) {
	r, d := newRouter(t)
	d.repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(domainconv.Record{}, errors.New("db error"))

	w := do(r, http.MethodPut, "/conversations/c1", map[string]any{"status": "RUNNING"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetConversation(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		r, d := newRouter(t)
		notFound(d)
		w := do(r, http.MethodGet, "/conversations/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("repo failure", func(t *testing.T) {
		r, d := newRouter(t)
		d.repo.EXPECT().GetByID(gomock.Any(), "c1").Return(domainconv.Record{}, errors.New("timeout"))
		w := do(r, http.MethodGet, "/conversations/c1", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// ── Status message ────────────────────────────────────────────────────────────

func TestStatusMessage(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodPut, "/conversations/c1/status-message", map[string]any{"message": "STATUS$BUILDING_RUNTIME"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/conversations/c1/status-message", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]*string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got["message"])
	assert.Equal(t, "STATUS$BUILDING_RUNTIME", *got["message"])
}

func TestSetPausing_RequiresFlag(t *testing.T) {
	r, _ := newRouter(t)
	w := do(r, http.MethodPut, "/conversations/c1/pausing", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
