package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type staticRoster map[domain.SessionID][]domain.Participant

func (r staticRoster) List(sid domain.SessionID) []domain.Participant { return r[sid] }

func setup(t *testing.T, roster staticRoster) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewMeetingHandler(store.NewMemoryStore(), roster).Register(r.Group("/api/meetings"))
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestMeetingLifecycle(t *testing.T) {
	req := require.New(t)
	r := setup(t, nil)

	// Given a created meeting
	w, m := do(t, r, http.MethodPost, "/api/meetings/create", gin.H{"username": "alice"})
	req.Equal(http.StatusOK, w.Code)
	id, _ := m["meetingId"].(string)
	req.Len(id, 8)
	req.Equal("alice", m["createdBy"])

	// When bob joins twice
	do(t, r, http.MethodPost, "/api/meetings/join", gin.H{"meetingId": id, "username": "bob"})
	w, m = do(t, r, http.MethodPost, "/api/meetings/join", gin.H{"meetingId": id, "username": "bob"})

	// Then he is recorded once
	req.Equal(http.StatusOK, w.Code)
	req.Equal([]any{"alice", "bob"}, m["participants"])

	w, m = do(t, r, http.MethodPost, "/api/meetings/leave", gin.H{"meetingId": id, "username": "alice"})
	req.Equal(http.StatusOK, w.Code)
	req.Equal([]any{"bob"}, m["participants"])

	w, m = do(t, r, http.MethodGet, "/api/meetings/"+id, nil)
	req.Equal(http.StatusOK, w.Code)
	req.Equal(id, m["meetingId"])
}

func TestMeetingNotFound(t *testing.T) {
	req := require.New(t)
	r := setup(t, nil)

	w, m := do(t, r, http.MethodPost, "/api/meetings/join", gin.H{"meetingId": "missing0", "username": "bob"})
	req.Equal(http.StatusNotFound, w.Code)
	req.Equal("Meeting not found", m["message"])

	w, _ = do(t, r, http.MethodPost, "/api/meetings/leave", gin.H{"meetingId": "missing0", "username": "bob"})
	req.Equal(http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/meetings/missing0", nil)
	req.Equal(http.StatusNotFound, w.Code)
}

func TestMeetingBadRequest(t *testing.T) {
	req := require.New(t)
	r := setup(t, nil)

	w, _ := do(t, r, http.MethodPost, "/api/meetings/create", gin.H{})
	req.Equal(http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/meetings/join", gin.H{"username": "bob"})
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestRoster(t *testing.T) {
	req := require.New(t)
	r := setup(t, staticRoster{
		"abcd1234": {{ConnID: "c1", DisplayName: "alice"}},
	})

	w, m := do(t, r, http.MethodGet, "/api/meetings/abcd1234/roster", nil)
	req.Equal(http.StatusOK, w.Code)
	req.EqualValues(1, m["count"])
	req.Len(m["participants"], 1)

	w, m = do(t, r, http.MethodGet, "/api/meetings/zzzz0000/roster", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Equal([]any{}, m["participants"])
}
