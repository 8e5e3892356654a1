package httpbridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npash/officemgr/pkg/agent"
	"github.com/npash/officemgr/pkg/config"
	"github.com/npash/officemgr/pkg/directory"
)

type memDirectory struct {
	employees []directory.Employee
}

func (m *memDirectory) FindByName(ctx context.Context, name string) (*directory.Employee, error) {
	for i := range m.employees {
		if m.employees[i].Name == name {
			e := m.employees[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memDirectory) Departments(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, e := range m.employees {
		if !seen[e.Department] {
			seen[e.Department] = true
			out = append(out, e.Department)
		}
	}
	return out, nil
}

func (m *memDirectory) NamesInDepartment(ctx context.Context, department string) ([]string, error) {
	var out []string
	for _, e := range m.employees {
		if e.Department == department {
			out = append(out, e.Name)
		}
	}
	return out, nil
}

// echoBackend replies with a canned completion that references the last
// user message, so session plumbing is observable.
type echoBackend struct {
	history [][]agent.Message
}

func (b *echoBackend) Chat(ctx context.Context, messages []agent.Message, defs []agent.ToolDefinition) (*agent.ChatResponse, error) {
	snapshot := make([]agent.Message, len(messages))
	copy(snapshot, messages)
	b.history = append(b.history, snapshot)

	last := messages[len(messages)-1]
	return &agent.ChatResponse{
		Message: agent.Message{Role: "assistant", Content: "echo: " + last.Content},
	}, nil
}

func newTestServer(t *testing.T) (*Server, *echoBackend) {
	t.Helper()
	backend := &echoBackend{}
	store := &memDirectory{employees: []directory.Employee{
		{Name: "Alice", Email: "alice@example.com", Position: 3, Department: "AI", CalUsername: "alice", CalAPIKey: "secret-key"},
		{Name: "Bob", Email: "bob@example.com", Position: 2, Department: "Sales", CalUsername: "bob", CalAPIKey: "secret-key-2"},
	}}

	app := &AppContext{
		Config:    &config.Config{},
		Directory: store,
		Agent:     agent.New(backend, nil),
		Sessions:  agent.NewSessions(),
	}
	return NewServer(app), backend
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDepartmentsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/departments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"AI", "Sales"}, body["departments"])
}

func TestDepartmentEmployeesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/departments/AI/employees", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Department string   `json:"department"`
		Employees  []string `json:"employees"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AI", body.Department)
	assert.Equal(t, []string{"Alice"}, body.Employees)
}

func TestEmployeeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/employees/Alice", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "alice", body["cal_com_username"])

	// The booking credential never leaves the server
	assert.NotContains(t, rec.Body.String(), "secret-key")
}

func TestEmployeeEndpointNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/employees/Nobody", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatEndpointKeepsSessionHistory(t *testing.T) {
	srv, backend := newTestServer(t)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(body))
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"session_id":"u1","message":"first"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var reply map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "echo: first", reply["reply"])

	rec = post(`{"session_id":"u1","message":"second"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Second turn must carry the first exchange in its history:
	// system, user(first), assistant, user(second)
	require.Len(t, backend.history, 2)
	second := backend.history[1]
	require.Len(t, second, 4)
	assert.Equal(t, "first", second[1].Content)
	assert.Equal(t, "echo: first", second[2].Content)
	assert.Equal(t, "second", second[3].Content)
}

func TestChatEndpointRejectsEmptyFields(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"session_id":"","message":"hi"}`))
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatSocket(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(wsMessage{Type: "message", SessionID: "u1", Text: "hello"}))

	var reply wsMessage
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "reply", reply.Type)
	assert.Equal(t, "echo: hello", reply.Text)

	// Reset discards the session
	require.NoError(t, conn.WriteJSON(wsMessage{Type: "reset", SessionID: "u1"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "reset_ok", reply.Type)

	require.NoError(t, conn.WriteJSON(wsMessage{Type: "bogus"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
}
