package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielos/arthur/server"
)

type stubAgent struct {
	response string
	err      error
	messages []string
}

func (a *stubAgent) Think(ctx context.Context, userMessage string) (string, error) {
	a.messages = append(a.messages, userMessage)
	if a.err != nil {
		return "", a.err
	}
	return a.response, nil
}

func postChat(t *testing.T, srv *server.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/arthur", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestChat_OK(t *testing.T) {
	agent := &stubAgent{response: "Hello, Daniel."}
	srv := server.New(server.Config{Agent: agent})

	rec := postChat(t, srv, `{"message": "hello"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var reply struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "Hello, Daniel.", reply.Response)
	assert.Equal(t, []string{"hello"}, agent.messages)
}

func TestChat_EmptyMessageRejected(t *testing.T) {
	agent := &stubAgent{}
	srv := server.New(server.Config{Agent: agent})

	for _, body := range []string{`{"message": ""}`, `{"message": "   "}`, `{}`} {
		rec := postChat(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	assert.Empty(t, agent.messages)
}

func TestChat_InvalidJSONRejected(t *testing.T) {
	srv := server.New(server.Config{Agent: &stubAgent{}})

	rec := postChat(t, srv, "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_MethodNotAllowed(t *testing.T) {
	srv := server.New(server.Config{Agent: &stubAgent{}})

	req := httptest.NewRequest(http.MethodGet, "/api/arthur", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChat_TurnFailure(t *testing.T) {
	agent := &stubAgent{err: errors.New("generation failed")}
	srv := server.New(server.Config{Agent: agent})

	rec := postChat(t, srv, `{"message": "hello"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var reply struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.NotEmpty(t, reply.Error)
	// Internal error details never leak to clients.
	assert.NotContains(t, reply.Error, "generation failed")
}

func TestHealth(t *testing.T) {
	srv := server.New(server.Config{Agent: &stubAgent{}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWS_TurnPerFrame(t *testing.T) {
	agent := &stubAgent{response: "reply text"}
	srv := server.New(server.Config{Agent: agent})

	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("first message")))

	var reply struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "reply text", reply.Response)
	assert.Empty(t, reply.Error)

	// The session survives a turn failure.
	agent.err = errors.New("boom")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("second message")))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.NotEmpty(t, reply.Error)

	agent.err = nil
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("third message")))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "reply text", reply.Response)

	assert.Equal(t, []string{"first message", "second message", "third message"}, agent.messages)
}
