package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/huddlebot/huddlebot/internal/agent"
	"github.com/huddlebot/huddlebot/internal/schema"
)

type stubChat struct {
	reply      *agent.Reply
	err        error
	tools      []string
	lastUser   string
	lastMsg    string
	resetUsers []string
	history    []schema.Message
}

func (s *stubChat) HandleTurn(_ context.Context, userID, message string, onProgress func(string)) (*agent.Reply, error) {
	s.lastUser = userID
	s.lastMsg = message
	if onProgress != nil {
		for _, t := range s.tools {
			onProgress(t)
		}
	}
	return s.reply, s.err
}

func (s *stubChat) Reset(userID string) error {
	s.resetUsers = append(s.resetUsers, userID)
	return nil
}

func (s *stubChat) History(string) ([]schema.Message, error) {
	return s.history, nil
}

func newTestServer(chat ChatService) *Server {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServer("127.0.0.1", 0, chat, "testdata", true, logger)
}

func TestChatReturnsReply(t *testing.T) {
	chat := &stubChat{reply: &agent.Reply{Text: "Chiefs by 3.", Truncated: false}}
	srv := httptest.NewServer(newTestServer(chat).Handler())
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"user_id": "web:alice", "message": "who wins tonight?"})
	resp, err := http.Post(srv.URL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || out.Response != "Chiefs by 3." {
		t.Fatalf("unexpected response: %+v", out)
	}
	if chat.lastUser != "web:alice" || chat.lastMsg != "who wins tonight?" {
		t.Fatalf("turn saw user=%q msg=%q", chat.lastUser, chat.lastMsg)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a request ID header")
	}
}

func TestChatModelFailureIsBadGateway(t *testing.T) {
	chat := &stubChat{err: errors.New("model call failed: rate limit exceeded")}
	srv := httptest.NewServer(newTestServer(chat).Handler())
	defer srv.Close()

	body, _ := json.Marshal(map[string]string{"user_id": "web:alice", "message": "hello"})
	resp, err := http.Post(srv.URL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Success || out.Error == "" {
		t.Fatalf("expected failure payload, got %+v", out)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	srv := httptest.NewServer(newTestServer(&stubChat{}).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(`{"user_id":"web:alice"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResetClearsUser(t *testing.T) {
	chat := &stubChat{}
	srv := httptest.NewServer(newTestServer(chat).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/reset", "application/json", strings.NewReader(`{"user_id":"web:alice"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(chat.resetUsers) != 1 || chat.resetUsers[0] != "web:alice" {
		t.Fatalf("reset saw %v", chat.resetUsers)
	}
}

func TestHealthReportsKeyStatus(t *testing.T) {
	srv := httptest.NewServer(newTestServer(&stubChat{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["status"] != "healthy" {
		t.Fatalf("status = %v", out["status"])
	}
	if out["api_key_configured"] != true {
		t.Fatalf("api_key_configured = %v", out["api_key_configured"])
	}
}

func TestHistoryReturnsMessages(t *testing.T) {
	chat := &stubChat{history: []schema.Message{schema.UserText("hi"), schema.AssistantText("hello!")}}
	srv := httptest.NewServer(newTestServer(chat).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/history?user_id=web:alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Success bool             `json:"success"`
		History []schema.Message `json:"history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success || len(out.History) != 2 {
		t.Fatalf("unexpected history payload: %+v", out)
	}
}

func TestWebSocketStreamsStatusThenReply(t *testing.T) {
	chat := &stubChat{
		reply: &agent.Reply{Text: "27-20 Chiefs."},
		tools: []string{"get_live_scores"},
	}
	srv := httptest.NewServer(newTestServer(chat).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"user_id": "web:alice", "message": "score?"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var status wsOutbound
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatalf("read status: %v", err)
	}
	if status.Type != "status" || status.Tool != "get_live_scores" {
		t.Fatalf("unexpected first frame: %+v", status)
	}

	var reply wsOutbound
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Type != "reply" || reply.Text != "27-20 Chiefs." {
		t.Fatalf("unexpected reply frame: %+v", reply)
	}
}
