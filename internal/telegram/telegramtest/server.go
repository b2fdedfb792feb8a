// Package telegramtest provides a fake Telegram Bot API server for tests.
package telegramtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
)

// Request is one Bot API call received by the server.
type Request struct {
	Method string
	Fields map[string]string
}

// Server records Bot API calls and answers them successfully, except for
// sends to chats marked as failing.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	requests []Request
	failing  map[string]bool
}

// NewServer starts a fake API server that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{failing: make(map[string]bool)}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

// NewBot returns a bot client pointed at the fake server. Handlers run
// synchronously so ProcessUpdate returns only after they finish.
func (s *Server) NewBot(t *testing.T, opts ...bot.Option) *bot.Bot {
	t.Helper()
	opts = append([]bot.Option{
		bot.WithServerURL(s.srv.URL),
		bot.WithSkipGetMe(),
		bot.WithNotAsyncHandlers(),
	}, opts...)
	b, err := bot.New("123456:test-token", opts...)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

// FailChat makes every call addressed to chatID fail with 403 Forbidden.
func (s *Server) FailChat(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[strconv.FormatInt(chatID, 10)] = true
}

// Requests returns the recorded calls, optionally filtered by method.
func (s *Server) Requests(method string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if method == "" || r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// Sent returns the texts of sendMessage calls to chatID, in order.
func (s *Server) Sent(chatID int64) []string {
	id := strconv.FormatInt(chatID, 10)
	var texts []string
	for _, r := range s.Requests("sendMessage") {
		if r.Fields["chat_id"] == id {
			texts = append(texts, r.Fields["text"])
		}
	}
	return texts
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	method := path.Base(r.URL.Path)

	fields := make(map[string]string)
	if err := r.ParseMultipartForm(1 << 20); err == nil {
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	}

	s.mu.Lock()
	// getUpdates is polled in a tight loop and is not worth keeping.
	if method != "getUpdates" {
		s.requests = append(s.requests, Request{Method: method, Fields: fields})
	}
	failing := s.failing[fields["chat_id"]]
	messageID := len(s.requests)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if failing {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":          false,
			"error_code":  http.StatusForbidden,
			"description": "Forbidden: bot was blocked by the user",
		})
		return
	}

	var result any
	switch method {
	case "getUpdates":
		result = []any{}
	case "setMyCommands", "deleteWebhook":
		result = true
	case "getMe":
		result = map[string]any{"id": 123456, "is_bot": true, "first_name": "Test", "username": "test_bot"}
	default:
		chatID, _ := strconv.ParseInt(fields["chat_id"], 10, 64)
		result = map[string]any{
			"message_id": messageID,
			"date":       0,
			"chat":       map[string]any{"id": chatID, "type": "private"},
		}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}
