package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	tele "gopkg.in/telebot.v3"
)

// TelegramStub is a fake Bot API that accepts every sendMessage call
type TelegramStub struct {
	server *httptest.Server

	mu     sync.Mutex
	nextID int
	chats  []int64
}

// NewTelegramStub starts a fake Bot API closed with the test
func NewTelegramStub(t testing.TB) *TelegramStub {
	t.Helper()
	s := &TelegramStub{}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)
	return s
}

// Bot returns an offline bot talking to the stub
func (s *TelegramStub) Bot(t testing.TB) *tele.Bot {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{
		URL:     s.server.URL,
		Token:   "test-token",
		Offline: true,
	})
	if err != nil {
		t.Fatalf("create bot: %v", err)
	}
	return bot
}

// Chats returns the chat of every sendMessage received, in order
func (s *TelegramStub) Chats() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.chats))
	copy(out, s.chats)
	return out
}

func (s *TelegramStub) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
		fmt.Fprint(w, `{"ok":true,"result":true}`)
		return
	}

	var params map[string]string
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: invalid payload"}`)
		return
	}
	chatID, err := strconv.ParseInt(params["chat_id"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
		return
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.chats = append(s.chats, chatID)
	s.mu.Unlock()

	fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%d,"type":"private"}}}`, id, chatID)
}
