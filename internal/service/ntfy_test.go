package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"

	"go.uber.org/zap"
)

func TestNewNtfyService_EmptyTopicDisablesNotification(t *testing.T) {
	if svc := NewNtfyService("", zap.NewNop()); svc != nil {
		t.Errorf("NewNtfyService(\"\") = %v, want nil", svc)
	}

	svc, ok := NewNtfyService("habomailang-alerts", zap.NewNop()).(*ntfyServiceImpl)
	if !ok {
		t.Fatal("NewNtfyService() should return *ntfyServiceImpl")
	}
	if svc.topicURL != "https://ntfy.sh/habomailang-alerts" {
		t.Errorf("topicURL: got %q", svc.topicURL)
	}
}

// receivedNotification はテストサーバーが受け取った通知です
type receivedNotification struct {
	method   string
	title    string
	priority string
	tags     string
	body     string
}

// newNtfyTestServer は受信した通知をチャネルに送るテストサーバーを起動します
func newNtfyTestServer(t *testing.T, status int) (*ntfyServiceImpl, <-chan receivedNotification) {
	t.Helper()
	received := make(chan receivedNotification, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- receivedNotification{
			method:   r.Method,
			title:    r.Header.Get("Title"),
			priority: r.Header.Get("Priority"),
			tags:     r.Header.Get("Tags"),
			body:     string(body),
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return &ntfyServiceImpl{
		topicURL:   server.URL,
		httpClient: server.Client(),
		logger:     zap.NewNop().Sugar(),
	}, received
}

func TestNtfyService_NotifyError_GeneratorFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "通知が受け付けられる", status: http.StatusOK},
		{name: "ntfy側がエラーでもパニックしない", status: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, received := newNtfyTestServer(t, tt.status)
			cause := fmt.Errorf("%w: exit status 1: dictionary not found", ErrGeneratorFailure)

			svc.NotifyError(failureTitle, failureMessage(fragment.CategorySoup, 2, cause))

			var got receivedNotification
			select {
			case got = <-received:
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for notification request")
			}

			if got.method != http.MethodPost {
				t.Errorf("method: got %q, want POST", got.method)
			}
			if got.title != "habomailang - 文章生成失敗" {
				t.Errorf("Title header: got %q", got.title)
			}
			if got.priority != "high" || got.tags != "x" {
				t.Errorf("Priority/Tags headers: got %q/%q, want high/x", got.priority, got.tags)
			}
			want := "category=soup, level=2: generator failure: exit status 1: dictionary not found"
			if got.body != want {
				t.Errorf("body: got %q, want %q", got.body, want)
			}
		})
	}
}

func TestFailureMessage_Truncated(t *testing.T) {
	cause := errors.New(strings.Repeat("辞書が見つかりません。", 20))

	got := failureMessage(fragment.CategoryNoodle, 3, cause)

	if !strings.HasPrefix(got, "category=noodle, level=3: 辞書が") {
		t.Errorf("message prefix: got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("message should be truncated with ...: %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("message should be valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != 100 {
		t.Errorf("rune count: got %d, want 100", n)
	}
}

func TestTruncateLog(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "短い文字列はそのまま", input: "麺がウマい", maxLen: 5, want: "麺がウマい"},
		{name: "マルチバイト文字の途中で切らない", input: "麺がウマい。スープも", maxLen: 3, want: "麺がウ..."},
		{name: "ASCII", input: "exit status 1", maxLen: 4, want: "exit..."},
		{name: "空文字列", input: "", maxLen: 3, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateLog(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateLog(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateLog() returned invalid UTF-8: %q", got)
			}
		})
	}
}

// mockNtfyService は生成失敗時の通知を検証するためのモックです
type mockNtfyService struct {
	mu      sync.Mutex
	title   string
	message string
	called  bool
}

func (m *mockNtfyService) NotifyError(title, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
	m.message = message
	m.called = true
}
