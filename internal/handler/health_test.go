package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(_ context.Context) error {
	return p.err
}

func TestHealthHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus int
	}{
		{name: "DBなしは常に成功", pinger: nil, wantStatus: http.StatusOK},
		{name: "DB接続成功", pinger: &fakePinger{}, wantStatus: http.StatusOK},
		{name: "DB接続失敗は503", pinger: &fakePinger{err: errors.New("connection refused")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.pinger, zap.NewNop())

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/health", nil)

			h.Handle(c)

			if w.Code != tt.wantStatus {
				t.Errorf("status code: got %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				var resp map[string]string
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response body: %v", err)
				}
				if resp["status"] != "ok" {
					t.Errorf("status: got %q, want %q", resp["status"], "ok")
				}
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name     string
		headerID string
	}{
		{name: "リクエストIDがない場合は生成する"},
		{name: "クライアントのリクエストIDを引き継ぐ", headerID: "req-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RequestLogger(zap.NewNop()))

			var seen string
			r.GET("/api/health", func(c *gin.Context) {
				seen = c.GetString(RequestIDKey)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.headerID != "" {
				req.Header.Set(RequestIDHeader, tt.headerID)
			}
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got == "" {
				t.Fatal("X-Request-ID header should be set")
			}
			if tt.headerID != "" && got != tt.headerID {
				t.Errorf("X-Request-ID: got %q, want %q", got, tt.headerID)
			}
			if seen != got {
				t.Errorf("request id in context: got %q, want %q", seen, got)
			}
		})
	}
}
