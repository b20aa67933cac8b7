package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger は接続確認ができる依存先です（*store.Store が実装する）
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler はヘルスチェック関連のHTTPハンドラを提供します
type HealthHandler struct {
	pinger Pinger
	logger *zap.SugaredLogger
}

// NewHealthHandler は新しいHealthHandlerを生成します。
// pinger がnilの場合はサーバープロセスの起動のみを確認する。
func NewHealthHandler(pinger Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		pinger: pinger,
		logger: logger.Named("HealthHandler").Sugar(),
	}
}

// Handle はサーバーのヘルスチェックを実行する。
//
// DBへの接続確認を2秒のタイムアウトで行う。
//
// レスポンス:
//   - 200: 成功 {"status": "ok"}
//   - 503: DBに接続できない
func (h *HealthHandler) Handle(c *gin.Context) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Warnw("Handle failed: store ping failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error: "データベースに接続できません",
				Code:  CodeUnavailable,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
