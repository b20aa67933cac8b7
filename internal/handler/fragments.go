package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"
	"github.com/GuiltyMorishita/habomailang-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FragmentStore は断片の一覧と件数を返すインターフェースです（*store.Store が実装する）
type FragmentStore interface {
	List(ctx context.Context, c fragment.Category, level int) ([]store.Fragment, error)
	Counts(ctx context.Context) (map[fragment.Category][]store.LevelCount, error)
}

// FragmentsResponse は/api/fragmentsレスポンスの構造体です
type FragmentsResponse struct {
	Category  fragment.Category `json:"category"`        // 具材カテゴリ
	Level     int               `json:"level,omitempty"` // 絞り込んだレベル（0は全レベル）
	Fragments []store.Fragment  `json:"fragments"`       // 断片一覧
}

// FragmentStatsResponse は/api/fragments/statsレスポンスの構造体です
type FragmentStatsResponse struct {
	Stats map[fragment.Category][]store.LevelCount `json:"stats"` // カテゴリごとのレベル別件数
}

// FragmentsHandler は断片の参照用HTTPハンドラを提供します
type FragmentsHandler struct {
	store  FragmentStore
	logger *zap.SugaredLogger
}

// NewFragmentsHandler は新しいFragmentsHandlerを生成します
func NewFragmentsHandler(fragmentStore FragmentStore, logger *zap.Logger) *FragmentsHandler {
	return &FragmentsHandler{
		store:  fragmentStore,
		logger: logger.Named("FragmentsHandler").Sugar(),
	}
}

// Handle はカテゴリの断片一覧を返す。
//
// クエリ:
//   - category: noodle, soup, pork（必須）
//   - level: 絞り込むレベル（省略時は全レベル）
//
// レスポンス:
//   - 200: 成功（FragmentsResponse）
//   - 400: パラメータ不足・不正
//   - 500: DBエラー
func (h *FragmentsHandler) Handle(c *gin.Context) {
	rawCategory := strings.TrimSpace(c.Query("category"))
	if rawCategory == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "categoryは必須です",
			Code:      CodeMissingParameter,
			Parameter: "category",
		})
		return
	}
	category, err := fragment.ParseCategory(rawCategory)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "categoryが不正です",
			Code:      CodeInvalidParameter,
			Parameter: "category",
		})
		return
	}

	level := 0
	if raw := strings.TrimSpace(c.Query("level")); raw != "" {
		level, err = strconv.Atoi(raw)
		if err != nil || level < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:     "levelが不正です",
				Code:      CodeInvalidParameter,
				Parameter: "level",
			})
			return
		}
	}

	h.logger.Infow("Handle started", "category", category, "level", level)

	fragments, err := h.store.List(c.Request.Context(), category, level)
	if err != nil {
		h.logger.Errorw("Handle failed", "category", category, "level", level, "error", err)
		respondError(c, err)
		return
	}
	if fragments == nil {
		fragments = []store.Fragment{}
	}

	h.logger.Infow("Handle completed", "category", category, "level", level, "fragments", len(fragments))

	c.JSON(http.StatusOK, FragmentsResponse{
		Category:  category,
		Level:     level,
		Fragments: fragments,
	})
}

// HandleStats はカテゴリ・レベルごとの断片数を返す。
//
// レスポンス:
//   - 200: 成功（FragmentStatsResponse）
//   - 500: DBエラー
func (h *FragmentsHandler) HandleStats(c *gin.Context) {
	counts, err := h.store.Counts(c.Request.Context())
	if err != nil {
		h.logger.Errorw("HandleStats failed", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FragmentStatsResponse{
		Stats: counts,
	})
}
