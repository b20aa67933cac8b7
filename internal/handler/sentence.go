// Package handler はHTTPハンドラーを提供します
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"github.com/GuiltyMorishita/habomailang-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Param はクエリ・フォーム・JSONのいずれからも受け取れるパラメータ値です。
// JSONでは文字列と数値の両方を許容する（"price": 800 と "price": "800"）。
type Param string

// UnmarshalJSON は文字列・数値・nullをParamに変換します。
// それ以外は*json.UnmarshalTypeErrorを返し、デコーダーがフィールド名を補う。
func (p *Param) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Param(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(data), Type: reflect.TypeOf(*p)}
	}
	*p = Param(n.String())
	return nil
}

// jsonKind はエラーメッセージ用にJSON値の種類を返します
func jsonKind(data []byte) string {
	if len(data) == 0 {
		return "empty"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	default:
		return "value"
	}
}

// SentenceRequest は/api/sentence_generatorリクエストの構造体です
type SentenceRequest struct {
	ShopName    Param `form:"shop_name" json:"shop_name"`       // 店名（必須）
	Menu        Param `form:"menu" json:"menu"`                 // メニュー（必須）
	Topping     Param `form:"topping" json:"topping"`           // トッピング
	Price       Param `form:"price" json:"price"`               // 価格（必須）
	NoodleLevel Param `form:"noodle_level" json:"noodle_level"` // 麺のレベル
	SoupLevel   Param `form:"soup_level" json:"soup_level"`     // スープのレベル
	PorkLevel   Param `form:"pork_level" json:"pork_level"`     // ブタのレベル
}

func (r SentenceRequest) toService() service.SentenceRequest {
	return service.SentenceRequest{
		ShopName:    string(r.ShopName),
		Menu:        string(r.Menu),
		Topping:     string(r.Topping),
		Price:       string(r.Price),
		NoodleLevel: string(r.NoodleLevel),
		SoupLevel:   string(r.SoupLevel),
		PorkLevel:   string(r.PorkLevel),
	}
}

// SentenceResponse は/api/sentence_generatorレスポンスの構造体です
type SentenceResponse struct {
	Sentence string `json:"sentence"` // 組み立てた文章
}

// SentenceHandler は文章生成のHTTPハンドラを提供します
type SentenceHandler struct {
	sentenceService service.SentenceService
	logger          *zap.SugaredLogger
}

// NewSentenceHandler は新しいSentenceHandlerを生成します
func NewSentenceHandler(sentenceService service.SentenceService, logger *zap.Logger) *SentenceHandler {
	return &SentenceHandler{
		sentenceService: sentenceService,
		logger:          logger.Named("SentenceHandler").Sugar(),
	}
}

// Handle はラーメン日記の文章を生成する。
//
// GETはクエリパラメータ、POSTはフォームまたはJSONボディからパラメータを受け取る。
//
// レスポンス:
//   - 200: 成功 {"sentence": "..."}
//   - 400: パラメータ不足・不正
//   - 404: 指定レベルの断片がない
//   - 502: 外部の文章生成に失敗
//   - 500: その他のエラー
func (h *SentenceHandler) Handle(c *gin.Context) {
	var req SentenceRequest
	if err := h.bind(c, &req); err != nil {
		h.logger.Warnw("Handle failed: invalid request", "method", c.Request.Method, "error", err)
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	h.logger.Infow("Handle started",
		"request_id", c.GetString(RequestIDKey),
		"shop_name", req.ShopName,
		"menu", req.Menu)

	result, err := h.sentenceService.Generate(c.Request.Context(), req.toService())
	if err != nil {
		h.logger.Warnw("Handle failed", "request_id", c.GetString(RequestIDKey), "error", err)
		respondError(c, err)
		return
	}

	h.logger.Infow("Handle completed", "request_id", c.GetString(RequestIDKey), "date", result.Date)

	c.JSON(http.StatusOK, SentenceResponse{
		Sentence: result.Sentence,
	})
}

// bindErrorResponse はバインドエラーを400のレスポンスに変換します。
// 型が合わないJSONフィールドはparameterにフィールド名を入れる。
func bindErrorResponse(err error) ErrorResponse {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return ErrorResponse{
			Error:     typeErr.Field + "が不正です",
			Code:      CodeInvalidParameter,
			Parameter: typeErr.Field,
		}
	}
	return ErrorResponse{
		Error: "リクエストが不正です",
		Code:  CodeInvalidParameter,
	}
}

// bind はメソッドとContent-Typeに応じてパラメータを読み取ります
func (h *SentenceHandler) bind(c *gin.Context, req *SentenceRequest) error {
	if c.Request.Method == http.MethodGet {
		return c.ShouldBindQuery(req)
	}

	if err := c.ShouldBind(req); err != nil {
		// 空ボディのPOSTはクエリパラメータのみで受け付ける
		if !errors.Is(err, io.EOF) {
			return err
		}
		return c.ShouldBindQuery(req)
	}
	return nil
}
