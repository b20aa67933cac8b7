package handler

import (
	"errors"
	"net/http"

	"github.com/GuiltyMorishita/habomailang-api/internal/service"

	"github.com/gin-gonic/gin"
)

// エラーコード
const (
	CodeMissingParameter   = "missing_parameter"
	CodeInvalidParameter   = "invalid_parameter"
	CodeNoFragmentForLevel = "no_fragment_for_level"
	CodeGeneratorFailure   = "generator_failure"
	CodeUnavailable        = "unavailable"
	CodeInternal           = "internal_error"
)

// ErrorResponse はエラーレスポンスの構造体です
type ErrorResponse struct {
	Error     string `json:"error"`               // エラーメッセージ
	Code      string `json:"code"`                // エラーコード
	Parameter string `json:"parameter,omitempty"` // 原因となったパラメータ名
}

// respondError はserviceのエラーをステータスコードとErrorResponseに変換して返します
func respondError(c *gin.Context, err error) {
	status, resp := errorResponse(err)
	c.JSON(status, resp)
}

func errorResponse(err error) (int, ErrorResponse) {
	var pe *service.ParamError
	param := ""
	if errors.As(err, &pe) {
		param = pe.Param
	}

	switch {
	case errors.Is(err, service.ErrMissingParameter):
		return http.StatusBadRequest, ErrorResponse{
			Error:     param + "は必須です",
			Code:      CodeMissingParameter,
			Parameter: param,
		}
	case errors.Is(err, service.ErrInvalidParameter):
		return http.StatusBadRequest, ErrorResponse{
			Error:     param + "が不正です",
			Code:      CodeInvalidParameter,
			Parameter: param,
		}
	case errors.Is(err, service.ErrNoFragmentForLevel):
		return http.StatusNotFound, ErrorResponse{
			Error: "指定されたレベルの文章がありません",
			Code:  CodeNoFragmentForLevel,
		}
	case errors.Is(err, service.ErrGeneratorFailure):
		return http.StatusBadGateway, ErrorResponse{
			Error: "文章生成に失敗しました",
			Code:  CodeGeneratorFailure,
		}
	}
	return http.StatusInternalServerError, ErrorResponse{
		Error: "内部エラーが発生しました",
		Code:  CodeInternal,
	}
}
