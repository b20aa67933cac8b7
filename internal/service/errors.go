package service

import (
	"errors"
	"fmt"
)

// 文章生成のエラー種別
var (
	// ErrMissingParameter は必須パラメータが指定されていないことを表します
	ErrMissingParameter = errors.New("missing parameter")
	// ErrInvalidParameter はパラメータの値が不正であることを表します
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNoFragmentForLevel は指定レベルの断片が存在しないことを表します
	ErrNoFragmentForLevel = errors.New("no fragment for level")
	// ErrGeneratorFailure は外部の文章生成が失敗したことを表します
	ErrGeneratorFailure = errors.New("generator failure")
)

// ParamError はどのパラメータが不正かを保持するエラーです
type ParamError struct {
	Param  string // パラメータ名（shop_name など）
	Err    error  // ErrMissingParameter または ErrInvalidParameter
	Detail string
}

func (e *ParamError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Param)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Param, e.Detail)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

func missing(param string) error {
	return &ParamError{Param: param, Err: ErrMissingParameter}
}

func invalid(param, format string, args ...any) error {
	return &ParamError{Param: param, Err: ErrInvalidParameter, Detail: fmt.Sprintf(format, args...)}
}
