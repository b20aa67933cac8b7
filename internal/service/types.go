// Package service はビジネスロジックを提供します
package service

import (
	"context"
	"fmt"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"
)

// FragmentSource は具材カテゴリとレベルから文章断片を1つ返すインターフェースです
type FragmentSource interface {
	// Fragment は断片を返します。該当がない場合は ErrNoFragmentForLevel をラップして返す
	Fragment(ctx context.Context, category fragment.Category, level int) (string, error)
}

// SentenceRequest は文章生成リクエストの生パラメータです
type SentenceRequest struct {
	ShopName    string
	Menu        string
	Topping     string
	Price       string
	NoodleLevel string
	SoupLevel   string
	PorkLevel   string
}

// SentenceInput は検証・正規化済みの入力です
type SentenceInput struct {
	ShopName string
	Menu     string
	Topping  string // 空の場合は出力しない
	Price    string // 半角数字のみ
	Levels   map[fragment.Category]int
}

// SentenceResult は文章生成の結果です
type SentenceResult struct {
	Sentence string
	Date     string
	Levels   map[fragment.Category]int
}

// Style は文章の体裁を表します
type Style struct {
	Labels  bool   // 各具材行の先頭にラベルを付ける
	Closing string // 最終行（空の場合は出力しない）
}

// 文章の体裁
var (
	// StyleDiary は現行の体裁です（ラベル付き、最後に「完飲。」）
	StyleDiary = Style{Labels: true, Closing: "完飲。"}
	// StylePlain は初期の体裁です（ラベルなし、締めなし）
	StylePlain = Style{}
)

// ParseStyle は設定値の文字列をStyleに変換します
func ParseStyle(s string) (Style, error) {
	switch s {
	case "diary":
		return StyleDiary, nil
	case "plain":
		return StylePlain, nil
	}
	return Style{}, fmt.Errorf("unknown style: %q", s)
}
