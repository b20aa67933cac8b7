// Package wareki は和暦（元号）による日付の書式化を提供します
package wareki

import (
	"fmt"
	"time"
)

// era は元号とその開始日を表します
type era struct {
	name  string
	start time.Time // 開始日（JST 0時）
	base  int       // 元年にあたる西暦年
}

var jst = time.FixedZone("JST", 9*60*60)

// eras は新しい順に並べた元号の一覧です
var eras = []era{
	{name: "令和", start: time.Date(2019, time.May, 1, 0, 0, 0, 0, jst), base: 2019},
	{name: "平成", start: time.Date(1989, time.January, 8, 0, 0, 0, 0, jst), base: 1989},
	{name: "昭和", start: time.Date(1926, time.December, 25, 0, 0, 0, 0, jst), base: 1926},
	{name: "大正", start: time.Date(1912, time.July, 30, 0, 0, 0, 0, jst), base: 1912},
	// 明治はグレゴリオ暦採用日から
	{name: "明治", start: time.Date(1873, time.January, 1, 0, 0, 0, 0, jst), base: 1868},
}

// weekdays は曜日の表です（0=日曜日）
var weekdays = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// Era は日付の元号名と元号年を返します。明治以前の場合は ok=false を返します。
func Era(t time.Time) (name string, year int, ok bool) {
	// 元号の境界は日付単位で判定する
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, jst)
	for _, e := range eras {
		if !day.Before(e.start) {
			return e.name, t.Year() - e.base + 1, true
		}
	}
	return "", 0, false
}

// Format は日付を "令和08年10月18日" の形式で返します。
// 元号年・月・日は2桁ゼロ埋め。明治以前は西暦で書式化する。
func Format(t time.Time) string {
	name, year, ok := Era(t)
	if !ok {
		return fmt.Sprintf("%04d年%02d月%02d日", t.Year(), int(t.Month()), t.Day())
	}
	return fmt.Sprintf("%s%02d年%02d月%02d日", name, year, int(t.Month()), t.Day())
}

// Weekday は "日曜日" のような曜日名を返します
func Weekday(t time.Time) string {
	return weekdays[int(t.Weekday())] + "曜日"
}

// DiaryDate は日記の先頭に置く日付（和暦 + 曜日）を返します
func DiaryDate(t time.Time) string {
	return Format(t) + Weekday(t)
}
