package wareki

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "令和", date: time.Date(2026, time.October, 18, 12, 0, 0, 0, jst), want: "令和08年10月18日"},
		{name: "令和初日", date: time.Date(2019, time.May, 1, 0, 0, 0, 0, jst), want: "令和01年05月01日"},
		{name: "平成最終日", date: time.Date(2019, time.April, 30, 23, 59, 0, 0, jst), want: "平成31年04月30日"},
		{name: "平成", date: time.Date(2016, time.October, 1, 0, 0, 0, 0, jst), want: "平成28年10月01日"},
		{name: "昭和最終日", date: time.Date(1989, time.January, 7, 0, 0, 0, 0, jst), want: "昭和64年01月07日"},
		{name: "大正", date: time.Date(1920, time.March, 3, 0, 0, 0, 0, jst), want: "大正09年03月03日"},
		{name: "明治", date: time.Date(1900, time.January, 1, 0, 0, 0, 0, jst), want: "明治33年01月01日"},
		{name: "明治以前は西暦", date: time.Date(1850, time.June, 1, 0, 0, 0, 0, jst), want: "1850年06月01日"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.date))
		})
	}
}

func TestWeekday_AllDays(t *testing.T) {
	// 2026-10-18 は日曜日
	sunday := time.Date(2026, time.October, 18, 9, 0, 0, 0, jst)
	want := []string{"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"}

	for i := 0; i < 7; i++ {
		day := sunday.AddDate(0, 0, i)
		assert.Equal(t, int(day.Weekday()), i)
		assert.Equal(t, want[i], Weekday(day))
		assert.Equal(t, weekdays[day.Weekday()]+"曜日", Weekday(day))
	}
}

func TestDiaryDate(t *testing.T) {
	got := DiaryDate(time.Date(2026, time.October, 18, 9, 0, 0, 0, jst))
	assert.Equal(t, "令和08年10月18日日曜日", got)
}
