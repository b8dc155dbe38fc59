package calendar

import (
	"iter"
	"strings"
	"time"
)

const dateKeyLayout = "2006-01-02"

// MonthBase 返回 now 所在月份偏移 offset 个月后的第一天，跨年由 time.Date 自动处理
func MonthBase(now time.Time, offset int) time.Time {
	return time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, now.Location())
}

type Month struct {
	First time.Time
	Last  time.Time
}

// DaysInMonth 返回 base 所在月份的第一天和最后一天
func DaysInMonth(base time.Time) Month {
	first := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
	last := first.AddDate(0, 1, -1)
	return Month{First: first, Last: last}
}

func (m Month) Len() int {
	return m.Last.Day()
}

// Days 按顺序遍历该月的每一天，可以多次遍历
func (m Month) Days() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := 1; d <= m.Last.Day(); d++ {
			if !yield(time.Date(m.First.Year(), m.First.Month(), d, 0, 0, 0, 0, m.First.Location())) {
				return
			}
		}
	}
}

// DateKey 使用日期本身的年月日生成 YYYY-MM-DD，不做时区转换
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

var dateLayouts = []string{
	dateKeyLayout,
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"2006-1-2",
}

// NormalizeDate 将远端存储中的日期统一为 YYYY-MM-DD，无法解析时返回空字符串。
// 带时间的值只取写入时的日期部分，避免因时区换算导致日期偏移一天
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return DateKey(t)
	}

	// 2024-03-05T09:00:00、2024-03-05 09:00 等形式
	if len(raw) > len(dateKeyLayout) {
		if sep := raw[len(dateKeyLayout)]; sep == 'T' || sep == ' ' {
			if t, err := time.Parse(dateKeyLayout, raw[:len(dateKeyLayout)]); err == nil {
				return DateKey(t)
			}
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateKey(t)
		}
	}

	return ""
}
