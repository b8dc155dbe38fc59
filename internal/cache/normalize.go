package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
)

type field int

const (
	fieldID field = iota
	fieldName
	fieldRole
	fieldDate
	fieldStart
	fieldEnd
	fieldNotes
	fieldStatus
)

// fieldAliases 列出每个字段可接受的原始列名，按优先级排列，取第一个非空值
var fieldAliases = map[field][]string{
	fieldID:     {"id", "ID", "Id"},
	fieldName:   {"name", "Name"},
	fieldRole:   {"role", "Role"},
	fieldDate:   {"date", "Date", "datetime"},
	fieldStart:  {"start", "Start"},
	fieldEnd:    {"end", "End"},
	fieldNotes:  {"notes", "Notes"},
	fieldStatus: {"status", "Status"},
}

func lookup(row domain.RawRow, f field) string {
	for _, key := range fieldAliases[f] {
		if v := stringify(row[key]); v != "" {
			return v
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// 数字 0 和空值一样视为缺失，继续尝试下一个列名
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if !t {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(t)
	}
}

// Normalize 将原始行转换为班次，position 是该行在响应中从 1 开始的位置，用作缺省 ID。
// 日期为空或无法解析时返回 false
func Normalize(row domain.RawRow, position int) (domain.Shift, bool) {
	date := calendar.NormalizeDate(lookup(row, fieldDate))
	if date == "" {
		return domain.Shift{}, false
	}

	id := lookup(row, fieldID)
	if id == "" {
		id = strconv.Itoa(position)
	}

	status := strings.ToLower(lookup(row, fieldStatus))
	if status == "" {
		status = string(domain.StatusPending)
	}

	return domain.Shift{
		ID:     id,
		Name:   lookup(row, fieldName),
		Role:   lookup(row, fieldRole),
		Date:   date,
		Start:  lookup(row, fieldStart),
		End:    lookup(row, fieldEnd),
		Notes:  lookup(row, fieldNotes),
		Status: domain.Status(status),
	}, true
}
