package domain

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

type Shift struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Date   string `json:"date"` // YYYY-MM-DD
	Start  string `json:"start"`
	End    string `json:"end"`
	Notes  string `json:"notes"`
	Status Status `json:"status"`
}

func (s Shift) IsApproved() bool {
	return s.Status == StatusApproved
}

// Row 转换为远端存储使用的行格式
func (s Shift) Row() RawRow {
	return RawRow{
		"id":     s.ID,
		"name":   s.Name,
		"role":   s.Role,
		"date":   s.Date,
		"start":  s.Start,
		"end":    s.End,
		"notes":  s.Notes,
		"status": string(s.Status),
	}
}

// RawRow 是远端存储返回的原始行，字段名的大小写并不固定
type RawRow map[string]any

// ShiftPredicate 用于筛选需要在某个日历中显示的班次，nil 表示不过滤
type ShiftPredicate func(Shift) bool
