package calendar

import (
	"time"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
)

type Kind string

const (
	KindRequest  Kind = "req"
	KindPending  Kind = "pending"
	KindApproved Kind = "approved"
)

var Kinds = []Kind{KindRequest, KindPending, KindApproved}

func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

func (k Kind) ContainerID() string {
	return "calendar-" + string(k)
}

func (k Kind) TitleID() string {
	return "calendarTitle-" + string(k)
}

var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ShiftSource 由班次缓存实现
type ShiftSource interface {
	FilterByDateAndPredicate(dateKey string, pred domain.ShiftPredicate) []domain.Shift
}

type View struct {
	Kind    Kind
	Offset  int
	Include domain.ShiftPredicate
	// 只有待审批日历在管理员查看时才允许点击审批
	AllowApprove bool
}

// Views 返回三个标准日历：全部、待审批、已审批
func Views(offsets map[Kind]int, isAdmin bool) []View {
	return []View{
		{
			Kind:    KindRequest,
			Offset:  offsets[KindRequest],
			Include: func(domain.Shift) bool { return true },
		},
		{
			Kind:         KindPending,
			Offset:       offsets[KindPending],
			Include:      func(s domain.Shift) bool { return !s.IsApproved() },
			AllowApprove: isAdmin,
		},
		{
			Kind:    KindApproved,
			Offset:  offsets[KindApproved],
			Include: func(s domain.Shift) bool { return s.IsApproved() },
		},
	}
}

type Entry struct {
	ID         string        `json:"id"`
	Label      string        `json:"label"`
	Tooltip    string        `json:"tooltip"`
	Status     domain.Status `json:"status"`
	Approvable bool          `json:"approvable"`
}

func (e Entry) Class() string {
	if e.Status == domain.StatusApproved {
		return "approved"
	}
	return "pending"
}

type DayCell struct {
	Day     int     `json:"day"`
	DateKey string  `json:"dateKey"`
	Entries []Entry `json:"entries"`
}

type Grid struct {
	Kind        Kind      `json:"kind"`
	ContainerID string    `json:"containerID"`
	TitleID     string    `json:"titleID"`
	Title       string    `json:"title"`
	Offset      int       `json:"offset"`
	Weekdays    [7]string `json:"weekdays"`
	Leading     int       `json:"leading"` // 第一天之前的空白格数量，0 表示周日
	Days        []DayCell `json:"days"`
}

// Placeholders 便于模板按数量输出空白格
func (g Grid) Placeholders() []struct{} {
	return make([]struct{}, g.Leading)
}

func Render(src ShiftSource, view View, now time.Time) Grid {
	base := MonthBase(now, view.Offset)
	month := DaysInMonth(base)

	grid := Grid{
		Kind:        view.Kind,
		ContainerID: view.Kind.ContainerID(),
		TitleID:     view.Kind.TitleID(),
		Title:       base.Format("January 2006"),
		Offset:      view.Offset,
		Weekdays:    Weekdays,
		Leading:     int(month.First.Weekday()),
		Days:        make([]DayCell, 0, month.Len()),
	}

	for day := range month.Days() {
		key := DateKey(day)
		cell := DayCell{Day: day.Day(), DateKey: key, Entries: []Entry{}}

		for _, s := range src.FilterByDateAndPredicate(key, view.Include) {
			cell.Entries = append(cell.Entries, newEntry(s, view))
		}

		grid.Days = append(grid.Days, cell)
	}

	return grid
}

func RenderAll(src ShiftSource, offsets map[Kind]int, isAdmin bool, now time.Time) []Grid {
	views := Views(offsets, isAdmin)
	grids := make([]Grid, 0, len(views))
	for _, v := range views {
		grids = append(grids, Render(src, v, now))
	}
	return grids
}

func newEntry(s domain.Shift, view View) Entry {
	name := s.Name
	if name == "" {
		name = "Unknown"
	}

	tooltip := s.Role
	if s.Notes != "" {
		tooltip += "\n" + s.Notes
	}

	status := s.Status
	if status == "" {
		status = domain.StatusPending
	}

	return Entry{
		ID:         s.ID,
		Label:      name + " • " + s.Start + "–" + s.End,
		Tooltip:    tooltip,
		Status:     status,
		Approvable: view.AllowApprove && !s.IsApproved(),
	}
}
