package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
)

const (
	ICSProductID = "-//sysu-ecnc-dev//shift-calendar//EN"
	ICSUIDDomain = "shift-calendar"
)

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

type icsWriter struct {
	w   io.Writer
	err error
}

// icsLineLimit 是一行内容的最大字节数，不含换行符
const icsLineLimit = 75

// fold 将超过 75 字节的内容行折成多行，续行以空格开头，不拆开多字节字符
func fold(line string) string {
	if len(line) <= icsLineLimit {
		return line
	}

	var b strings.Builder
	limit := icsLineLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// 续行开头的空格占一个字节
		limit = icsLineLimit - 1
	}
	b.WriteString(line)
	return b.String()
}

func (iw *icsWriter) line(format string, args ...any) {
	if iw.err != nil {
		return
	}
	_, iw.err = fmt.Fprint(iw.w, fold(fmt.Sprintf(format, args...))+"\r\n")
}

// WriteICS 把已审批的班次写成全天事件，UID 只依赖班次 ID，订阅端刷新时不会产生重复事件
func WriteICS(w io.Writer, shifts []domain.Shift, now time.Time) error {
	iw := &icsWriter{w: w}

	iw.line("BEGIN:VCALENDAR")
	iw.line("VERSION:2.0")
	iw.line("PRODID:%s", ICSProductID)
	iw.line("CALSCALE:GREGORIAN")
	iw.line("METHOD:PUBLISH")
	iw.line("X-WR-CALNAME:Approved shifts")

	stamp := now.UTC().Format("20060102T150405Z")
	for _, s := range sortByDate(shifts) {
		if !s.IsApproved() {
			continue
		}
		day, err := time.Parse(time.DateOnly, s.Date)
		if err != nil {
			continue
		}

		name := s.Name
		if name == "" {
			name = "Unknown"
		}
		summary := name
		if s.Role != "" {
			summary = fmt.Sprintf("%s (%s)", name, s.Role)
		}

		iw.line("BEGIN:VEVENT")
		iw.line("UID:%s@%s", icsEscaper.Replace(s.ID), ICSUIDDomain)
		iw.line("DTSTAMP:%s", stamp)
		iw.line("DTSTART;VALUE=DATE:%s", day.Format("20060102"))
		iw.line("DTEND;VALUE=DATE:%s", day.AddDate(0, 0, 1).Format("20060102"))
		iw.line("SUMMARY:%s", icsEscaper.Replace(summary))
		iw.line("DESCRIPTION:%s", icsEscaper.Replace(describe(s)))
		iw.line("END:VEVENT")
	}

	iw.line("END:VCALENDAR")
	return iw.err
}

func describe(s domain.Shift) string {
	desc := fmt.Sprintf("%s–%s", s.Start, s.End)
	if s.Notes != "" {
		desc += "\n" + s.Notes
	}
	return desc
}
