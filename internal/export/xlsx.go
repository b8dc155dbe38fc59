// Package export 把缓存中的班次导出为 Excel 工作簿和 iCalendar 文件
package export

import (
	"cmp"
	"io"
	"slices"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Shifts"

var header = []any{"ID", "Name", "Role", "Date", "Start", "End", "Notes", "Status"}

// sortByDate 返回按日期和开始时间排序后的副本
func sortByDate(shifts []domain.Shift) []domain.Shift {
	sorted := slices.Clone(shifts)
	slices.SortStableFunc(sorted, func(a, b domain.Shift) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Start, b.Start))
	})
	return sorted
}

func WriteXLSX(w io.Writer, shifts []domain.Shift) error {
	f := excelize.NewFile()
	defer f.Close()

	// 新建的工作簿默认只有 Sheet1
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, style); err != nil {
		return err
	}

	for i, s := range sortByDate(shifts) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{s.ID, s.Name, s.Role, s.Date, s.Start, s.End, s.Notes, string(s.Status)}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
