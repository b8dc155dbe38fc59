// Package seed 向班次存储中写入测试数据：随机生成的申请，或从 CSV 导出的真实数据
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/cache"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/utils"
)

// RandomShift 生成一个 base 所在月份内的待审批班次，姓名为拼音形式
func RandomShift(base time.Time) domain.Shift {
	start, end := utils.GenerateRandomShiftTime()
	return domain.Shift{
		ID:     utils.GenerateClientID(),
		Name:   utils.RomanizeChineseName(utils.GenerateRandomChineseName()),
		Role:   utils.GenerateRandomRole(),
		Date:   calendar.DateKey(utils.GenerateRandomDateInMonth(base)),
		Start:  start,
		End:    end,
		Notes:  utils.GenerateRandomNotes(),
		Status: domain.StatusPending,
	}
}

// SeedRandom 写入 n 个随机班次，返回成功写入的数量。单行失败只记录日志并继续
func SeedRandom(ctx context.Context, store cache.Store, n int, base time.Time) int {
	cnt := 0
	for i := 0; i < n; i++ {
		s := RandomShift(base)
		if err := store.CreateRow(ctx, s.Row()); err != nil {
			slog.Error("无法插入班次", "shiftID", s.ID, "error", err)
			continue
		}
		cnt++
	}
	return cnt
}

// SeedCSV 读取带表头的 CSV，每行作为一个原始行写入。表头与存储中的列名一致，
// 字段名的大小写和别名由缓存加载时统一处理
func SeedCSV(ctx context.Context, store cache.Store, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return 0, err
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	if len(headers) == 0 || (len(headers) == 1 && headers[0] == "") {
		return 0, errors.New("CSV 表头为空")
	}

	cnt := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return cnt, err
		}

		row := domain.RawRow{}
		for i, h := range headers {
			if h == "" || i >= len(record) {
				continue
			}
			row[h] = strings.TrimSpace(record[i])
		}
		if _, ok := row["status"]; !ok {
			if _, ok := row["Status"]; !ok {
				row["status"] = string(domain.StatusPending)
			}
		}

		if err := store.CreateRow(ctx, row); err != nil {
			slog.Error("无法插入班次", "line", cnt+2, "error", err)
			continue
		}
		cnt++
	}

	return cnt, nil
}
