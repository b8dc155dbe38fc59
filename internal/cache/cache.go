package cache

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
)

// Store 是远端行存储，sheet.Client 和 repository.Repository 都实现了它
type Store interface {
	FetchAll(ctx context.Context, filters map[string]string) ([]domain.RawRow, error)
	CreateRow(ctx context.Context, row domain.RawRow) error
	UpdateRows(ctx context.Context, match map[string]string, patch domain.RawRow) error
}

// Cache 保存所有班次，是渲染日历的唯一数据来源
type Cache struct {
	mu     sync.RWMutex
	shifts []domain.Shift
	store  Store
}

func New(store Store) *Cache {
	return &Cache{
		shifts: []domain.Shift{},
		store:  store,
	}
}

// Load 拉取全部行并整体替换缓存，失败时保持原有内容不变
func (c *Cache) Load(ctx context.Context) error {
	rows, err := c.store.FetchAll(ctx, nil)
	if err != nil {
		return err
	}

	shifts := make([]domain.Shift, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		s, ok := Normalize(row, i+1)
		if !ok {
			dropped++
			continue
		}
		shifts = append(shifts, s)
	}

	c.mu.Lock()
	c.shifts = shifts
	c.mu.Unlock()

	slog.Debug("已加载班次", "rows", len(rows), "shifts", len(shifts), "dropped", dropped)
	return nil
}

// Add 追加一个班次，不检查 ID 是否重复
func (c *Cache) Add(s domain.Shift) {
	if key := calendar.NormalizeDate(s.Date); key != "" {
		s.Date = key
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.shifts = append(c.shifts, s)
}

// ApproveLocally 将第一个 ID 匹配的班次标记为已审批，找不到时返回 false
func (c *Cache) ApproveLocally(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.shifts {
		if c.shifts[i].ID == id {
			c.shifts[i].Status = domain.StatusApproved
			return true
		}
	}
	return false
}

func (c *Cache) Get(id string) (domain.Shift, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, s := range c.shifts {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Shift{}, false
}

func (c *Cache) FilterByDateAndPredicate(dateKey string, pred domain.ShiftPredicate) []domain.Shift {
	key := calendar.NormalizeDate(dateKey)
	if key == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.Shift
	for _, s := range c.shifts {
		if s.Date != key {
			continue
		}
		if pred != nil && !pred(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (c *Cache) Snapshot() []domain.Shift {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.shifts)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.shifts)
}
