// Package testutils 提供测试使用的内存行存储
package testutils

import (
	"context"
	"maps"
	"sync"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
)

type Call struct {
	Method string
	Query  map[string]string
	Row    domain.RawRow
}

// FakeStore 在内存中模拟表格存储，可以为每种操作注入错误
type FakeStore struct {
	mu    sync.Mutex
	Rows  []domain.RawRow
	Calls []Call

	FetchErr  error
	CreateErr error
	UpdateErr error
}

func NewFakeStore(rows ...domain.RawRow) *FakeStore {
	return &FakeStore{Rows: rows}
}

func matches(row domain.RawRow, filters map[string]string) bool {
	for k, v := range filters {
		s, _ := row[k].(string)
		if s != v {
			return false
		}
	}
	return true
}

func (f *FakeStore) FetchAll(ctx context.Context, filters map[string]string) ([]domain.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, Call{Method: "GET", Query: filters})
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}

	out := []domain.RawRow{}
	for _, row := range f.Rows {
		if matches(row, filters) {
			out = append(out, maps.Clone(row))
		}
	}
	return out, nil
}

func (f *FakeStore) CreateRow(ctx context.Context, row domain.RawRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, Call{Method: "POST", Row: row})
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.Rows = append(f.Rows, maps.Clone(row))
	return nil
}

func (f *FakeStore) UpdateRows(ctx context.Context, match map[string]string, patch domain.RawRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, Call{Method: "PATCH", Query: match, Row: patch})
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for _, row := range f.Rows {
		if matches(row, match) {
			maps.Copy(row, patch)
		}
	}
	return nil
}

func (f *FakeStore) CallsFor(method string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Call
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}
