package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
)

// buildFilter 把等值条件转换为 data->>key = value 形式的 WHERE 子句，参数编号从 next 开始
func buildFilter(filters map[string]string, next int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	conds := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		conds = append(conds, fmt.Sprintf("data->>$%d = $%d", next, next+1))
		args = append(args, k, filters[k])
		next += 2
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *Repository) FetchAll(ctx context.Context, filters map[string]string) ([]domain.RawRow, error) {
	where, args := buildFilter(filters, 1)
	query := "SELECT data FROM shift_rows" + where + " ORDER BY row_id"

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.RemoteError{Op: "SELECT", Err: err}
	}
	defer rows.Close()

	result := []domain.RawRow{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, &domain.RemoteError{Op: "SELECT", Err: err}
		}

		row := domain.RawRow{}
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, &domain.RemoteError{Op: "SELECT", Err: err}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.RemoteError{Op: "SELECT", Err: err}
	}

	return result, nil
}

func (r *Repository) CreateRow(ctx context.Context, row domain.RawRow) error {
	query := `INSERT INTO shift_rows (data) VALUES ($1::jsonb)`

	data, err := json.Marshal(row)
	if err != nil {
		return &domain.RemoteError{Op: "INSERT", Err: err}
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, string(data)); err != nil {
		return &domain.RemoteError{Op: "INSERT", Err: err}
	}

	return nil
}

// UpdateRows 把 patch 合并到所有匹配的行中，和表格存储一样不报告受影响的行数
func (r *Repository) UpdateRows(ctx context.Context, match map[string]string, patch domain.RawRow) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return &domain.RemoteError{Op: "UPDATE", Err: err}
	}

	where, args := buildFilter(match, 2)
	query := "UPDATE shift_rows SET data = data || $1::jsonb" + where

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, append([]any{string(data)}, args...)...); err != nil {
		return &domain.RemoteError{Op: "UPDATE", Err: err}
	}

	return nil
}
