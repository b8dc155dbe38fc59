package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/testutils"
)

func TestNormalizeCasingVariants(t *testing.T) {
	lower := domain.RawRow{
		"id": "7", "name": "A", "role": "Nurse", "date": "2024-03-05",
		"start": "09:00", "end": "17:00", "notes": "n", "status": "Approved",
	}
	upper := domain.RawRow{
		"ID": "7", "Name": "A", "Role": "Nurse", "Date": "2024-03-05",
		"Start": "09:00", "End": "17:00", "Notes": "n", "Status": "APPROVED",
	}
	mixed := domain.RawRow{
		"Id": "7", "name": "A", "Role": "Nurse", "datetime": "2024-03-05T08:00:00Z",
		"start": "09:00", "End": "17:00", "Notes": "n", "status": "approved",
	}

	want := domain.Shift{
		ID: "7", Name: "A", Role: "Nurse", Date: "2024-03-05",
		Start: "09:00", End: "17:00", Notes: "n", Status: domain.StatusApproved,
	}

	for _, row := range []domain.RawRow{lower, upper, mixed} {
		got, ok := Normalize(row, 1)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	got, ok := Normalize(domain.RawRow{"Date": "2024-03-05"}, 4)
	require.True(t, ok)
	assert.Equal(t, "4", got.ID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Empty(t, got.Name)
}

func TestNormalizeFirstNonEmptyWins(t *testing.T) {
	got, ok := Normalize(domain.RawRow{"id": "", "ID": "server-9", "date": "", "Date": "2024-03-05"}, 1)
	require.True(t, ok)
	assert.Equal(t, "server-9", got.ID)
	assert.Equal(t, "2024-03-05", got.Date)
}

func TestNormalizeNumericID(t *testing.T) {
	got, ok := Normalize(domain.RawRow{"ID": float64(12), "date": "2024-03-05"}, 1)
	require.True(t, ok)
	assert.Equal(t, "12", got.ID)
}

func TestNormalizeZeroIDIsMissing(t *testing.T) {
	got, ok := Normalize(domain.RawRow{"id": float64(0), "ID": "server-3", "date": "2024-03-05"}, 4)
	require.True(t, ok)
	assert.Equal(t, "server-3", got.ID)

	got, ok = Normalize(domain.RawRow{"id": float64(0), "date": "2024-03-05"}, 4)
	require.True(t, ok)
	assert.Equal(t, "4", got.ID)

	// 字符串 "0" 不是空值
	got, ok = Normalize(domain.RawRow{"id": "0", "date": "2024-03-05"}, 4)
	require.True(t, ok)
	assert.Equal(t, "0", got.ID)
}

func TestNormalizeDropsMissingDate(t *testing.T) {
	for _, row := range []domain.RawRow{
		{"id": "1"},
		{"id": "1", "date": ""},
		{"id": "1", "Date": nil},
		{"id": "1", "date": "soon"},
	} {
		_, ok := Normalize(row, 1)
		assert.False(t, ok, "%v", row)
	}
}

func TestLoad(t *testing.T) {
	store := testutils.NewFakeStore(
		domain.RawRow{"id": "1", "date": "2024-03-05", "status": "Pending", "name": "A", "start": "09:00", "end": "17:00"},
		domain.RawRow{"id": "2", "date": ""},
		domain.RawRow{"Date": "2024-03-06", "Status": "approved"},
	)
	c := New(store)

	require.NoError(t, c.Load(context.Background()))

	shifts := c.Snapshot()
	require.Len(t, shifts, 2)
	assert.Equal(t, domain.Shift{
		ID: "1", Name: "A", Date: "2024-03-05", Start: "09:00", End: "17:00", Status: domain.StatusPending,
	}, shifts[0])
	// 缺省 ID 使用原始响应中的位置
	assert.Equal(t, "3", shifts[1].ID)
	assert.Equal(t, domain.StatusApproved, shifts[1].Status)
}

func TestLoadReplacesWholeList(t *testing.T) {
	store := testutils.NewFakeStore(domain.RawRow{"id": "1", "date": "2024-03-05"})
	c := New(store)
	c.Add(domain.Shift{ID: "local", Date: "2024-03-01"})

	require.NoError(t, c.Load(context.Background()))

	_, ok := c.Get("local")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestLoadFailureKeepsCache(t *testing.T) {
	store := testutils.NewFakeStore(domain.RawRow{"id": "1", "date": "2024-03-05"})
	c := New(store)
	require.NoError(t, c.Load(context.Background()))

	store.FetchErr = &domain.RemoteError{Op: "GET", StatusCode: 500}
	err := c.Load(context.Background())

	assert.True(t, domain.IsRemoteError(err))
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("1")
	assert.True(t, ok)
}

func TestAddAllowsDuplicates(t *testing.T) {
	c := New(testutils.NewFakeStore())
	c.Add(domain.Shift{ID: "x", Date: "2024-03-10", Status: domain.StatusPending})
	c.Add(domain.Shift{ID: "x", Date: "2024-03-10T00:00:00Z", Status: domain.StatusPending})

	assert.Equal(t, 2, c.Len())
	assert.Len(t, c.FilterByDateAndPredicate("2024-03-10", nil), 2)
}

func TestApproveLocally(t *testing.T) {
	c := New(testutils.NewFakeStore())
	c.Add(domain.Shift{ID: "a", Date: "2024-03-10", Status: domain.StatusPending})
	c.Add(domain.Shift{ID: "a", Date: "2024-03-11", Status: domain.StatusPending})

	assert.True(t, c.ApproveLocally("a"))
	shifts := c.Snapshot()
	assert.Equal(t, domain.StatusApproved, shifts[0].Status)
	// 只修改第一个匹配项
	assert.Equal(t, domain.StatusPending, shifts[1].Status)

	assert.False(t, c.ApproveLocally("missing"))
	assert.Equal(t, 2, c.Len())
}

func TestFilterByDateAndPredicate(t *testing.T) {
	c := New(testutils.NewFakeStore())
	c.Add(domain.Shift{ID: "1", Date: "2024-03-05", Status: domain.StatusPending})
	c.Add(domain.Shift{ID: "2", Date: "2024-03-05", Status: domain.StatusApproved})
	c.Add(domain.Shift{ID: "3", Date: "2024-03-06", Status: domain.StatusPending})

	all := c.FilterByDateAndPredicate("2024-03-05", nil)
	assert.Len(t, all, 2)

	// 查询键中的时间部分不影响结果
	withTime := c.FilterByDateAndPredicate("2024-03-05T18:45:00Z", nil)
	assert.Equal(t, all, withTime)

	approved := c.FilterByDateAndPredicate("2024-03-05", func(s domain.Shift) bool { return s.IsApproved() })
	require.Len(t, approved, 1)
	assert.Equal(t, "2", approved[0].ID)

	assert.Empty(t, c.FilterByDateAndPredicate("2024-03-07", nil))
	assert.Empty(t, c.FilterByDateAndPredicate("", nil))
}

func TestStoredTimeOfDayIgnored(t *testing.T) {
	store := testutils.NewFakeStore(
		domain.RawRow{"id": "late", "date": "2024-03-05T23:30:00-08:00"},
		domain.RawRow{"id": "early", "date": "2024-03-05T00:15:00+09:00"},
	)
	c := New(store)
	require.NoError(t, c.Load(context.Background()))

	got := c.FilterByDateAndPredicate("2024-03-05", nil)
	require.Len(t, got, 2)
	assert.Equal(t, "late", got[0].ID)
	assert.Equal(t, "early", got[1].ID)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(testutils.NewFakeStore(domain.RawRow{"id": "1", "date": "2024-03-05"}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = c.Load(context.Background())
		}()
		go func() {
			defer wg.Done()
			c.Add(domain.Shift{ID: "x", Date: "2024-03-05"})
		}()
		go func() {
			defer wg.Done()
			_ = c.FilterByDateAndPredicate("2024-03-05", nil)
			c.ApproveLocally("1")
		}()
	}
	wg.Wait()

	assert.NotZero(t, c.Len())
}
