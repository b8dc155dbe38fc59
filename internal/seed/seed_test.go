package seed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/cache"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/testutils"
)

func TestRandomShift(t *testing.T) {
	base := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		s := RandomShift(base)
		assert.True(t, strings.HasPrefix(s.Date, "2024-02-"), s.Date)
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Start)
		assert.Equal(t, domain.StatusPending, s.Status)
	}
}

func TestSeedRandom(t *testing.T) {
	store := testutils.NewFakeStore()
	base := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, SeedRandom(context.Background(), store, 5, base))
	assert.Len(t, store.CallsFor("POST"), 5)

	// 写入的行可以被缓存正常加载
	c := cache.New(store)
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, 5, c.Len())
}

func TestSeedRandomFailure(t *testing.T) {
	store := testutils.NewFakeStore()
	store.CreateErr = errors.New("boom")

	assert.Zero(t, SeedRandom(context.Background(), store, 3, time.Now()))
	assert.Len(t, store.CallsFor("POST"), 3)
}

func TestSeedCSV(t *testing.T) {
	store := testutils.NewFakeStore()
	input := "ID,Name,Role,Date,Start,End,Status\n" +
		"1,Ann,Cook,2024-03-05,09:00,17:00,approved\n" +
		"2, Bo ,Cashier,3/7/2024,13:00,18:00,\n"

	n, err := SeedCSV(context.Background(), store, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	c := cache.New(store)
	require.NoError(t, c.Load(context.Background()))

	ann, ok := c.Get("1")
	require.True(t, ok)
	assert.True(t, ann.IsApproved())

	bo, ok := c.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Bo", bo.Name)
	assert.Equal(t, "2024-03-07", bo.Date)
	assert.Equal(t, domain.StatusPending, bo.Status)
}

func TestSeedCSVAddsDefaultStatus(t *testing.T) {
	store := testutils.NewFakeStore()

	n, err := SeedCSV(context.Background(), store, strings.NewReader("name,date\nAnn,2024-03-05\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "pending", store.Rows[0]["status"])
}

func TestSeedCSVEmpty(t *testing.T) {
	_, err := SeedCSV(context.Background(), testutils.NewFakeStore(), strings.NewReader(""))
	assert.Error(t, err)
}
