package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/calendar"
)

func TestNewAndReset(t *testing.T) {
	s := New("abc")
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, calendar.KindRequest, s.ActiveTab)
	assert.False(t, s.IsAdmin)
	assert.Equal(t, map[calendar.Kind]int{"req": 0, "pending": 0, "approved": 0}, s.Offsets)

	s.IsAdmin = true
	s.Offsets[calendar.KindPending] = 3
	s.ActiveTab = calendar.KindApproved
	s.Status = "Approved"
	s.Draft.Name = "A"
	s.AdminModal.Open = true

	s.Reset()
	assert.Equal(t, New("abc"), s)
}

func TestAdminModalSettle(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s := New("abc")
	s.AdminModal = AdminModal{Open: true, Message: "Invalid PIN"}
	s.Settle(now.Add(time.Hour))
	assert.True(t, s.AdminModal.Open, "without a close deadline the modal stays open")

	s.AdminModal = AdminModal{Open: true, Message: "Logged in as admin", CloseAt: now.Add(AdminModalCloseDelay)}
	assert.True(t, s.AdminModal.Visible(now))
	s.Settle(now)
	assert.True(t, s.AdminModal.Open)

	s.Settle(now.Add(AdminModalCloseDelay))
	assert.False(t, s.AdminModal.Open)
	assert.Empty(t, s.AdminModal.Message)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := New("abc")
	s.Offsets[calendar.KindApproved] = -2
	s.IsAdmin = true
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	// 返回的是副本
	got.Offsets[calendar.KindApproved] = 5
	again, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, -2, again.Offsets[calendar.KindApproved])

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToken(t *testing.T) {
	now := time.Now()

	token, err := IssueToken("secret", "abc", time.Hour, now)
	require.NoError(t, err)

	id, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)

	expired, err := IssueToken("secret", "abc", time.Hour, now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = ParseToken("secret", expired)
	assert.Error(t, err)

	_, err = ParseToken("secret", "garbage")
	assert.Error(t, err)
}
