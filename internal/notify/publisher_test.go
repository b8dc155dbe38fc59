package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-calendar/backend/internal/domain"
)

type fakeChannel struct {
	exchange    string
	key         string
	msg         amqp.Publishing
	hasDeadline bool
	err         error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	_, f.hasDeadline = ctx.Deadline()
	return f.err
}

func TestPublisherNotify(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, time.Second)

	shift := domain.Shift{ID: "1", Name: "A", Date: "2024-03-05", Start: "09:00", End: "17:00"}
	err := p.Notify(context.Background(), domain.MailMessage{
		Type: domain.MailTypeShiftApproved,
		To:   "roster@example.com",
		Data: domain.NewShiftMailData(shift),
	})
	require.NoError(t, err)

	assert.Equal(t, "", ch.exchange)
	assert.Equal(t, QueueName, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.True(t, ch.hasDeadline)

	var got struct {
		Type string               `json:"type"`
		To   string               `json:"to"`
		Data domain.ShiftMailData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, domain.MailTypeShiftApproved, got.Type)
	assert.Equal(t, "roster@example.com", got.To)
	assert.Equal(t, "A", got.Data.Name)
	assert.Equal(t, "2024-03-05", got.Data.Date)
}

func TestPublisherNotifyCanceledRequest(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Notify(ctx, domain.MailMessage{Type: domain.MailTypeShiftRequested}))
	assert.Equal(t, QueueName, ch.key)
}

func TestPublisherNotifyError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := NewPublisher(ch, time.Second)

	err := p.Notify(context.Background(), domain.MailMessage{Type: domain.MailTypeShiftRequested})
	assert.EqualError(t, err, "channel closed")
}
