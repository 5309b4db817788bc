package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafkago.Message
	committed []int64
	fetchErr  error
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if r.fetchErr != nil {
		err := r.fetchErr
		r.mu.Unlock()
		return kafkago.Message{}, err
	}
	if len(r.pending) > 0 {
		msg := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func testConsumer(reader messageReader) *Consumer {
	c := newConsumer(reader, zap.NewNop())
	c.backoff = time.Millisecond
	c.maxBackoff = 4 * time.Millisecond
	return c
}

func TestConsumer_RedeliversFailedMessageBeforeMovingOn(t *testing.T) {
	reader := &fakeReader{pending: []kafkago.Message{{Offset: 5}, {Offset: 6}}}
	c := testConsumer(reader)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []int64
	failures := 0
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		seen = append(seen, msg.Offset)
		if msg.Offset == 5 && failures < 2 {
			failures++
			assert.Empty(t, reader.commits(), "nothing committed while offset 5 is failing")
			return errors.New("storage unavailable")
		}
		if msg.Offset == 6 {
			cancel()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{5, 5, 5, 6}, seen)
	assert.Equal(t, []int64{5, 6}, reader.commits())
}

func TestConsumer_StopsRetryingWhenCancelled(t *testing.T) {
	reader := &fakeReader{pending: []kafkago.Message{{Offset: 1}}}
	c := testConsumer(reader)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := 0
	err := c.Consume(ctx, func(context.Context, kafkago.Message) error {
		attempts++
		if attempts == 3 {
			cancel()
		}
		return errors.New("still failing")
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Empty(t, reader.commits())
}

func TestConsumer_FetchErrorIsReturned(t *testing.T) {
	reader := &fakeReader{fetchErr: errors.New("broker gone")}
	c := testConsumer(reader)

	err := c.Consume(context.Background(), func(context.Context, kafkago.Message) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker gone")
}
