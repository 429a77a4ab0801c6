package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/celidone/customers/internal/model"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.Event
	err    error
}

func (n *recordingNotifier) Broadcast(_ context.Context, e model.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return n.err
}

func (n *recordingNotifier) received() []model.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Event(nil), n.events...)
}

type blockingNotifier struct {
	release chan struct{}
}

func (n *blockingNotifier) Broadcast(ctx context.Context, _ model.Event) error {
	select {
	case <-n.release:
	case <-ctx.Done():
	}
	return nil
}

func TestFanout(t *testing.T) {
	ctx := context.Background()
	e := model.NewDeletedEvent("53b9062b-0f45-4671-8c01-52fce0d8c750", time.Now())

	failing := &recordingNotifier{err: errors.New("broker unavailable")}
	healthy := &recordingNotifier{}

	t.Log("every notifier receives event even if previous one fails")
	{
		err := Fanout(failing, healthy).Broadcast(ctx, e)
		require.Error(t, err, "failure of one notifier must be reported")
		require.ErrorIs(t, err, failing.err)
		require.Len(t, healthy.received(), 1, "healthy notifier must receive event")
	}

	t.Log("single notifier is returned as is")
	{
		require.Same(t, healthy, Fanout(healthy))
	}
}

func TestDispatcherPreservesPerCustomerOrder(t *testing.T) {
	target := &recordingNotifier{}
	d := NewDispatcher(target, 3, 100, time.Second)
	d.Start(context.Background())

	ids := []string{"a", "b", "c", "d"}
	const perCustomer = 20

	t.Logf("enqueue %d events for each of %d customers", perCustomer, len(ids))
	{
		for i := 0; i < perCustomer; i++ {
			for _, id := range ids {
				c := &model.Customer{ID: id, Name: fmt.Sprintf("%s-%d", id, i)}
				err := d.Broadcast(context.Background(), model.NewCustomerEvent(model.TopicCustomerUpdated, c, time.Now()))
				require.NoError(t, err, "queue must have room for event")
			}
		}
		d.Close(context.Background())
	}

	t.Log("events of every customer are delivered in broadcast order")
	{
		events := target.received()
		require.Len(t, events, perCustomer*len(ids), "every queued event must be delivered before close returns")

		next := make(map[string]int)
		for _, e := range events {
			expected := fmt.Sprintf("%s-%d", e.CustomerID, next[e.CustomerID])
			require.Equal(t, expected, e.Customer.Name, "event of customer %s delivered out of order", e.CustomerID)
			next[e.CustomerID]++
		}
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	target := &blockingNotifier{release: make(chan struct{})}
	d := NewDispatcher(target, 1, 1, time.Second)
	d.Start(context.Background())

	e := model.NewDeletedEvent("a", time.Now())

	t.Log("broadcast never blocks writer when queue is exhausted")
	{
		var err error
		for i := 0; i < 3 && err == nil; i++ {
			err = d.Broadcast(context.Background(), e)
		}
		require.ErrorIs(t, err, ErrQueueFull)
	}

	close(target.release)
	d.Close(context.Background())

	t.Log("closed dispatcher rejects events")
	{
		err := d.Broadcast(context.Background(), e)
		require.ErrorIs(t, err, ErrDispatcherClosed)
	}
}

func TestDispatcherDeliveryFailureIsolated(t *testing.T) {
	target := &recordingNotifier{err: errors.New("broker unavailable")}
	d := NewDispatcher(target, 2, 10, time.Second)
	d.Start(context.Background())

	t.Log("delivery failures are logged and do not stop workers")
	{
		for _, id := range []string{"a", "b", "a"} {
			require.NoError(t, d.Broadcast(context.Background(), model.NewDeletedEvent(id, time.Now())))
		}
		d.Close(context.Background())
		require.Len(t, target.received(), 3)
	}
}

type stuckNotifier struct {
	mu        sync.Mutex
	deadlines int
}

// Broadcast blocks until ctx is done, like producer retrying unreachable brokers
func (n *stuckNotifier) Broadcast(ctx context.Context, _ model.Event) error {
	if _, ok := ctx.Deadline(); ok {
		n.mu.Lock()
		n.deadlines++
		n.mu.Unlock()
	}

	<-ctx.Done()
	return ctx.Err()
}

func (n *stuckNotifier) withDeadline() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.deadlines
}

func TestDispatcherDeliveryTimeout(t *testing.T) {
	target := &stuckNotifier{}
	d := NewDispatcher(target, 1, 10, 20*time.Millisecond)
	d.Start(context.Background())

	t.Log("stuck deliveries are abandoned after delivery timeout")
	{
		for i := 0; i < 3; i++ {
			require.NoError(t, d.Broadcast(context.Background(), model.NewDeletedEvent("a", time.Now())))
		}

		closed := make(chan struct{})
		go func() {
			d.Close(context.Background())
			close(closed)
		}()

		select {
		case <-closed:
		case <-time.After(5 * time.Second):
			require.FailNow(t, "close must return once every delivery timed out")
		}
		require.Equal(t, 3, target.withDeadline(), "every delivery must be bounded by deadline")
	}
}

func TestDispatcherCloseCancelsPendingDeliveries(t *testing.T) {
	target := &stuckNotifier{}
	d := NewDispatcher(target, 2, 10, time.Hour)
	d.Start(context.Background())

	t.Log("close returns when drain deadline passes")
	{
		for _, id := range []string{"a", "b", "c", "d"} {
			require.NoError(t, d.Broadcast(context.Background(), model.NewDeletedEvent(id, time.Now())))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		closed := make(chan struct{})
		go func() {
			d.Close(ctx)
			close(closed)
		}()

		select {
		case <-closed:
		case <-time.After(5 * time.Second):
			require.FailNow(t, "close must cancel pending deliveries once its context is done")
		}
	}
}
