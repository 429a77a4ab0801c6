package notifier

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/celidone/customers/internal/metrics"
	"github.com/celidone/customers/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	defaultWorkers         = 4
	defaultQueueLength     = 256
	defaultDeliveryTimeout = 5 * time.Second
)

var (
	ErrQueueFull        = errors.New("notification queue is full")
	ErrDispatcherClosed = errors.New("notification dispatcher is closed")
)

// Dispatcher delivers events asynchronously through a fixed set of workers.
// Events are sharded by customer id, so events of one customer are delivered in broadcast order.
type Dispatcher struct {
	target          Notifier
	workers         []chan model.Event
	deliveryTimeout time.Duration
	mu              sync.RWMutex
	closed          bool
	cancel          context.CancelFunc
	wg              sync.WaitGroup
}

// NewDispatcher creates dispatcher, defaults are used for non-positive arguments
func NewDispatcher(target Notifier, workers int, queueLength int, deliveryTimeout time.Duration) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}

	if queueLength <= 0 {
		queueLength = defaultQueueLength
	}

	if deliveryTimeout <= 0 {
		deliveryTimeout = defaultDeliveryTimeout
	}

	d := &Dispatcher{
		target:          target,
		workers:         make([]chan model.Event, workers),
		deliveryTimeout: deliveryTimeout,
		cancel:          func() {},
	}

	for i := range d.workers {
		d.workers[i] = make(chan model.Event, queueLength)
	}
	return d
}

// Start launches workers, every delivery gets its own deadline derived from ctx
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Broadcast enqueues event without blocking, ErrQueueFull is returned when worker queue has no room
func (d *Dispatcher) Broadcast(_ context.Context, e model.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	idx := d.shardIndex(e.CustomerID)
	select {
	case d.workers[idx] <- e:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until queued events are delivered.
// Once ctx is done deliveries still in progress or queued are cancelled.
func (d *Dispatcher) Close(ctx context.Context) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logrus.Warn("notification dispatcher didn't drain in time, cancelling pending deliveries")
		d.cancel()
		<-done
	}
	d.cancel()
}

func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan model.Event) {
	defer d.wg.Done()

	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for e := range ch {
		depth.Dec()

		if err := d.deliver(ctx, e); err != nil {
			metrics.NotificationsTotal.WithLabelValues(e.Topic, "failed").Inc()
			logrus.WithFields(logrus.Fields{
				"topic":      e.Topic,
				"customerId": e.CustomerID,
				"workerId":   id,
			}).Errorf("failed to deliver notification - %v", err)
			continue
		}
		metrics.NotificationsTotal.WithLabelValues(e.Topic, "sent").Inc()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e model.Event) error {
	ctx, cancel := context.WithTimeout(ctx, d.deliveryTimeout)
	defer cancel()
	return d.target.Broadcast(ctx, e)
}
