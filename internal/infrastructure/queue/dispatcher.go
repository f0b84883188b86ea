package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ananses3m/shop-api/internal/api/metrics"
	"github.com/ananses3m/shop-api/internal/core/domain"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
)

var (
	// ErrQueueFull is returned by Send when the recipient's worker channel
	// has no free slot. The message is dropped.
	ErrQueueFull = errors.New("mail queue full")
	// ErrStopped is returned by Send after Stop.
	ErrStopped = errors.New("mail dispatcher stopped")
)

// Sender performs the actual delivery of one message.
type Sender interface {
	Deliver(ctx context.Context, msg domain.Email) error
}

// Dispatcher delivers outbound mail on a fixed set of workers. Messages are
// routed by recipient so mail to one address is delivered in order.
type Dispatcher struct {
	workers []chan domain.Email
	sender  Sender
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// with a channel of bufferSize messages. Non-positive values fall back to
// the defaults.
func NewDispatcher(numWorkers, bufferSize int, sender Sender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.Email, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Email, bufferSize)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Stop has drained their channels.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop rejects new messages, lets the workers drain what is queued and
// waits for them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Send queues msg for delivery without blocking. It implements ports.Mailer.
func (d *Dispatcher) Send(_ context.Context, msg domain.Email) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}

	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.MailDeliveriesTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Int("worker_id", idx).Msg("mail queue full, message dropped")
		return ErrQueueFull
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(recipient)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Email) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			if err := d.sender.Deliver(ctx, msg); err != nil {
				metrics.MailDeliveriesTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("subject", msg.Subject).
					Int("worker_id", id).
					Msg("mail delivery failed")
				continue
			}
			metrics.MailDeliveriesTotal.WithLabelValues("sent").Inc()
		}
	}
}
