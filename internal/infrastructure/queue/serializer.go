package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/notesaas/notes-api/internal/core/domain"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned for work submitted after the serializer shut down.
var ErrStopped = fmt.Errorf("%w: serializer stopped", domain.ErrUnavailable)

type job struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

// Serializer routes work to a fixed set of workers using consistent hashing
// on the tenant id. All work for one tenant runs on the same worker, one job
// at a time, in submission order.
type Serializer struct {
	workers []chan job
	log     zerolog.Logger

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewSerializer creates a Serializer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSerializer(numWorkers int, log zerolog.Logger) *Serializer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Serializer{
		workers: make([]chan job, numWorkers),
		log:     log,
		stopped: make(chan struct{}),
	}
	for i := range s.workers {
		s.workers[i] = make(chan job, channelBuffer)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (s *Serializer) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		s.stopOnce.Do(func() { close(s.stopped) })
	}()
}

// WithTenantLock runs fn on the worker owning tenantID and waits for it.
// Returns ctx.Err() if ctx ends before fn starts.
func (s *Serializer) WithTenantLock(ctx context.Context, tenantID string, fn func(ctx context.Context) error) error {
	select {
	case <-s.stopped:
		return ErrStopped
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	j := job{ctx: ctx, fn: fn, done: make(chan error, 1)}
	select {
	case s.workers[s.shardIndex(tenantID)] <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-s.stopped:
		return ErrStopped
	}
}

// shardIndex maps a tenant id deterministically to a worker index.
func (s *Serializer) shardIndex(tenantID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tenantID))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Serializer) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			j.done <- s.run(id, j)
		}
	}
}

func (s *Serializer) run(id int, j job) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Int("worker_id", id).Msg("serialized job panicked")
			err = errors.New("serialized job panicked")
		}
	}()
	return j.fn(j.ctx)
}
