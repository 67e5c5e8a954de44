package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamportal/identity-service/internal/api/metrics"
	"github.com/teamportal/identity-service/internal/core/domain"
	"github.com/teamportal/identity-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
	insertTimeout  = 5 * time.Second
)

// Recorder persists auth audit events off the request path. Events are
// routed to a fixed set of workers by hashing the account email, so the
// trail for any single account is written in the order it happened.
type Recorder struct {
	workers []chan *domain.AuthEvent
	repo    ports.AuthEventRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewRecorder creates a Recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRecorder(repo ports.AuthEventRepository, numWorkers int, log zerolog.Logger) *Recorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	workers := make([]chan *domain.AuthEvent, numWorkers)
	for i := range workers {
		workers[i] = make(chan *domain.AuthEvent, channelBuffer)
	}
	return &Recorder{workers: workers, repo: repo, log: log}
}

// Start launches the worker goroutines. Call exactly once.
func (r *Recorder) Start() {
	for i, ch := range r.workers {
		r.wg.Add(1)
		go r.run(i, ch)
	}
}

// Record enqueues one event. It never blocks: when the target worker's
// buffer is full the event is dropped, counted, and logged.
func (r *Recorder) Record(event *domain.AuthEvent) {
	ch := r.workers[shard(event.Email, len(r.workers))]
	select {
	case ch <- event:
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		r.log.Warn().
			Str("action", string(event.Action)).
			Str("email", event.Email).
			Msg("audit buffer full, event dropped")
	}
}

// Stop closes the worker channels and waits for the remaining buffered
// events to be written.
func (r *Recorder) Stop() {
	for _, ch := range r.workers {
		close(ch)
	}
	r.wg.Wait()
}

func (r *Recorder) run(id int, ch <-chan *domain.AuthEvent) {
	defer r.wg.Done()
	for event := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		if err := r.repo.InsertEvent(ctx, event); err != nil {
			r.log.Error().
				Err(err).
				Int("worker_id", id).
				Str("action", string(event.Action)).
				Msg("failed to persist audit event")
		}
		cancel()
	}
}

func shard(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
