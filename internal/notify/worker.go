package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Pool runs fire-and-forget jobs on a fixed set of workers. Submissions
// never block: when the queue is full the job is rejected and the caller
// decides what to log.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
	log  zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// NewPool starts workers draining a queue of the given size.
func NewPool(queueSize, workers int, logger *zerolog.Logger) *Pool {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}

	p := &Pool{
		jobs: make(chan func(), queueSize),
		log:  lg,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(id, job)
	}
}

func (p *Pool) run(id int, job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Int("worker", id).Any("panic", r).Msg("side job panicked")
		}
	}()
	job()
}

// Submit queues a job. Returns false if the queue is full or the pool is
// shut down.
func (p *Pool) Submit(fn func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- fn:
		return true
	default:
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}
