package enrich

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

const queueCapacity = 64

// Pool is the bounded executor for enrichment tasks. It is constructed once
// at process start, stopped once at process stop, and never re-created; the
// fx module owns its lifecycle.
type Pool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	started bool
	stopped bool
}

func NewPool(workers int, logger *zap.SugaredLogger) *Pool {
	return &Pool{
		workers: workers,
		tasks:   make(chan func(), queueCapacity),
		logger:  logger,
	}
}

func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				p.run(task)
			}
		}()
	}
}

// Stop closes the queue and waits for queued tasks to drain.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

// Submit queues a task. Submissions beyond the queue capacity block until a
// worker frees a slot; submissions after Stop are dropped with a log line.
func (p *Pool) Submit(task func()) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.logger.Warn("task submitted after pool stop, dropping")
		return
	}
	p.mu.Unlock()

	p.tasks <- task
}

// A panicking task must not take a worker down with it.
func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorw("enrichment task panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	task()
}
