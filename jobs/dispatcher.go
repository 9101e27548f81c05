package jobs

import (
	"log"
	"sync"
	"time"
)

type job struct {
	name    string
	fn      func() error
	attempt int
}

// Dispatcher is a small in-process job queue for fire-and-forget work,
// mainly notification emails. Jobs that fail are retried with a delay up to
// maxAttempts, giving at-least-once delivery within the process lifetime.
// Enqueue never blocks a request handler: a full queue drops the job and
// reports it.
type Dispatcher struct {
	queue       chan job
	maxAttempts int
	retryDelay  time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(buffer, workers int) *Dispatcher {
	d := &Dispatcher{
		queue:       make(chan job, buffer),
		maxAttempts: 3,
		retryDelay:  30 * time.Second,
	}
	d.start(workers)
	return d
}

func (d *Dispatcher) start(workers int) {
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		d.run(j)
	}
}

func (d *Dispatcher) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("🔥 Job %q panicked: %v", j.name, r)
		}
	}()

	err := j.fn()
	if err == nil {
		return
	}

	j.attempt++
	if j.attempt >= d.maxAttempts {
		log.Printf("🔥 Job %q failed after %d attempts: %v", j.name, j.attempt, err)
		return
	}

	log.Printf("Job %q failed (attempt %d), retrying: %v", j.name, j.attempt, err)
	retry := j
	time.AfterFunc(d.retryDelay, func() {
		if !d.submit(retry) {
			log.Printf("🔥 Dropping retry of job %q", retry.name)
		}
	})
}

func (d *Dispatcher) submit(j job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}

	select {
	case d.queue <- j:
		return true
	default:
		return false
	}
}

// Enqueue submits a job for asynchronous execution. Returns false when the
// dispatcher is closed or the queue is full and the job was dropped.
func (d *Dispatcher) Enqueue(name string, fn func() error) bool {
	ok := d.submit(job{name: name, fn: fn})
	if !ok {
		log.Printf("🔥 Job queue full or closed, dropping job %q", name)
	}
	return ok
}

// Close stops accepting jobs and waits for the workers to drain the queue.
// Retries scheduled after Close are dropped; acceptable for email jobs.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}
