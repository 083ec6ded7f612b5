package job

import (
	"time"
)

// Job is a unit of deferred work executed by the worker pool.
type Job interface {
	Execute()
}

type Queue chan Job

func NewQueue(size int) Queue {
	return make(Queue, size)
}

// Dispatch enqueues job after delay without blocking the caller.
func (q Queue) Dispatch(job Job, delay time.Duration) {
	go func() {
		if delay > 0 {
			<-time.After(delay)
		}

		q <- job
	}()
}

// Close stops the workers once the queue drains. Dispatch must not be called
// after Close.
func (q Queue) Close() {
	close(q)
}

type WorkerPool struct {
	workers []Worker
}

func NewWorkerPool(size int, queue Queue) *WorkerPool {
	workers := make([]Worker, size)
	for i := 0; i < size; i++ {
		workers[i] = NewWorker(queue)
	}

	return &WorkerPool{workers: workers}
}

func (p *WorkerPool) Start() {
	for _, worker := range p.workers {
		worker.Start()
	}
}

type Worker struct {
	queue Queue
}

func NewWorker(queue Queue) Worker {
	return Worker{queue: queue}
}

func (w *Worker) Start() {
	go func() {
		for job := range w.queue {
			job.Execute()
		}
	}()
}
