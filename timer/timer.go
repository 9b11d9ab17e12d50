// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// Scheduler runs one-shot delayed callbacks. Tasks are cancellable by id;
// a cancelled task never fires.
type Scheduler struct {
	queue   taskQueue
	mutex   sync.Mutex
	nextID  int64
	stopped chan struct{}
}

type task struct {
	id       int64
	deadline time.Time
	callback func()
	index    int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].deadline.Before(q[j].deadline)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	t.index = -1
	*q = old[:n-1]
	return t
}

func NewScheduler() *Scheduler {
	s := &Scheduler{
		queue:   make(taskQueue, 0),
		nextID:  1,
		stopped: make(chan struct{}),
	}
	heap.Init(&s.queue)
	go s.run()
	return s
}

// Schedule 注册一个延迟任务并返回可用于取消的ID
func (s *Scheduler) Schedule(delay time.Duration, callback func()) int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	t := &task{
		id:       s.nextID,
		deadline: time.Now().Add(delay),
		callback: callback,
	}
	s.nextID++

	heap.Push(&s.queue, t)
	return t.id
}

// Cancel removes a pending task. Cancelling an already-fired or unknown id
// is a no-op.
func (s *Scheduler) Cancel(taskID int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, t := range s.queue {
		if t.id == taskID {
			heap.Remove(&s.queue, i)
			return
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stopped)
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			var due []*task

			s.mutex.Lock()
			for s.queue.Len() > 0 {
				t := s.queue[0]
				if t.deadline.After(now) {
					break
				}
				heap.Pop(&s.queue)
				due = append(due, t)
			}
			s.mutex.Unlock()

			for _, t := range due {
				go t.callback()
			}

		case <-s.stopped:
			return
		}
	}
}
