package cruise

import (
	"sort"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// CancelFunc cancels a scheduled task. Calling it more than once is harmless.
type CancelFunc func()

// TaskQueue holds timed callbacks for a single-threaded owner. Nothing runs
// on its own: the owner calls RunDue from its loop, so callbacks execute on
// the owner's goroutine and need no locking.
type TaskQueue struct {
	tasks []*task
	seq   uint64
}

type task struct {
	id  uint64
	due time.Time
	fn  func()
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

// After schedules fn to run d after now.
func (q *TaskQueue) After(now time.Time, d time.Duration, fn func()) CancelFunc {
	q.seq++
	t := &task{id: q.seq, due: now.Add(d), fn: fn}
	q.tasks = append(q.tasks, t)
	return func() { q.remove(t.id) }
}

// Next returns the earliest due time.
func (q *TaskQueue) Next() (time.Time, bool) {
	if len(q.tasks) == 0 {
		return time.Time{}, false
	}
	q.sort()
	return q.tasks[0].due, true
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int { return len(q.tasks) }

// RunDue runs every task due at or before now, earliest first, including
// tasks scheduled by those callbacks that are already due. It returns the
// number of tasks run.
func (q *TaskQueue) RunDue(now time.Time) int {
	ran := 0
	for len(q.tasks) > 0 {
		q.sort()
		t := q.tasks[0]
		if t.due.After(now) {
			break
		}
		q.tasks = q.tasks[1:]
		t.fn()
		ran++
	}
	return ran
}

func (q *TaskQueue) remove(id uint64) {
	for i, t := range q.tasks {
		if t.id == id {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return
		}
	}
}

func (q *TaskQueue) sort() {
	sort.SliceStable(q.tasks, func(i, j int) bool {
		if q.tasks[i].due.Equal(q.tasks[j].due) {
			return q.tasks[i].id < q.tasks[j].id
		}
		return q.tasks[i].due.Before(q.tasks[j].due)
	})
}
