package intake

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of an upload task.
type State string

const (
	StateQueued  State = "queued"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Terminal reports whether the task has finished.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Progress checkpoints of the creation sequence.
const (
	PercentQueued         = 0
	PercentUploadStarted  = 10
	PercentUploaded       = 40
	PercentCreated        = 50
	PercentProcessing     = 55
	PercentProcessed      = 85
	PercentPublishAttempt = 95
	PercentDone           = 100
)

// DefaultRetention keeps finished tasks visible for a short while.
const DefaultRetention = 3 * time.Second

// Task is a snapshot of one intake item's progress. FileName is a display
// label only; tasks are keyed by ID.
type Task struct {
	ID        string
	FileName  string
	Percent   int
	State     State
	Err       error
	UpdatedAt time.Time
}

// TrackerOption customises a Tracker.
type TrackerOption func(*Tracker)

// WithRetention sets how long finished tasks stay visible. Zero prunes them on
// the next read.
func WithRetention(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d >= 0 {
			t.retention = d
		}
	}
}

// WithClock overrides the tracker clock.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithObserver registers fn to receive every task update.
func WithObserver(fn func(Task)) TrackerOption {
	return func(t *Tracker) {
		if fn != nil {
			t.observers = append(t.observers, fn)
		}
	}
}

// Tracker keeps per-task progress for in-flight and recently finished intake.
type Tracker struct {
	mu        sync.Mutex
	tasks     map[string]*Task
	order     []string
	retention time.Duration
	now       func() time.Time
	observers []func(Task)
}

// NewTracker builds an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		tasks:     map[string]*Task{},
		retention: DefaultRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Register adds a queued task for fileName and returns its id.
func (t *Tracker) Register(fileName string) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.pruneLocked()
	task := &Task{ID: id, FileName: fileName, State: StateQueued, UpdatedAt: t.now()}
	t.tasks[id] = task
	t.order = append(t.order, id)
	snapshot := *task
	t.mu.Unlock()
	t.publish(snapshot)
	return id
}

// Progress moves a task to percent. Percent never decreases and finished
// tasks are left untouched.
func (t *Tracker) Progress(id string, percent int) {
	t.update(id, func(task *Task) bool {
		if task.State.Terminal() || percent < task.Percent {
			return false
		}
		task.Percent = min(percent, PercentDone-1)
		task.State = StateRunning
		return true
	})
}

// Complete marks a task done at 100%.
func (t *Tracker) Complete(id string) {
	t.update(id, func(task *Task) bool {
		if task.State.Terminal() {
			return false
		}
		task.Percent = PercentDone
		task.State = StateDone
		return true
	})
}

// Fail marks a task failed, keeping the percent it reached.
func (t *Tracker) Fail(id string, err error) {
	t.update(id, func(task *Task) bool {
		if task.State.Terminal() {
			return false
		}
		task.State = StateFailed
		task.Err = err
		return true
	})
}

// Dismiss removes a task immediately.
func (t *Tracker) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tasks[id]; !ok {
		return false
	}
	delete(t.tasks, id)
	t.order = slices.DeleteFunc(t.order, func(existing string) bool { return existing == id })
	return true
}

// Get returns the task with id.
func (t *Tracker) Get(id string) (Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	task, ok := t.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// Snapshot returns visible tasks in registration order.
func (t *Tracker) Snapshot() []Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	out := make([]Task, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.tasks[id])
	}
	return out
}

// Active reports how many tasks have not finished.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, task := range t.tasks {
		if !task.State.Terminal() {
			count++
		}
	}
	return count
}

func (t *Tracker) update(id string, fn func(*Task) bool) {
	t.mu.Lock()
	task, ok := t.tasks[id]
	if !ok || !fn(task) {
		t.mu.Unlock()
		return
	}
	task.UpdatedAt = t.now()
	snapshot := *task
	t.mu.Unlock()
	t.publish(snapshot)
}

func (t *Tracker) publish(task Task) {
	for _, fn := range t.observers {
		fn(task)
	}
}

func (t *Tracker) pruneLocked() {
	now := t.now()
	kept := t.order[:0]
	for _, id := range t.order {
		task := t.tasks[id]
		if task.State.Terminal() && now.Sub(task.UpdatedAt) >= t.retention {
			delete(t.tasks, id)
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
}
