package uploader

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// Part is one acknowledged multipart chunk.
type Part struct {
	Number int
	ETag   string
}

// transfer is the in-process record of one file moving to storage. The state
// field is only touched under mu; concurrent network callbacks go through
// transition/awaitRunnable so a part finishing during a cancel can never
// resurrect the transfer.
type transfer struct {
	plan    Plan
	content io.ReaderAt
	size    int64

	mu    sync.Mutex
	cond  *sync.Cond
	state State

	// aborts in-flight part requests on cancel
	cancelFn context.CancelFunc

	uploaded atomic.Int64

	partsMu sync.Mutex
	parts   []Part
}

func newTransfer(plan Plan, content io.ReaderAt, size int64) *transfer {
	t := &transfer{
		plan:    plan,
		content: content,
		size:    size,
		state:   StateQueued,
	}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *transfer) currentState() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// transition moves from exactly `from` to `to`; it fails when another actor
// got there first.
func (t *transfer) transition(from, to State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != from || !from.canTransitionTo(to) {
		return false
	}
	t.state = to
	t.cond.Broadcast()
	return true
}

// awaitRunnable blocks while the transfer is paused and reports whether a new
// part may start. Pause gates part scheduling only; an in-flight part always
// finishes.
func (t *transfer) awaitRunnable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.state == StatePaused {
		t.cond.Wait()
	}
	return t.state == StateUploading
}

func (t *transfer) addPart(part Part, length int64) {
	t.partsMu.Lock()
	t.parts = append(t.parts, part)
	t.partsMu.Unlock()
	t.uploaded.Add(length)
}

func (t *transfer) completedParts() []Part {
	t.partsMu.Lock()
	defer t.partsMu.Unlock()
	parts := make([]Part, len(t.parts))
	copy(parts, t.parts)
	return parts
}

func (t *transfer) reset() {
	t.partsMu.Lock()
	t.parts = nil
	t.partsMu.Unlock()
	t.uploaded.Store(0)
}
