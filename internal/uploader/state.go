package uploader

// State is the lifecycle state of one file transfer.
type State string

const (
	StateQueued    State = "queued"
	StateUploading State = "uploading"
	StatePaused    State = "paused"
	StateCancelled State = "cancelled"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// terminal reports whether no further transition is allowed, except Failed
// which an explicit retry may re-queue.
func (s State) terminal() bool {
	return s == StateCancelled || s == StateCompleted || s == StateFailed
}

var transitions = map[State][]State{
	StateQueued:    {StateUploading, StateCancelled},
	StateUploading: {StatePaused, StateCancelled, StateCompleted, StateFailed},
	StatePaused:    {StateUploading, StateCancelled},
	StateFailed:    {StateQueued},
}

func (s State) canTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
