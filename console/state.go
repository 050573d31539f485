package console

import "sync"

// Phase is where a lane is in its request cycle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailure Phase = "failure"
)

// LaneName identifies one of the five request lanes.
type LaneName string

const (
	LanePassword   LaneName = "password"
	LaneValidation LaneName = "validation"
	LaneEncryption LaneName = "encryption"
	LaneDecryption LaneName = "decryption"
	LaneStatistics LaneName = "statistics"
)

// Lanes lists every lane in display order.
var Lanes = []LaneName{LanePassword, LaneValidation, LaneEncryption, LaneDecryption, LaneStatistics}

// RequestState is the observable state of a lane. Once a request has
// settled exactly one of Data and Error is set; both are empty while idle
// or loading.
type RequestState[T any] struct {
	Phase     Phase  `json:"phase"`
	Data      *T     `json:"data"`
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

// Lane holds one RequestState and the sequence number of the newest
// request issued on it.
type Lane[T any] struct {
	name LaneName

	mu    sync.Mutex
	seq   uint64
	state RequestState[T]
}

func newLane[T any](name LaneName) *Lane[T] {
	return &Lane[T]{name: name, state: RequestState[T]{Phase: PhaseIdle}}
}

// State returns a copy of the current state.
func (l *Lane[T]) State() RequestState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// begin marks the lane loading and returns the request's sequence number.
// Data and Error from the previous request are cleared.
func (l *Lane[T]) begin() (uint64, RequestState[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.state = RequestState[T]{Phase: PhaseLoading, IsLoading: true}
	return l.seq, l.state
}

// settle applies a result if seq is still the newest request. It reports
// whether the state changed.
func (l *Lane[T]) settle(seq uint64, data *T, errMsg string) (RequestState[T], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		return l.state, false
	}
	if errMsg != "" {
		l.state = RequestState[T]{Phase: PhaseFailure, Error: errMsg}
	} else {
		l.state = RequestState[T]{Phase: PhaseSuccess, Data: data}
	}
	return l.state, true
}
