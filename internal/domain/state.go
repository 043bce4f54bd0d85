package domain

// DownloadState is the lifecycle position of one download request.
type DownloadState string

const (
	StateValidating DownloadState = "validating"
	StateExtracting DownloadState = "extracting"
	StateLocating   DownloadState = "locating"
	StateReading    DownloadState = "reading"
	StateResponding DownloadState = "responding"
	StateDone       DownloadState = "done"
	StateFailed     DownloadState = "failed"
)

var nextState = map[DownloadState]DownloadState{
	StateValidating: StateExtracting,
	StateExtracting: StateLocating,
	StateLocating:   StateReading,
	StateReading:    StateResponding,
	StateResponding: StateDone,
}

// CanTransition reports whether from -> to is a legal move.
// Failed is reachable from every non-terminal state; Done only from Responding.
// Nothing leaves a terminal state, so there are no retries.
func CanTransition(from, to DownloadState) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	return nextState[from] == to
}

// Terminal reports whether the state ends the request.
func (s DownloadState) Terminal() bool {
	return s == StateDone || s == StateFailed
}
