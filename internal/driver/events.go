package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted by the driver.
type PhaseObserver func(PhaseEvent)

// Stage is the pipeline step a file is in during Check.
type Stage uint8

const (
	StageNone Stage = iota
	StageLoad
	StageScan
	StageCompile
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "loading"
	case StageScan:
		return "scanning"
	case StageCompile:
		return "compiling"
	default:
		return ""
	}
}

// Status is the state of a file during Check.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
	StatusCached
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "working"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	case StatusCached:
		return "cached"
	default:
		return "unknown"
	}
}

// Event is a progress update for one file. An empty File means the event
// is about the whole run.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// Finished reports whether the event ends the file's processing.
func (e Event) Finished() bool {
	return e.Status == StatusDone || e.Status == StatusError || e.Status == StatusCached
}
