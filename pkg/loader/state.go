package loader

// State is a step of a run. A run only moves forward:
// Start, FileChecked, Parsed, Persisted, Done. Any state may move to Failed.
type State int

const (
	Start State = iota
	FileChecked
	Parsed
	Persisted
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case FileChecked:
		return "file_checked"
	case Parsed:
		return "parsed"
	case Persisted:
		return "persisted"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) Terminal() bool {
	return s == Done || s == Failed
}

func (s State) canMoveTo(next State) bool {
	if s.Terminal() {
		return false
	}
	return next == Failed || next == s+1
}
