package document

// FlagDetection is the flag-store key under which the detection state is kept.
const FlagDetection = "bigfile.detection"

// DetectionState tracks how far large-file detection has progressed for a
// document. It only ever moves forward: Unset -> InProgress -> Done.
type DetectionState int

const (
	// StateUnset means no rule has matched the document yet.
	StateUnset DetectionState = iota

	// StateInProgress means at least one rule matched and immediate disables
	// have begun; deferred disables may still be pending.
	StateInProgress

	// StateDone means the post-load pass completed. The document is never
	// reprocessed for the rest of its lifetime in the session.
	StateDone
)

// String returns a human-readable state name.
func (s DetectionState) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateInProgress:
		return "in_progress"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// DetectionState returns the document's current detection state.
// A document with no recorded flag is StateUnset.
func (d *Document) DetectionState() DetectionState {
	v, ok := d.Flag(FlagDetection)
	if !ok {
		return StateUnset
	}
	s, ok := v.(DetectionState)
	if !ok {
		return StateUnset
	}
	return s
}

// AdvanceDetection moves the detection state forward to s.
// Transitions never regress: a request to move backward is ignored and the
// current state is returned. Returns the resulting state.
func (d *Document) AdvanceDetection(s DetectionState) DetectionState {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := StateUnset
	if v, ok := d.flags[FlagDetection]; ok {
		if st, ok := v.(DetectionState); ok {
			cur = st
		}
	}
	if s <= cur {
		return cur
	}
	d.flags[FlagDetection] = s
	return s
}
