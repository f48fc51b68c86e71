package worker

import "sync/atomic"

// Tracker hands out increasing sequence numbers so a caller can tell whether
// a response belongs to its most recent request. The zero value is ready.
type Tracker struct {
	gen atomic.Uint64
}

func (t *Tracker) Next() uint64 {
	return t.gen.Add(1)
}

// IsCurrent reports whether seq is the latest number handed out.
func (t *Tracker) IsCurrent(seq uint64) bool {
	return t.gen.Load() == seq
}
