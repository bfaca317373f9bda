package models

import "time"

// Period represents a span of committed (unavailable) time, either an
// internal appointment or an external calendar busy block.
type Period struct {
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"` // invariant: Start <= End
	UID   string    `bson:"uid,omitempty" json:"uid,omitempty"` // provider-assigned identifier for external blocks
}

// Overlaps reports whether the period intersects [start, end) with the given
// buffers applied. Buffers extend the period on both sides, so a candidate
// that merely touches the raw period boundary is still free.
func (p Period) Overlaps(start, end time.Time, bufferBefore, bufferAfter time.Duration) bool {
	return start.Before(p.End.Add(bufferAfter)) && end.After(p.Start.Add(-bufferBefore))
}

// Duration returns the length of the period.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}
