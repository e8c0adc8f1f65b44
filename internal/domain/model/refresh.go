// Package model contains domain models passed between layers.
package model

import "time"

// RefreshRequest asks for one run of the load pipeline. Seq records the
// order in which requests were initiated; a board built from a lower Seq
// never replaces one built from a higher Seq.
type RefreshRequest struct {
	ID          string    // uuid for log correlation
	Seq         uint64    // initiation order, starts at 1
	Reason      string    // e.g. "startup", "interval", "manual"
	RequestedAt time.Time // when the request was initiated
}

// Refresh reasons.
const (
	ReasonStartup  = "startup"
	ReasonInterval = "interval"
	ReasonManual   = "manual"
)

// Newer reports whether r was initiated after other.
func (r RefreshRequest) Newer(other RefreshRequest) bool {
	return r.Seq > other.Seq
}
