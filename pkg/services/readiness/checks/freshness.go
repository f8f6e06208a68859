package checks

import "time"

type Freshness int

const (
	Unknown Freshness = iota
	Fresh
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Staleness classifies the age of ts against the recovery point objective.
// An age of exactly rpoMinutes is still fresh.
func Staleness(ts *time.Time, rpoMinutes int, now time.Time) Freshness {
	if ts == nil {
		return Unknown
	}
	if now.Sub(*ts).Minutes() > float64(rpoMinutes) {
		return Stale
	}
	return Fresh
}
