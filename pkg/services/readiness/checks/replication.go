package checks

import "slices"

type Replication int

const (
	Missing Replication = iota
	Replicated
)

func (r Replication) String() string {
	if r == Replicated {
		return "replicated"
	}
	return "missing"
}

// VerifyReplication requires an exact, case-sensitive match of the required
// region. "us-east-1" does not satisfy "us-east-1a" and vice versa.
func VerifyReplication(regions []string, required string) Replication {
	if slices.Contains(regions, required) {
		return Replicated
	}
	return Missing
}
