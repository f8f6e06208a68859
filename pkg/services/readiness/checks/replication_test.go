package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyReplication(t *testing.T) {
	tests := []struct {
		name     string
		regions  []string
		required string
		want     Replication
	}{
		{name: "member", regions: []string{"us-east-1", "us-west-2"}, required: "us-west-2", want: Replicated},
		{name: "empty set", regions: nil, required: "us-west-2", want: Missing},
		{name: "prefix is not a match", regions: []string{"us-east-1"}, required: "us-east-1a", want: Missing},
		{name: "longer value is not a match", regions: []string{"us-east-1a"}, required: "us-east-1", want: Missing},
		{name: "case sensitive", regions: []string{"US-WEST-2"}, required: "us-west-2", want: Missing},
		{name: "substring of bucket name is not a match", regions: []string{"backup-us-west-2-bucket"}, required: "us-west-2", want: Missing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyReplication(tt.regions, tt.required))
		})
	}
}
