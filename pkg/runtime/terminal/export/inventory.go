package export

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/dr-readiness/pkg/models/domain"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
)

// resourceView is the inventory entry of one observed resource.
type resourceView struct {
	Heading string
	Lines   []string
}

// inventory lists the resources collected for check in collection order.
func inventory(in readiness.Input, check domain.CheckName, env inventoryEnv) []resourceView {
	ci, ok := in[check]
	if !ok || ci.Err != nil {
		return nil
	}
	res := make([]resourceView, 0, len(ci.Facts))
	for _, f := range ci.Facts {
		res = append(res, resourceEntry(f, env))
	}
	return res
}

type inventoryEnv struct {
	DRRegion string
	Now      time.Time
}

func resourceEntry(res domain.FactResult, env inventoryEnv) resourceView {
	f := res.Fact
	view := resourceView{Heading: heading(f)}
	if res.Err != nil {
		view.Lines = append(view.Lines, "Error: "+res.Err.Error())
		return view
	}

	add := func(format string, args ...any) {
		view.Lines = append(view.Lines, fmt.Sprintf(format, args...))
	}

	switch f.Type {
	case domain.ResourceTypeVolume:
		add("Latest Snapshot ID: %s", orNA(f.Artifact))
		add("Snapshot Timestamp: %s", timestampOrNA(f.Timestamp))
		add("Snapshot State: %s", orNA(f.State))
		if f.Timestamp != nil {
			add("Age: %d minutes", int(env.Now.Sub(*f.Timestamp).Minutes()))
		}
		add("Replication Status: %s", replicationStatus(f.ReplicaRegions, env.DRRegion))

	case domain.ResourceTypeDatabaseInstance:
		if f.Artifact == "" && f.Timestamp == nil {
			add("Latest Snapshot ID: none")
			break
		}
		add("Latest Snapshot ID: %s", orNA(f.Artifact))
		add("Snapshot Timestamp: %s", timestampOrNA(f.Timestamp))
		switch {
		case f.State == domain.StateCopyUnverified:
			add("Snapshot Copy Status: Could not verify")
		case slices.Contains(f.ReplicaRegions, env.DRRegion):
			add("Snapshot Copy Status: Available in DR region")
		default:
			add("Snapshot Copy Status: Not found in DR region")
		}

	case domain.ResourceTypeDatabaseReplica:
		add("Primary: %s", orNA(f.Parent))
		add("Status: %s", orNA(f.State))
		if f.LagSeconds != nil {
			add("Replica Lag: %d seconds", int(*f.LagSeconds))
		} else {
			add("Replica Lag: No data available")
		}

	case domain.ResourceTypeBucket:
		add("Replication Enabled: Yes")
		add("Replica Regions: %s", orNA(strings.Join(f.ReplicaRegions, ", ")))
		switch f.State {
		case domain.StateRoleFound:
			add("IAM Replication Role: Exists (%s)", f.Artifact)
		case domain.StateRoleMissing:
			add("IAM Replication Role: Not found (%s)", orNA(f.Artifact))
		case domain.StateRoleUnverified:
			add("IAM Replication Role: Could not verify (%s)", f.Artifact)
		}

	case domain.ResourceTypeTable:
		if len(f.Replicas) == 0 && len(f.ReplicaRegions) == 0 {
			add("Global Table: No replicas configured")
			break
		}
		add("Replica Regions:")
		if len(f.Replicas) == 0 {
			for _, region := range f.ReplicaRegions {
				add("  - %s", region)
			}
		}
		for _, r := range f.Replicas {
			add("  - %s: %s", r.Region, r.Status)
			if r.UpdatedAt != nil {
				add("    Last Update: %s", formatTimestamp(*r.UpdatedAt))
			}
		}

	case domain.ResourceTypeBackupJob:
		add("ResourceArn: %s", orNA(f.Artifact))
		add("State: %s", orNA(f.State))
		add("Start Time: %s", timestampOrNA(f.Timestamp))

	case domain.ResourceTypeAlarm:
		add("Alarm State: %s", orNA(f.State))
		add("Metric Name: %s", orNA(f.Artifact))
		if f.State == domain.StateInsufficientData {
			add("Note: Alarm has insufficient data")
		}
	}

	for _, d := range f.Details {
		add("%s: %s", d.Name, d.Value)
	}
	return view
}

func heading(f domain.ResourceFact) string {
	switch f.Type {
	case domain.ResourceTypeVolume:
		return "Volume: " + f.ID
	case domain.ResourceTypeDatabaseInstance:
		return "Primary DB Identifier: " + f.ID
	case domain.ResourceTypeDatabaseReplica:
		return "Read Replica: " + f.ID
	case domain.ResourceTypeBucket:
		return "Bucket: " + f.ID
	case domain.ResourceTypeTable:
		return "Table Name: " + f.ID
	case domain.ResourceTypeBackupJob:
		return "BackupJobId: " + f.ID
	case domain.ResourceTypeAlarm:
		return "Alarm Name: " + f.ID
	default:
		return fmt.Sprintf("%s: %s", f.Type, f.ID)
	}
}

func replicationStatus(regions []string, drRegion string) string {
	if slices.Contains(regions, drRegion) {
		return "Replicated to " + drRegion
	}
	return "Not found in " + drRegion
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func timestampOrNA(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return formatTimestamp(*t)
}
