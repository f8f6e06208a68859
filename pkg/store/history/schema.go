package history

const runsTable = `
	CREATE TABLE IF NOT EXISTS readiness_runs (
		id VARCHAR NOT NULL PRIMARY KEY,
		generated_at TIMESTAMP NOT NULL,
		primary_region VARCHAR NOT NULL,
		dr_region VARCHAR NOT NULL,
		rpo_minutes INTEGER NOT NULL,
		replica_lag_seconds INTEGER NOT NULL,
		verdict VARCHAR NOT NULL,
		critical_count INTEGER NOT NULL,
		warning_count INTEGER NOT NULL
	);
`

const issuesTable = `
	CREATE TABLE IF NOT EXISTS readiness_issues (
		run_id VARCHAR NOT NULL,
		seq INTEGER NOT NULL,
		check_name VARCHAR NOT NULL,
		resource_id VARCHAR NOT NULL,
		severity VARCHAR NOT NULL,
		message VARCHAR NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
`

// Schema creates the history tables. It is valid for both DuckDB and
// PostgreSQL and safe to run repeatedly.
var Schema = []string{
	runsTable,
	issuesTable,
}
