package ir

// Version constants for the report schema and engine.
const (
	// ReportVersion is the audit report schema version.
	ReportVersion = "1"

	// EngineVersion is the audit engine version.
	EngineVersion = "0.3.0"
)
