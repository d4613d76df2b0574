// Package reporting aggregates scored parent questionnaires into commitment
// distribution reports, grouped by center and by grade, and persists
// periodic snapshots for trend analysis.
package reporting
