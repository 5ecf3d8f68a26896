// Package report accumulates probe results and renders them: leveled lines
// as probes complete, and a final summary table with pass/fail counts for
// humans and CI log scrapers.
package report
