// Package probe implements the independent readiness checks run against
// the live container: binary sanity, HTTP endpoint reachability, and
// process presence. Each probe owns its retry budget and reports pass or
// fail with an optional diagnostic; a failing probe never aborts the run.
package probe
